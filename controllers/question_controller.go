package controllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/models"
	"github.com/THURZIN2905/toperdido/repository"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

type CatalogStore interface {
	AllQuestions(ctx context.Context, offset, limit int) ([]models.Question, error)
	FindQuestion(ctx context.Context, id uint) (*models.Question, error)
	ActiveOrderTaken(ctx context.Context, order int, excludeID uint) (bool, error)
	CreateQuestion(ctx context.Context, q *models.Question) error
	UpdateQuestion(ctx context.Context, id uint, fields map[string]interface{}, options *[]models.QuestionOption) error
	RemoveQuestion(ctx context.Context, id uint) (int64, error)
	DashboardStats(ctx context.Context, since time.Time) (models.DashboardStats, error)
}

// CatalogController manages the question catalog. Every change drops the
// cached public catalog.
type CatalogController struct {
	store CatalogStore
	cache Cache
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewCatalogController(store CatalogStore, cache Cache, log logrus.FieldLogger) *CatalogController {
	if log == nil {
		log = logger.Logger
	}
	return &CatalogController{store: store, cache: cache, log: log, now: time.Now}
}

type optionPayload struct {
	Text                string  `json:"text" binding:"required"`
	Value               string  `json:"value" binding:"required"`
	Order               int     `json:"order" binding:"gte=0"`
	WeightTI            float64 `json:"weight_ti"`
	WeightEnfermagem    float64 `json:"weight_enfermagem"`
	WeightLogistica     float64 `json:"weight_logistica"`
	WeightAdministracao float64 `json:"weight_administracao"`
	WeightEstetica      float64 `json:"weight_estetica"`
}

func (p optionPayload) model() models.QuestionOption {
	return models.QuestionOption{
		Text:                p.Text,
		Value:               p.Value,
		Order:               p.Order,
		WeightTI:            p.WeightTI,
		WeightEnfermagem:    p.WeightEnfermagem,
		WeightLogistica:     p.WeightLogistica,
		WeightAdministracao: p.WeightAdministracao,
		WeightEstetica:      p.WeightEstetica,
	}
}

// adminQuestion is the catalog view with option weights, which the public
// endpoint never exposes.
type adminQuestion struct {
	ID           uint            `json:"id"`
	Text         string          `json:"text"`
	QuestionType string          `json:"question_type"`
	Category     string          `json:"category"`
	Order        int             `json:"order"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	Options      []optionPayload `json:"options"`
}

func toAdminQuestion(q models.Question) adminQuestion {
	out := adminQuestion{
		ID:           q.ID,
		Text:         q.Text,
		QuestionType: q.QuestionType,
		Category:     q.Category,
		Order:        q.Order,
		IsActive:     q.IsActive,
		CreatedAt:    q.CreatedAt,
		Options:      make([]optionPayload, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		out.Options = append(out.Options, optionPayload{
			Text:                o.Text,
			Value:               o.Value,
			Order:               o.Order,
			WeightTI:            o.WeightTI,
			WeightEnfermagem:    o.WeightEnfermagem,
			WeightLogistica:     o.WeightLogistica,
			WeightAdministracao: o.WeightAdministracao,
			WeightEstetica:      o.WeightEstetica,
		})
	}
	return out
}

func (cc *CatalogController) invalidate(ctx context.Context) {
	if cc.cache == nil {
		return
	}
	if err := cc.cache.Delete(ctx, catalogCacheKey); err != nil {
		cc.log.WithError(err).Warn("failed to drop cached questions")
	}
}

func parseQuestionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question id"})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + key})
		return 0, false
	}
	return n, true
}

// GET /api/v1/admin/questions?skip=&limit=
func (cc *CatalogController) ListAllQuestions(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", defaultPageSize)
	if !ok {
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	qs, err := cc.store.AllQuestions(c.Request.Context(), skip, limit)
	if err != nil {
		cc.log.WithError(err).Error("failed to list questions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list questions"})
		return
	}
	out := make([]adminQuestion, 0, len(qs))
	for _, q := range qs {
		out = append(out, toAdminQuestion(q))
	}
	c.JSON(http.StatusOK, out)
}

type createQuestionReq struct {
	Text         string          `json:"text" binding:"required"`
	QuestionType string          `json:"question_type"`
	Category     string          `json:"category" binding:"required"`
	Order        int             `json:"order" binding:"required,gte=1"`
	IsActive     *bool           `json:"is_active"`
	Options      []optionPayload `json:"options" binding:"required,min=1,dive"`
}

// POST /api/v1/admin/questions
func (cc *CatalogController) CreateQuestion(c *gin.Context) {
	ctx := c.Request.Context()

	var req createQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid question", "error": err.Error()})
		return
	}

	q := models.Question{
		Text:         strings.TrimSpace(req.Text),
		QuestionType: strings.TrimSpace(req.QuestionType),
		Category:     strings.TrimSpace(req.Category),
		Order:        req.Order,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if q.QuestionType == "" {
		q.QuestionType = "multiple_choice"
	}
	for _, o := range req.Options {
		q.Options = append(q.Options, o.model())
	}

	if q.IsActive && !cc.orderFree(c, q.Order, 0) {
		return
	}
	if err := cc.store.CreateQuestion(ctx, &q); err != nil {
		cc.log.WithError(err).Error("failed to create question")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create question"})
		return
	}
	cc.invalidate(ctx)
	cc.log.WithFields(logrus.Fields{"question_id": q.ID, "order": q.Order}).Info("question created")
	c.JSON(http.StatusCreated, toAdminQuestion(q))
}

// orderFree answers 409 when another active question holds order.
func (cc *CatalogController) orderFree(c *gin.Context, order int, excludeID uint) bool {
	taken, err := cc.store.ActiveOrderTaken(c.Request.Context(), order, excludeID)
	if err != nil {
		cc.log.WithError(err).Error("failed to check display order")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save question"})
		return false
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"message": "Another active question already uses order " + strconv.Itoa(order)})
		return false
	}
	return true
}

type updateQuestionReq struct {
	Text         *string          `json:"text"`
	QuestionType *string          `json:"question_type"`
	Category     *string          `json:"category"`
	Order        *int             `json:"order"`
	IsActive     *bool            `json:"is_active"`
	Options      *[]optionPayload `json:"options"`
}

// PUT /api/v1/admin/questions/:id
// Only the fields present are changed. options, when present, replaces the
// whole option list.
func (cc *CatalogController) UpdateQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	var req updateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid question", "error": err.Error()})
		return
	}

	current, err := cc.store.FindQuestion(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}
	if err != nil {
		cc.log.WithError(err).WithField("question_id", id).Error("failed to load question")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update question"})
		return
	}

	fields := map[string]interface{}{}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "text must not be empty"})
			return
		}
		fields["text"] = strings.TrimSpace(*req.Text)
	}
	if req.QuestionType != nil {
		fields["question_type"] = strings.TrimSpace(*req.QuestionType)
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Order != nil {
		if *req.Order < 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "order must be at least 1"})
			return
		}
		fields["display_order"] = *req.Order
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	var options *[]models.QuestionOption
	if req.Options != nil {
		if len(*req.Options) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "options must not be empty"})
			return
		}
		opts := make([]models.QuestionOption, 0, len(*req.Options))
		for _, o := range *req.Options {
			if strings.TrimSpace(o.Text) == "" || strings.TrimSpace(o.Value) == "" || o.Order < 0 {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "every option needs text, value and a non-negative order"})
				return
			}
			opts = append(opts, o.model())
		}
		options = &opts
	}

	if len(fields) == 0 && options == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	order, active := current.Order, current.IsActive
	if req.Order != nil {
		order = *req.Order
	}
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if active && (order != current.Order || !current.IsActive) && !cc.orderFree(c, order, id) {
		return
	}

	if err := cc.store.UpdateQuestion(ctx, id, fields, options); err != nil {
		cc.log.WithError(err).WithField("question_id", id).Error("failed to update question")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update question"})
		return
	}
	cc.invalidate(ctx)

	updated, err := cc.store.FindQuestion(ctx, id)
	if err != nil {
		cc.log.WithError(err).WithField("question_id", id).Error("failed to reload question")
		c.JSON(http.StatusOK, gin.H{"message": "updated"})
		return
	}
	c.JSON(http.StatusOK, toAdminQuestion(*updated))
}

// DELETE /api/v1/admin/questions/:id
func (cc *CatalogController) DeleteQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseQuestionID(c)
	if !ok {
		return
	}

	answered, err := cc.store.RemoveQuestion(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Question not found"})
		return
	}
	if err != nil {
		cc.log.WithError(err).WithField("question_id", id).Error("failed to remove question")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove question"})
		return
	}
	cc.invalidate(ctx)

	if answered > 0 {
		cc.log.WithFields(logrus.Fields{"question_id": id, "responses": answered}).Info("question deactivated")
		c.JSON(http.StatusOK, gin.H{"message": "deactivated", "responses": answered})
		return
	}
	cc.log.WithField("question_id", id).Info("question deleted")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /api/v1/admin/dashboard
func (cc *CatalogController) Dashboard(c *gin.Context) {
	now := cc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats, err := cc.store.DashboardStats(c.Request.Context(), today)
	if err != nil {
		cc.log.WithError(err).Error("failed to load dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load dashboard"})
		return
	}
	stats.AverageConfidence = math.Round(stats.AverageConfidence*100) / 100
	c.JSON(http.StatusOK, stats)
}
