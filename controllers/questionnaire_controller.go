package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/THURZIN2905/toperdido/events"
	"github.com/THURZIN2905/toperdido/logger"
	"github.com/THURZIN2905/toperdido/metrics"
	"github.com/THURZIN2905/toperdido/middleware"
	"github.com/THURZIN2905/toperdido/models"
	"github.com/THURZIN2905/toperdido/questionnaire"
	"github.com/THURZIN2905/toperdido/repository"
)

const catalogCacheKey = "questionnaire:catalog:v1"

type QuestionnaireStore interface {
	ActiveQuestions(ctx context.Context) ([]models.Question, error)
	SeedSampleQuestions(ctx context.Context) error
	FindQuestions(ctx context.Context, ids []uint) (map[uint]models.Question, error)
	SaveResponses(ctx context.Context, rows []models.QuestionnaireResponse) error
	FindResult(ctx context.Context, sessionID string) (*models.RecommendationResult, error)
}

// Cache holds the encoded catalog. Get reports a miss with an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type QuestionnaireController struct {
	store     QuestionnaireStore
	publisher events.Publisher
	cache     Cache
	cacheTTL  time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewQuestionnaireController wires the handlers. cache may be nil; a nil
// publisher only logs events.
func NewQuestionnaireController(store QuestionnaireStore, publisher events.Publisher, cache Cache, cacheTTL time.Duration, log logrus.FieldLogger) *QuestionnaireController {
	if log == nil {
		log = logger.Logger
	}
	if publisher == nil {
		publisher = events.LogPublisher{Log: log}
	}
	return &QuestionnaireController{
		store:     store,
		publisher: publisher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		log:       log,
		now:       time.Now,
	}
}

// toCatalog converts a stored question into the wire shape the session
// engine consumes. Options keep the order they were loaded in.
func toCatalog(q models.Question) questionnaire.Question {
	out := questionnaire.Question{
		ID:           int(q.ID),
		Text:         q.Text,
		QuestionType: q.QuestionType,
		Category:     q.Category,
		Order:        q.Order,
		Options:      make([]questionnaire.Option, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		out.Options = append(out.Options, questionnaire.Option{
			ID:    int(o.ID),
			Text:  o.Text,
			Value: o.Value,
			Order: o.Order,
		})
	}
	return out
}

// GET /api/v1/questionnaire/questions
// Any internal failure answers an empty list so clients fall back to
// their built-in questions.
func (qc *QuestionnaireController) ListQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	if qc.cache != nil {
		if body, err := qc.cache.Get(ctx, catalogCacheKey); err == nil {
			metrics.CatalogRequests.WithLabelValues("cache").Inc()
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
			return
		}
	}

	qs, source, err := qc.loadCatalog(ctx)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues("error").Inc()
		qc.log.WithError(err).Error("failed to load questions")
		c.JSON(http.StatusOK, []questionnaire.Question{})
		return
	}
	metrics.CatalogRequests.WithLabelValues(source).Inc()

	out := make([]questionnaire.Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, toCatalog(q))
	}

	if qc.cache != nil && len(out) > 0 {
		if body, err := json.Marshal(out); err == nil {
			if err := qc.cache.Set(ctx, catalogCacheKey, body, qc.cacheTTL); err != nil {
				qc.log.WithError(err).Warn("failed to cache questions")
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

func (qc *QuestionnaireController) loadCatalog(ctx context.Context) ([]models.Question, string, error) {
	qs, err := qc.store.ActiveQuestions(ctx)
	if err != nil {
		return nil, "", err
	}
	if len(qs) > 0 {
		return qs, "database", nil
	}

	qc.log.Info("no active questions, seeding sample questions")
	if err := qc.store.SeedSampleQuestions(ctx); err != nil {
		return nil, "", fmt.Errorf("seed sample questions: %w", err)
	}
	qs, err = qc.store.ActiveQuestions(ctx)
	if err != nil {
		return nil, "", err
	}
	return qs, "seeded", nil
}

type submitResponseItem struct {
	QuestionID       uint  `json:"question_id" binding:"required"`
	SelectedOptionID uint  `json:"selected_option_id" binding:"required"`
	ResponseTimeMS   int64 `json:"response_time_ms" binding:"gte=0"`
}

type submitRequest struct {
	SessionID string               `json:"session_id" binding:"required"`
	Responses []submitResponseItem `json:"responses" binding:"required,min=1,dive"`
}

// POST /api/v1/questionnaire/submit
func (qc *QuestionnaireController) Submit(c *gin.Context) {
	start := qc.now()
	defer func() { metrics.SubmitDuration.Observe(time.Since(start).Seconds()) }()
	ctx := c.Request.Context()

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid submission", "error": err.Error()})
		return
	}

	// one answer per question
	ids := make([]uint, 0, len(req.Responses))
	seen := make(map[uint]struct{}, len(req.Responses))
	for _, r := range req.Responses {
		if _, dup := seen[r.QuestionID]; dup {
			metrics.Submissions.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Question %d answered more than once", r.QuestionID)})
			return
		}
		seen[r.QuestionID] = struct{}{}
		ids = append(ids, r.QuestionID)
	}
	questions, err := qc.store.FindQuestions(ctx, ids)
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		qc.log.WithError(err).Error("failed to load submitted questions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process questionnaire"})
		return
	}

	userID := middleware.UserID(c)
	rows := make([]models.QuestionnaireResponse, 0, len(req.Responses))
	weighted := make([]events.WeightedResponse, 0, len(req.Responses))
	for _, r := range req.Responses {
		q, ok := questions[r.QuestionID]
		if !ok {
			metrics.Submissions.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Question %d not found", r.QuestionID)})
			return
		}
		opt, ok := findOption(q, r.SelectedOptionID)
		if !ok {
			metrics.Submissions.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Option %d not found for question %d", r.SelectedOptionID, r.QuestionID)})
			return
		}
		rows = append(rows, models.QuestionnaireResponse{
			UserID:           userID,
			SessionID:        req.SessionID,
			QuestionID:       r.QuestionID,
			SelectedOptionID: r.SelectedOptionID,
			ResponseTimeMS:   r.ResponseTimeMS,
		})
		weighted = append(weighted, events.WeightedResponse{
			QuestionID:       r.QuestionID,
			SelectedOptionID: r.SelectedOptionID,
			ResponseTimeMS:   r.ResponseTimeMS,
			Weights:          opt.Weights(),
		})
	}

	if err := qc.store.SaveResponses(ctx, rows); err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		qc.log.WithError(err).WithField("session_id", req.SessionID).Error("failed to save responses")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process questionnaire"})
		return
	}

	// responses are stored; a broker outage only delays scoring
	evt := events.Submitted{
		SessionID:   req.SessionID,
		UserID:      userID,
		SubmittedAt: qc.now().UTC(),
		Responses:   weighted,
	}
	if err := qc.publisher.Publish(ctx, events.RoutingSubmitted, evt); err != nil {
		metrics.EventPublishFailures.Inc()
		qc.log.WithError(err).WithField("session_id", req.SessionID).Warn("failed to publish submission event")
	}

	metrics.Submissions.WithLabelValues("accepted").Inc()
	qc.log.WithFields(logrus.Fields{
		"session_id": req.SessionID,
		"responses":  len(rows),
		"anonymous":  userID == nil,
	}).Info("questionnaire submitted")
	c.JSON(http.StatusOK, gin.H{
		"session_id": req.SessionID,
		"responses":  len(rows),
		"status":     "accepted",
	})
}

func findOption(q models.Question, optionID uint) (models.QuestionOption, bool) {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o, true
		}
	}
	return models.QuestionOption{}, false
}

// GET /api/v1/questionnaire/result/:session_id
func (qc *QuestionnaireController) GetResult(c *gin.Context) {
	sessionID := c.Param("session_id")
	res, err := qc.store.FindResult(c.Request.Context(), sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Result not found"})
		return
	}
	if err != nil {
		qc.log.WithError(err).WithField("session_id", sessionID).Error("failed to load result")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load result"})
		return
	}
	c.JSON(http.StatusOK, res)
}
