package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/THURZIN2905/toperdido/models"
)

var ErrNotFound = errors.New("record not found")

// QuestionnaireRepository is the gorm-backed store for the catalog,
// submitted responses, results and export jobs.
type QuestionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

func orderOptions(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC")
}

// ActiveQuestions returns active questions by display order with their
// options by display order.
func (r *QuestionnaireRepository) ActiveQuestions(ctx context.Context) ([]models.Question, error) {
	var qs []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("load active questions: %w", err)
	}
	return qs, nil
}

// SeedSampleQuestions inserts the sample catalog, skipping questions whose
// text already exists.
func (r *QuestionnaireRepository) SeedSampleQuestions(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, q := range models.SampleQuestions() {
			var n int64
			if err := tx.Model(&models.Question{}).Where("text = ?", q.Text).Count(&n).Error; err != nil {
				return fmt.Errorf("check sample question: %w", err)
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&q).Error; err != nil {
				return fmt.Errorf("create sample question %d: %w", q.Order, err)
			}
		}
		return nil
	})
}

// FindQuestions loads the questions with the given ids, keyed by id. Missing
// ids are simply absent from the map.
func (r *QuestionnaireRepository) FindQuestions(ctx context.Context, ids []uint) (map[uint]models.Question, error) {
	out := make(map[uint]models.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var qs []models.Question
	if err := r.db.WithContext(ctx).Preload("Options", orderOptions).Where("id IN ?", ids).Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	for _, q := range qs {
		out[q.ID] = q
	}
	return out, nil
}

// SaveResponses stores every row or none.
func (r *QuestionnaireRepository) SaveResponses(ctx context.Context, rows []models.QuestionnaireResponse) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("save responses: %w", err)
		}
		return nil
	})
}

// FindResult returns the newest result stored for sessionID.
func (r *QuestionnaireRepository) FindResult(ctx context.Context, sessionID string) (*models.RecommendationResult, error) {
	var res models.RecommendationResult
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find result: %w", err)
	}
	return &res, nil
}

// ResponsesBetween lists stored responses ordered by session and time. Nil
// bounds are open.
func (r *QuestionnaireRepository) ResponsesBetween(ctx context.Context, from, to *time.Time) ([]models.QuestionnaireResponse, error) {
	q := r.db.WithContext(ctx).Model(&models.QuestionnaireResponse{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var rows []models.QuestionnaireResponse
	if err := q.Order("session_id ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return rows, nil
}

func (r *QuestionnaireRepository) CreateExportJob(ctx context.Context, job *models.ExportJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

func (r *QuestionnaireRepository) FindExportJob(ctx context.Context, jobID string) (*models.ExportJob, error) {
	var job models.ExportJob
	err := r.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find export job: %w", err)
	}
	return &job, nil
}

func (r *QuestionnaireRepository) UpdateExportJob(ctx context.Context, jobID string, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.ExportJob{}).Where("job_id = ?", jobID).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update export job: %w", err)
	}
	return nil
}
