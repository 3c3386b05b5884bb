package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/THURZIN2905/toperdido/models"
)

// AllQuestions lists every question, active or not, by display order.
func (r *QuestionnaireRepository) AllQuestions(ctx context.Context, offset, limit int) ([]models.Question, error) {
	var qs []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Order("display_order ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (r *QuestionnaireRepository) FindQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).Preload("Options", orderOptions).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &q, nil
}

// ActiveOrderTaken reports whether another active question already uses
// order. excludeID is ignored when zero.
func (r *QuestionnaireRepository) ActiveOrderTaken(ctx context.Context, order int, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("is_active = ? AND display_order = ?", true, order)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check display order: %w", err)
	}
	return n > 0, nil
}

// CreateQuestion inserts q together with its options.
func (r *QuestionnaireRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		return nil
	})
}

// UpdateQuestion applies fields to the question. A non-nil options slice
// replaces every stored option.
func (r *QuestionnaireRepository) UpdateQuestion(ctx context.Context, id uint, fields map[string]interface{}, options *[]models.QuestionOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&models.Question{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return fmt.Errorf("update question: %w", err)
			}
		}
		if options == nil {
			return nil
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return fmt.Errorf("drop options: %w", err)
		}
		if len(*options) == 0 {
			return nil
		}
		opts := *options
		for i := range opts {
			opts[i].ID = 0
			opts[i].QuestionID = id
		}
		if err := tx.Create(&opts).Error; err != nil {
			return fmt.Errorf("create options: %w", err)
		}
		return nil
	})
}

// RemoveQuestion deletes a question nobody has answered and closes the gap
// it leaves in the display order. Answered questions are only deactivated so
// stored responses keep their reference. The count of responses found is
// returned.
func (r *QuestionnaireRepository) RemoveQuestion(ctx context.Context, id uint) (int64, error) {
	var answered int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q models.Question
		if err := tx.First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find question: %w", err)
		}
		if err := tx.Model(&models.QuestionnaireResponse{}).Where("question_id = ?", id).Count(&answered).Error; err != nil {
			return fmt.Errorf("count responses: %w", err)
		}
		if answered > 0 {
			return tx.Model(&q).Update("is_active", false).Error
		}

		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return fmt.Errorf("delete options: %w", err)
		}
		if err := tx.Delete(&q).Error; err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		if err := tx.Model(&models.Question{}).
			Where("display_order > ?", q.Order).
			Update("display_order", gorm.Expr("display_order - 1")).Error; err != nil {
			return fmt.Errorf("shift display order: %w", err)
		}
		return nil
	})
	return answered, err
}

// DashboardStats aggregates response and result counters. since marks the
// start of "today".
func (r *QuestionnaireRepository) DashboardStats(ctx context.Context, since time.Time) (models.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := models.DashboardStats{MostRecommendedCourse: models.NoCourse}

	if err := db.Model(&models.QuestionnaireResponse{}).Count(&stats.TotalResponses).Error; err != nil {
		return stats, fmt.Errorf("count responses: %w", err)
	}
	if err := db.Model(&models.QuestionnaireResponse{}).Where("created_at >= ?", since).Count(&stats.ResponsesToday).Error; err != nil {
		return stats, fmt.Errorf("count today's responses: %w", err)
	}
	if err := db.Model(&models.QuestionnaireResponse{}).Distinct("session_id").Count(&stats.TotalSessions).Error; err != nil {
		return stats, fmt.Errorf("count sessions: %w", err)
	}

	var top []struct {
		Course string
		Count  int64
	}
	err := db.Model(&models.RecommendationResult{}).
		Select("recommended_course AS course, COUNT(*) AS count").
		Group("recommended_course").
		Order("count DESC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return stats, fmt.Errorf("top course: %w", err)
	}
	if len(top) > 0 && top[0].Course != "" {
		stats.MostRecommendedCourse = top[0].Course
	}

	var avg struct{ Avg *float64 }
	if err := db.Model(&models.RecommendationResult{}).Select("AVG(confidence_score) AS avg").Scan(&avg).Error; err != nil {
		return stats, fmt.Errorf("average confidence: %w", err)
	}
	if avg.Avg != nil {
		stats.AverageConfidence = *avg.Avg
	}
	return stats, nil
}
