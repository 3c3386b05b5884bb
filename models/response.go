package models

import "time"

type QuestionnaireResponse struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID           *uint     `gorm:"column:user_id" json:"user_id"`
	SessionID        string    `gorm:"column:session_id;size:255;not null;index" json:"session_id"`
	QuestionID       uint      `gorm:"column:question_id;not null" json:"question_id"`
	SelectedOptionID uint      `gorm:"column:selected_option_id;not null" json:"selected_option_id"`
	ResponseTimeMS   int64     `gorm:"column:response_time_ms;not null" json:"response_time_ms"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (QuestionnaireResponse) TableName() string {
	return "questionnaire_responses"
}

// RecommendationResult is written by the scoring worker once it has
// processed a submitted session.
type RecommendationResult struct {
	ID                 uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID             *uint     `gorm:"column:user_id" json:"user_id"`
	SessionID          string    `gorm:"column:session_id;size:255;not null;index" json:"session_id"`
	ScoreTI            float64   `gorm:"column:score_ti;not null" json:"score_ti"`
	ScoreEnfermagem    float64   `gorm:"column:score_enfermagem;not null" json:"score_enfermagem"`
	ScoreLogistica     float64   `gorm:"column:score_logistica;not null" json:"score_logistica"`
	ScoreAdministracao float64   `gorm:"column:score_administracao;not null" json:"score_administracao"`
	ScoreEstetica      float64   `gorm:"column:score_estetica;not null" json:"score_estetica"`
	RecommendedCourse  string    `gorm:"column:recommended_course;size:100;not null" json:"recommended_course"`
	ConfidenceScore    float64   `gorm:"column:confidence_score;not null" json:"confidence_score"`
	ModelVersion       string    `gorm:"column:model_version;size:50;not null" json:"model_version"`
	ProcessingTimeMS   int64     `gorm:"column:processing_time_ms;not null" json:"processing_time_ms"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationResult) TableName() string {
	return "recommendation_results"
}

// NoCourse is reported while no result has been stored yet.
const NoCourse = "Nenhum"

type DashboardStats struct {
	TotalResponses        int64   `json:"total_responses"`
	TotalSessions         int64   `json:"total_sessions"`
	ResponsesToday        int64   `json:"responses_today"`
	MostRecommendedCourse string  `json:"most_recommended_course"`
	AverageConfidence     float64 `json:"average_confidence"`
}
