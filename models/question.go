package models

import "time"

type Question struct {
	ID           uint             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Text         string           `gorm:"column:text;type:text;not null" json:"text"`
	QuestionType string           `gorm:"column:question_type;size:30;not null;default:'multiple_choice'" json:"question_type"`
	Category     string           `gorm:"column:category;size:100;not null" json:"category"`
	Order        int              `gorm:"column:display_order;not null;index" json:"order"`
	IsActive     bool             `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Options      []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionOption carries one weight per course; the scoring worker reads
// them from the submitted event.
type QuestionOption struct {
	ID                  uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionID          uint    `gorm:"column:question_id;not null;index" json:"question_id"`
	Text                string  `gorm:"column:text;size:500;not null" json:"text"`
	Value               string  `gorm:"column:value;size:100;not null" json:"value"`
	Order               int     `gorm:"column:display_order;not null" json:"order"`
	WeightTI            float64 `gorm:"column:weight_ti;default:0" json:"-"`
	WeightEnfermagem    float64 `gorm:"column:weight_enfermagem;default:0" json:"-"`
	WeightLogistica     float64 `gorm:"column:weight_logistica;default:0" json:"-"`
	WeightAdministracao float64 `gorm:"column:weight_administracao;default:0" json:"-"`
	WeightEstetica      float64 `gorm:"column:weight_estetica;default:0" json:"-"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// Weights maps course keys to the option's weight.
func (o QuestionOption) Weights() map[string]float64 {
	return map[string]float64{
		"ti":            o.WeightTI,
		"enfermagem":    o.WeightEnfermagem,
		"logistica":     o.WeightLogistica,
		"administracao": o.WeightAdministracao,
		"estetica":      o.WeightEstetica,
	}
}
