package events

import "time"

const RoutingSubmitted = "questionnaire.submitted"

// WeightedResponse is one answer together with the course weights of the
// selected option.
type WeightedResponse struct {
	QuestionID       uint               `json:"question_id"`
	SelectedOptionID uint               `json:"selected_option_id"`
	ResponseTimeMS   int64              `json:"response_time_ms"`
	Weights          map[string]float64 `json:"weights"`
}

// Submitted is published once a session's responses are stored.
type Submitted struct {
	SessionID   string             `json:"session_id"`
	UserID      *uint              `json:"user_id,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Responses   []WeightedResponse `json:"responses"`
}
