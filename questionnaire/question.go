package questionnaire

import (
	"errors"
	"fmt"
	"sort"
)

// Option is one selectable answer of a Question. Value is the scoring tag
// and is passed through untouched.
type Option struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Question is a single multiple-choice prompt of the questionnaire.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	QuestionType string   `json:"question_type,omitempty"`
	Category     string   `json:"category"`
	Order        int      `json:"order"`
	Options      []Option `json:"options"`
}

var (
	ErrNoQuestions    = errors.New("questionnaire has no questions")
	ErrNoOptions      = errors.New("question has no options")
	ErrDuplicateOrder = errors.New("duplicate question order")
)

// HasOption reports whether optionID belongs to q.
func (q Question) HasOption(optionID int) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// SortQuestions returns a copy of qs ordered by Order, with every option
// list ordered by Order as well. Ties keep their original position.
func SortQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		sort.SliceStable(opts, func(a, b int) bool { return opts[a].Order < opts[b].Order })
		q.Options = opts
		out[i] = q
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// ValidateQuestions checks the structural invariants of a question set.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[int]int, len(qs))
	for _, q := range qs {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d: %w", q.ID, ErrNoOptions)
		}
		if other, ok := seen[q.Order]; ok {
			return fmt.Errorf("questions %d and %d share order %d: %w", other, q.ID, q.Order, ErrDuplicateOrder)
		}
		seen[q.Order] = q.ID
	}
	return nil
}
