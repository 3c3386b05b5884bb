package questionnaire

// Answer is the recorded selection for one question.
type Answer struct {
	QuestionID       int   `json:"question_id"`
	SelectedOptionID int   `json:"selected_option_id"`
	ResponseTimeMS   int64 `json:"response_time_ms"`
}

// Ledger is the in-memory record of what has been answered in a session.
// It never reads a clock: elapsed times are supplied by the caller.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	answers map[int]Answer
	order   []int
}

func NewLedger() *Ledger {
	return &Ledger{answers: make(map[int]Answer)}
}

// Record stores the answer for questionID, replacing any earlier one. A
// replaced answer keeps the position of the first record for that question.
func (l *Ledger) Record(questionID, optionID int, elapsedMS int64) {
	if elapsedMS < 0 {
		violate("record", "negative response time %dms for question %d", elapsedMS, questionID)
	}
	if _, ok := l.answers[questionID]; !ok {
		l.order = append(l.order, questionID)
	}
	l.answers[questionID] = Answer{
		QuestionID:       questionID,
		SelectedOptionID: optionID,
		ResponseTimeMS:   elapsedMS,
	}
}

func (l *Ledger) Get(questionID int) (Answer, bool) {
	a, ok := l.answers[questionID]
	return a, ok
}

// All returns the answers in insertion order.
func (l *Ledger) All() []Answer {
	out := make([]Answer, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.answers[id])
	}
	return out
}

// AnsweredCount counts distinct answered questions.
func (l *Ledger) AnsweredCount() int {
	return len(l.answers)
}
