package questionnaire

import "time"

// Session is one attempt at the questionnaire: the question set, the
// attempt identity, the ledger and the cursor, driven only through
// RecordAnswer, Advance and Retreat. A Session is not safe for concurrent
// use; it models a single respondent.
type Session struct {
	identity  Identity
	questions []Question
	ledger    *Ledger
	cursor    *Cursor
}

// NewSession sorts and validates questions and stamps a new identity
// before the first question is shown.
func NewSession(questions []Question, clock Clock) (*Session, error) {
	qs := SortQuestions(questions)
	if err := ValidateQuestions(qs); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Session{
		identity:  NewIdentity(clock),
		questions: qs,
		ledger:    NewLedger(),
		cursor:    NewCursor(len(qs), clock),
	}, nil
}

func (s *Session) ID() string { return s.identity.SessionID }

func (s *Session) StartTime() time.Time { return s.identity.StartTime }

func (s *Session) Questions() []Question { return s.questions }

func (s *Session) Ledger() *Ledger { return s.ledger }

func (s *Session) Index() int { return s.cursor.Index() }

func (s *Session) Total() int { return s.cursor.Total() }

func (s *Session) Progress() float64 { return s.cursor.Progress() }

func (s *Session) AnsweredCount() int { return s.ledger.AnsweredCount() }

func (s *Session) IsLast() bool { return s.cursor.IsLast() }

// Current returns the visible question.
func (s *Session) Current() Question {
	return s.questions[s.cursor.Index()]
}

// CurrentAnswer returns the recorded answer for the visible question.
func (s *Session) CurrentAnswer() (Answer, bool) {
	return s.ledger.Get(s.Current().ID)
}

// RecordAnswer selects optionID on the visible question, timed from the
// moment the question became visible. Selecting an option of another
// question panics with InvariantViolation.
func (s *Session) RecordAnswer(optionID int) Answer {
	q := s.Current()
	if !q.HasOption(optionID) {
		violate("record answer", "option %d does not belong to question %d", optionID, q.ID)
	}
	s.ledger.Record(q.ID, optionID, s.cursor.Elapsed())
	a, _ := s.ledger.Get(q.ID)
	return a
}

// Advance moves to the next question; it is rejected with ErrUnanswered
// until the visible question has an answer.
func (s *Session) Advance() error {
	_, answered := s.CurrentAnswer()
	return s.cursor.Advance(answered)
}

func (s *Session) Retreat() error {
	return s.cursor.Retreat()
}

// SubmitReady reports the terminal state: last question answered.
func (s *Session) SubmitReady() bool {
	_, answered := s.CurrentAnswer()
	return s.cursor.IsLast() && answered
}
