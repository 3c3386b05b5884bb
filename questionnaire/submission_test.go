package questionnaire

import (
	"context"
	"errors"
	"testing"
)

type stubScorer struct {
	err   error
	calls int
	token string
	got   Submission
}

func (s *stubScorer) Submit(ctx context.Context, token string, sub Submission) error {
	s.calls++
	s.token = token
	s.got = sub
	return s.err
}

func filledLedger() *Ledger {
	l := NewLedger()
	l.Record(2, 6, 900)
	l.Record(1, 3, 1500)
	return l
}

func TestCoordinatorSubmitAccepted(t *testing.T) {
	scorer := &stubScorer{}
	out := NewCoordinator(scorer, nil).Submit(context.Background(), "sess_1_abc", "tok", filledLedger())

	if !out.Accepted || out.Err != nil {
		t.Fatalf("outcome = %+v, want accepted without error", out)
	}
	if out.SessionID != "sess_1_abc" || out.ResultsPath != "/resultado/sess_1_abc" {
		t.Fatalf("outcome = %+v", out)
	}
	if scorer.calls != 1 || scorer.token != "tok" {
		t.Fatalf("scorer calls=%d token=%q", scorer.calls, scorer.token)
	}
	if scorer.got.SessionID != "sess_1_abc" || len(scorer.got.Responses) != 2 {
		t.Fatalf("payload = %+v", scorer.got)
	}
	if scorer.got.Responses[0].QuestionID != 2 || scorer.got.Responses[1].QuestionID != 1 {
		t.Fatalf("payload not in ledger order: %+v", scorer.got.Responses)
	}
}

func TestCoordinatorFailsOpen(t *testing.T) {
	transportErr := errors.New("connection refused")
	scorer := &stubScorer{err: transportErr}

	out := NewCoordinator(scorer, nil).Submit(context.Background(), "sess_9_zzz", "", filledLedger())

	if out.Accepted {
		t.Fatalf("outcome accepted on failure")
	}
	if out.SessionID != "sess_9_zzz" || out.ResultsPath != "/resultado/sess_9_zzz" {
		t.Fatalf("fail-open outcome lost session: %+v", out)
	}
	if !errors.Is(out.Err, ErrSubmissionFailed) || !errors.Is(out.Err, transportErr) {
		t.Fatalf("outcome err = %v, want wrapped ErrSubmissionFailed and cause", out.Err)
	}
	if scorer.calls != 1 {
		t.Fatalf("scorer called %d times, want exactly 1", scorer.calls)
	}
}

func TestCoordinatorWithoutScorer(t *testing.T) {
	out := NewCoordinator(nil, nil).Submit(context.Background(), "sess_2_x", "", NewLedger())
	if out.Accepted || !errors.Is(out.Err, ErrSubmissionFailed) {
		t.Fatalf("outcome = %+v, want failed", out)
	}
	if out.ResultsPath != "/resultado/sess_2_x" {
		t.Fatalf("ResultsPath = %q", out.ResultsPath)
	}
}

func TestResultsPathEscapes(t *testing.T) {
	if got := ResultsPath("a/b"); got != "/resultado/a%2Fb" {
		t.Fatalf("ResultsPath = %q", got)
	}
}
