package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Submission is the payload sent to the scoring service.
type Submission struct {
	SessionID string   `json:"session_id"`
	Responses []Answer `json:"responses"`
}

// Scorer delivers a submission. token is the caller's bearer credential and
// may be empty for anonymous respondents.
type Scorer interface {
	Submit(ctx context.Context, token string, submission Submission) error
}

var ErrSubmissionFailed = errors.New("submission failed")

// Outcome is where the respondent goes after submitting. ResultsPath is set
// even when the scoring service rejected or never received the payload.
type Outcome struct {
	SessionID   string
	ResultsPath string
	Accepted    bool
	Err         error
}

// ResultsPath is the results view route for a session.
func ResultsPath(sessionID string) string {
	return "/resultado/" + url.PathEscape(sessionID)
}

// BuildSubmission snapshots the ledger in insertion order.
func BuildSubmission(sessionID string, ledger *Ledger) Submission {
	return Submission{SessionID: sessionID, Responses: ledger.All()}
}

type Coordinator struct {
	scorer Scorer
	log    logrus.FieldLogger
}

func NewCoordinator(scorer Scorer, log logrus.FieldLogger) *Coordinator {
	return &Coordinator{scorer: scorer, log: orDiscard(log)}
}

// Submit makes exactly one delivery attempt and always hands off to the
// results view.
func (c *Coordinator) Submit(ctx context.Context, sessionID, token string, ledger *Ledger) Outcome {
	out := Outcome{SessionID: sessionID, ResultsPath: ResultsPath(sessionID)}
	sub := BuildSubmission(sessionID, ledger)

	var err error
	if c.scorer == nil {
		err = errors.New("no scoring service configured")
	} else {
		err = c.scorer.Submit(ctx, token, sub)
	}
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		c.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"responses":  len(sub.Responses),
		}).WithError(err).Error("submission failed, continuing to results")
		return out
	}

	out.Accepted = true
	c.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"responses":  len(sub.Responses),
	}).Info("submission accepted")
	return out
}
