package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/THURZIN2905/toperdido/questionnaire"
	"github.com/THURZIN2905/toperdido/scoring"
)

var ErrAbandoned = errors.New("questionnaire abandoned")

// ResultFetcher reads the recommendation once a session has been handed off.
type ResultFetcher interface {
	FetchResult(ctx context.Context, sessionID string) (*scoring.Result, error)
}

// Runner drives one Session over a line-oriented terminal. It only forwards
// moves the session allows, so option numbers are range-checked here.
type Runner struct {
	in          io.Reader
	lines       <-chan string
	out         io.Writer
	source      *questionnaire.Source
	coordinator *questionnaire.Coordinator
	results     ResultFetcher
	clock       questionnaire.Clock
	token       string
}

func NewRunner(in io.Reader, out io.Writer, source *questionnaire.Source, coordinator *questionnaire.Coordinator, results ResultFetcher, clock questionnaire.Clock, token string) *Runner {
	return &Runner{
		in:          in,
		out:         out,
		source:      source,
		coordinator: coordinator,
		results:     results,
		clock:       clock,
		token:       token,
	}
}

// Run loads the questions, walks the respondent through them and submits.
// Quitting, closing the input or cancelling ctx returns ErrAbandoned and
// submits nothing.
func (r *Runner) Run(ctx context.Context) (questionnaire.Outcome, error) {
	if ctx.Err() != nil {
		return questionnaire.Outcome{}, ErrAbandoned
	}
	r.lines = scanLines(ctx, r.in)

	qs, origin := r.source.Load(ctx)
	if origin == questionnaire.OriginFallback {
		fmt.Fprintln(r.out, "(offline questions)")
	}
	s, err := questionnaire.NewSession(qs, r.clock)
	if err != nil {
		return questionnaire.Outcome{}, err
	}

	for {
		r.render(s)
		line, ok := r.readLine(ctx)
		if !ok {
			return questionnaire.Outcome{}, ErrAbandoned
		}

		switch cmd := strings.ToLower(line); cmd {
		case "q", "quit":
			return questionnaire.Outcome{}, ErrAbandoned
		case "p", "prev":
			if err := s.Retreat(); errors.Is(err, questionnaire.ErrAtStart) {
				fmt.Fprintln(r.out, "Already at the first question.")
			}
		case "n", "next":
			if s.SubmitReady() {
				return r.submit(ctx, s), nil
			}
			if err := s.Advance(); errors.Is(err, questionnaire.ErrUnanswered) {
				fmt.Fprintln(r.out, "Choose an option first.")
			}
		default:
			n, err := strconv.Atoi(cmd)
			opts := s.Current().Options
			if err != nil || n < 1 || n > len(opts) {
				fmt.Fprintf(r.out, "Type an option number between 1 and %d, n, p or q.\n", len(opts))
				continue
			}
			s.RecordAnswer(opts[n-1].ID)
		}
	}
}

// scanLines feeds input lines to the returned channel until the input ends
// or ctx is cancelled.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// readLine reports false once the input is closed or ctx is cancelled, even
// while waiting for the respondent.
func (r *Runner) readLine(ctx context.Context) (string, bool) {
	fmt.Fprint(r.out, "> ")
	if ctx.Err() != nil {
		return "", false
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		if !ok || ctx.Err() != nil {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

func (r *Runner) render(s *questionnaire.Session) {
	q := s.Current()
	fmt.Fprintf(r.out, "\nQuestion %d of %d (%.0f%%)  answered: %d\n", s.Index()+1, s.Total(), s.Progress(), s.AnsweredCount())
	if q.Category != "" {
		fmt.Fprintf(r.out, "[%s]\n", q.Category)
	}
	fmt.Fprintln(r.out, q.Text)

	current, answered := s.CurrentAnswer()
	for i, o := range q.Options {
		mark := " "
		if answered && current.SelectedOptionID == o.ID {
			mark = "*"
		}
		fmt.Fprintf(r.out, " %s %d) %s\n", mark, i+1, o.Text)
	}

	next := "n next"
	if s.IsLast() {
		next = "n finish"
	}
	fmt.Fprintf(r.out, "[1-%d] choose  %s  p previous  q quit\n", len(q.Options), next)
}

// submit always ends at the results view, whatever the scoring service said.
func (r *Runner) submit(ctx context.Context, s *questionnaire.Session) questionnaire.Outcome {
	out := r.coordinator.Submit(ctx, s.ID(), r.token, s.Ledger())
	fmt.Fprintf(r.out, "\nResults: %s\n", out.ResultsPath)

	if r.results == nil {
		return out
	}
	res, err := r.results.FetchResult(ctx, out.SessionID)
	switch {
	case err == nil:
		fmt.Fprintf(r.out, "Recommended course: %s (confidence %.0f%%)\n", res.RecommendedCourse, res.ConfidenceScore*100)
	case errors.Is(err, scoring.ErrResultNotFound):
		fmt.Fprintln(r.out, "Your recommendation is not ready yet.")
	default:
		fmt.Fprintln(r.out, "Your recommendation is not available right now.")
	}
	return out
}
