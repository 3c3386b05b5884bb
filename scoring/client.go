package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/THURZIN2905/toperdido/questionnaire"
)

var ErrResultNotFound = errors.New("result not found")

// StatusError is a non-success HTTP answer from the API.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Result is the recommendation stored for a session.
type Result struct {
	SessionID          string    `json:"session_id"`
	ScoreTI            float64   `json:"score_ti"`
	ScoreEnfermagem    float64   `json:"score_enfermagem"`
	ScoreLogistica     float64   `json:"score_logistica"`
	ScoreAdministracao float64   `json:"score_administracao"`
	ScoreEstetica      float64   `json:"score_estetica"`
	RecommendedCourse  string    `json:"recommended_course"`
	ConfidenceScore    float64   `json:"confidence_score"`
	ModelVersion       string    `json:"model_version"`
	CreatedAt          time.Time `json:"created_at"`
}

// Client talks to the questionnaire API. It serves as both the question
// catalog and the scorer of a session.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ questionnaire.Catalog = (*Client)(nil)
	_ questionnaire.Scorer  = (*Client)(nil)
)

// NewClient targets baseURL, e.g. "http://localhost:8080/api/v1".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body interface{}, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	// anything but 200 is a failure, 2xx included
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// FetchQuestions makes one GET of the active catalog.
func (c *Client) FetchQuestions(ctx context.Context) ([]questionnaire.Question, error) {
	var qs []questionnaire.Question
	if err := c.do(ctx, "fetch questions", http.MethodGet, "/questionnaire/questions", "", nil, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Submit posts the submission once. Any non-2xx answer is an error.
func (c *Client) Submit(ctx context.Context, token string, submission questionnaire.Submission) error {
	return c.do(ctx, "submit", http.MethodPost, "/questionnaire/submit", token, submission, nil)
}

// FetchResult reads the stored recommendation for sessionID.
func (c *Client) FetchResult(ctx context.Context, sessionID string) (*Result, error) {
	var res Result
	err := c.do(ctx, "fetch result", http.MethodGet, "/questionnaire/result/"+url.PathEscape(sessionID), "", nil, &res)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}
