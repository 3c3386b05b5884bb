package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/THURZIN2905/toperdido/cache"
	"github.com/THURZIN2905/toperdido/events"
	"github.com/THURZIN2905/toperdido/metrics"
	"github.com/THURZIN2905/toperdido/middleware"
	"github.com/THURZIN2905/toperdido/models"
	"github.com/THURZIN2905/toperdido/questionnaire"
	"github.com/THURZIN2905/toperdido/repository"
	"github.com/THURZIN2905/toperdido/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type stubStore struct {
	active    []models.Question
	activeErr error
	seedErr   error
	seeded    bool
	saveErr   error
	saved     []models.QuestionnaireResponse
	results   map[string]*models.RecommendationResult
	resultErr error
	calls     map[string]int
}

func newStubStore(qs ...models.Question) *stubStore {
	return &stubStore{active: qs, calls: map[string]int{}}
}

func (s *stubStore) ActiveQuestions(ctx context.Context) ([]models.Question, error) {
	s.calls["active"]++
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	return s.active, nil
}

func (s *stubStore) SeedSampleQuestions(ctx context.Context) error {
	s.calls["seed"]++
	if s.seedErr != nil {
		return s.seedErr
	}
	s.seeded = true
	s.active = []models.Question{sampleQuestion(1, 1, 11, 12)}
	return nil
}

func (s *stubStore) FindQuestions(ctx context.Context, ids []uint) (map[uint]models.Question, error) {
	s.calls["find"]++
	out := map[uint]models.Question{}
	for _, q := range s.active {
		for _, id := range ids {
			if q.ID == id {
				out[id] = q
			}
		}
	}
	return out, nil
}

func (s *stubStore) SaveResponses(ctx context.Context, rows []models.QuestionnaireResponse) error {
	s.calls["save"]++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, rows...)
	return nil
}

func (s *stubStore) FindResult(ctx context.Context, sessionID string) (*models.RecommendationResult, error) {
	if s.resultErr != nil {
		return nil, s.resultErr
	}
	if r, ok := s.results[sessionID]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

type memCache struct {
	data map[string]string
	ttl  time.Duration
}

func (m *memCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = string(value.([]byte))
	m.ttl = expiration
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type recordingPublisher struct {
	err    error
	keys   []string
	events []events.Submitted
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	p.keys = append(p.keys, routingKey)
	if e, ok := payload.(events.Submitted); ok {
		p.events = append(p.events, e)
	}
	return p.err
}

func sampleQuestion(id uint, order int, optionIDs ...uint) models.Question {
	q := models.Question{ID: id, Text: "q", QuestionType: "multiple_choice", Category: "c", Order: order, IsActive: true}
	for i, oid := range optionIDs {
		q.Options = append(q.Options, models.QuestionOption{
			ID: oid, QuestionID: id, Text: "o", Value: "v", Order: i + 1,
			WeightTI: float64(oid), WeightEstetica: 1,
		})
	}
	return q
}

func newRouter(qc *QuestionnaireController, secret string) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/v1/questionnaire")
	g.GET("/questions", qc.ListQuestions)
	g.POST("/submit", middleware.OptionalAuthJWT(secret), qc.Submit)
	g.GET("/result/:session_id", qc.GetResult)
	return r
}

func do(r http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeQuestions(t *testing.T, body *bytes.Buffer) []questionnaire.Question {
	t.Helper()
	var qs []questionnaire.Question
	if err := json.Unmarshal(body.Bytes(), &qs); err != nil {
		t.Fatalf("decode questions: %v (%s)", err, body.String())
	}
	return qs
}

func TestListQuestionsFromStoreAndCaches(t *testing.T) {
	store := newStubStore(sampleQuestion(1, 1, 11, 12), sampleQuestion(2, 2, 21))
	mc := &memCache{}
	qc := NewQuestionnaireController(store, nil, mc, time.Minute, quietLog())
	r := newRouter(qc, "")

	w := do(r, http.MethodGet, "/api/v1/questionnaire/questions", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	qs := decodeQuestions(t, w.Body)
	if len(qs) != 2 || qs[0].ID != 1 || len(qs[0].Options) != 2 || qs[0].Options[1].ID != 12 {
		t.Fatalf("questions = %+v", qs)
	}
	if strings.Contains(w.Body.String(), "weight") {
		t.Fatalf("weights leaked into catalog: %s", w.Body.String())
	}
	if mc.ttl != time.Minute || mc.data[catalogCacheKey] == "" {
		t.Fatalf("catalog not cached: ttl=%v", mc.ttl)
	}

	// second request is served from the cache
	before := testutil.ToFloat64(metrics.CatalogRequests.WithLabelValues("cache"))
	w = do(r, http.MethodGet, "/api/v1/questionnaire/questions", "", nil)
	if w.Code != http.StatusOK || len(decodeQuestions(t, w.Body)) != 2 {
		t.Fatalf("cached response = %d %s", w.Code, w.Body.String())
	}
	if store.calls["active"] != 1 {
		t.Fatalf("store hit %d times, want 1", store.calls["active"])
	}
	if got := testutil.ToFloat64(metrics.CatalogRequests.WithLabelValues("cache")); got != before+1 {
		t.Fatalf("cache counter = %v, want %v", got, before+1)
	}
}

func TestListQuestionsSeedsEmptyCatalog(t *testing.T) {
	store := newStubStore()
	qc := NewQuestionnaireController(store, nil, nil, 0, quietLog())

	w := do(newRouter(qc, ""), http.MethodGet, "/api/v1/questionnaire/questions", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !store.seeded || store.calls["active"] != 2 {
		t.Fatalf("seeded=%v active calls=%d", store.seeded, store.calls["active"])
	}
	if qs := decodeQuestions(t, w.Body); len(qs) != 1 {
		t.Fatalf("questions after seed = %+v", qs)
	}
}

func TestListQuestionsAnswersEmptyListOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		store *stubStore
	}{
		{"load error", &stubStore{activeErr: errors.New("db down"), calls: map[string]int{}}},
		{"seed error", &stubStore{seedErr: errors.New("read only"), calls: map[string]int{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := &memCache{}
			qc := NewQuestionnaireController(tc.store, nil, mc, time.Minute, quietLog())
			w := do(newRouter(qc, ""), http.MethodGet, "/api/v1/questionnaire/questions", "", nil)
			if w.Code != http.StatusOK || w.Body.String() != "[]" {
				t.Fatalf("response = %d %s, want 200 []", w.Code, w.Body.String())
			}
			if len(mc.data) != 0 {
				t.Fatalf("failure response was cached")
			}
		})
	}
}

func TestSubmitStoresAndPublishes(t *testing.T) {
	store := newStubStore(sampleQuestion(1, 1, 11, 12), sampleQuestion(2, 2, 21, 22))
	pub := &recordingPublisher{}
	qc := NewQuestionnaireController(store, pub, nil, 0, quietLog())
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	qc.now = func() time.Time { return fixed }

	before := testutil.ToFloat64(metrics.Submissions.WithLabelValues("accepted"))
	body := `{"session_id":"sess_1_abc","responses":[
		{"question_id":2,"selected_option_id":22,"response_time_ms":900},
		{"question_id":1,"selected_option_id":11,"response_time_ms":0}]}`
	w := do(newRouter(qc, ""), http.MethodPost, "/api/v1/questionnaire/submit", body, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var got map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["session_id"] != "sess_1_abc" || got["status"] != "accepted" || got["responses"] != float64(2) {
		t.Fatalf("body = %v", got)
	}

	if len(store.saved) != 2 || store.saved[0].QuestionID != 2 || store.saved[0].ResponseTimeMS != 900 {
		t.Fatalf("saved = %+v", store.saved)
	}
	if store.saved[0].UserID != nil {
		t.Fatalf("anonymous submission stored a user id")
	}

	if len(pub.events) != 1 || pub.keys[0] != events.RoutingSubmitted {
		t.Fatalf("published keys=%v events=%d", pub.keys, len(pub.events))
	}
	evt := pub.events[0]
	if evt.SessionID != "sess_1_abc" || !evt.SubmittedAt.Equal(fixed) || len(evt.Responses) != 2 {
		t.Fatalf("event = %+v", evt)
	}
	if evt.Responses[0].Weights["ti"] != 22 || evt.Responses[1].Weights["estetica"] != 1 {
		t.Fatalf("event weights = %+v", evt.Responses)
	}
	if after := testutil.ToFloat64(metrics.Submissions.WithLabelValues("accepted")); after != before+1 {
		t.Fatalf("accepted counter = %v, want %v", after, before+1)
	}
}

func TestSubmitAttachesAuthenticatedUser(t *testing.T) {
	store := newStubStore(sampleQuestion(1, 1, 11))
	qc := NewQuestionnaireController(store, &recordingPublisher{}, nil, 0, quietLog())
	tok, err := utils.GenerateToken("s3cret", "8", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok)
	body := `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":5}]}`
	w := do(newRouter(qc, "s3cret"), http.MethodPost, "/api/v1/questionnaire/submit", body, h)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if store.saved[0].UserID == nil || *store.saved[0].UserID != 8 {
		t.Fatalf("saved user = %v, want 8", store.saved[0].UserID)
	}
}

func TestSubmitRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"session_id":`, http.StatusUnprocessableEntity},
		{"missing session", `{"responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":1}]}`, http.StatusUnprocessableEntity},
		{"empty responses", `{"session_id":"s","responses":[]}`, http.StatusUnprocessableEntity},
		{"negative time", `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":-1}]}`, http.StatusUnprocessableEntity},
		{"unknown question", `{"session_id":"s","responses":[{"question_id":9,"selected_option_id":11,"response_time_ms":1}]}`, http.StatusBadRequest},
		{"option of another question", `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":21,"response_time_ms":1}]}`, http.StatusBadRequest},
		{"question answered twice", `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":1},{"question_id":1,"selected_option_id":12,"response_time_ms":2}]}`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore(sampleQuestion(1, 1, 11, 12), sampleQuestion(2, 2, 21))
			pub := &recordingPublisher{}
			qc := NewQuestionnaireController(store, pub, nil, 0, quietLog())
			w := do(newRouter(qc, ""), http.MethodPost, "/api/v1/questionnaire/submit", tc.body, nil)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.want, w.Body.String())
			}
			if len(store.saved) != 0 || len(pub.events) != 0 {
				t.Fatalf("rejected submission had side effects")
			}
		})
	}
}

func TestSubmitSaveFailure(t *testing.T) {
	store := newStubStore(sampleQuestion(1, 1, 11))
	store.saveErr = errors.New("tx aborted")
	pub := &recordingPublisher{}
	qc := NewQuestionnaireController(store, pub, nil, 0, quietLog())

	body := `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":1}]}`
	w := do(newRouter(qc, ""), http.MethodPost, "/api/v1/questionnaire/submit", body, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if len(pub.events) != 0 {
		t.Fatalf("event published for unsaved submission")
	}
}

func TestSubmitSurvivesPublishFailure(t *testing.T) {
	store := newStubStore(sampleQuestion(1, 1, 11))
	pub := &recordingPublisher{err: errors.New("broker down")}
	qc := NewQuestionnaireController(store, pub, nil, 0, quietLog())

	before := testutil.ToFloat64(metrics.EventPublishFailures)
	body := `{"session_id":"s","responses":[{"question_id":1,"selected_option_id":11,"response_time_ms":1}]}`
	w := do(newRouter(qc, ""), http.MethodPost, "/api/v1/questionnaire/submit", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(store.saved) != 1 {
		t.Fatalf("responses not saved")
	}
	if after := testutil.ToFloat64(metrics.EventPublishFailures); after != before+1 {
		t.Fatalf("publish failure counter = %v, want %v", after, before+1)
	}
}

func TestGetResult(t *testing.T) {
	store := newStubStore()
	store.results = map[string]*models.RecommendationResult{
		"sess_1_x": {SessionID: "sess_1_x", RecommendedCourse: "Enfermagem", ConfidenceScore: 0.8},
	}
	qc := NewQuestionnaireController(store, nil, nil, 0, quietLog())
	r := newRouter(qc, "")

	w := do(r, http.MethodGet, "/api/v1/questionnaire/result/sess_1_x", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res models.RecommendationResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.RecommendedCourse != "Enfermagem" {
		t.Fatalf("result = %+v", res)
	}

	if w := do(r, http.MethodGet, "/api/v1/questionnaire/result/unknown", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", w.Code)
	}

	store.resultErr = errors.New("db down")
	if w := do(r, http.MethodGet, "/api/v1/questionnaire/result/sess_1_x", "", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("store error status = %d, want 500", w.Code)
	}
}
