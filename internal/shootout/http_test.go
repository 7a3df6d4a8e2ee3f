package shootout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/avintas/shootout/internal/clienttoken"
)

func doRequest(t *testing.T, handler http.HandlerFunc, method, path, body, clientID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if clientID != "" {
		req = req.WithContext(clienttoken.IntoContext(context.Background(), clientID))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) SessionView {
	t.Helper()
	var view SessionView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGetSessionCreatesIntro(t *testing.T) {
	svc, _ := newTestService(t, fixtureQuestions(), "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	rec := doRequest(t, handlers.GetSession, http.MethodGet, "/v1/shootout/session", "", "client-a")
	assert.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec)
	assert.Equal(t, PhaseIntro, view.Phase)
	assert.Equal(t, len(fixtureQuestions()), view.Total)
}

func TestGetSessionRequiresClient(t *testing.T) {
	svc, _ := newTestService(t, fixtureQuestions(), "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	rec := doRequest(t, handlers.GetSession, http.MethodGet, "/v1/shootout/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnswerEndpointFlow(t *testing.T) {
	questions := []Question{
		MultipleChoice{ID: 1, PromptText: "Most career goals?", CorrectAnswer: "Gretzky", IncorrectAnswers: []string{"Orr"}},
		TrueFalse{ID: 1, PromptText: "A period lasts 20 minutes.", Answer: true},
	}
	svc, _ := newTestService(t, questions, "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	rec := doRequest(t, handlers.Start, http.MethodPost, "/v1/shootout/start", "", "client-a")
	assert.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, PhasePlaying, view.Phase)
	assert.NotNil(t, view.Question)

	// Submit the right answer for whichever question came up first.
	idx := BuildIndex(questions)
	q, ok := idx.Lookup(Ref{ID: view.Question.ID, Kind: view.Question.Kind})
	assert.True(t, ok)

	body, err := json.Marshal(AnswerRequest{Answer: CorrectAnswerText(q)})
	assert.NoError(t, err)

	rec = doRequest(t, handlers.Answer, http.MethodPost, "/v1/shootout/answer", string(body), "client-a")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SessionView
		Result AnswerResult `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Correct)
	assert.Equal(t, PhaseRevealed, resp.Phase)
	assert.Equal(t, 1, resp.Stats.Correct)
}

func TestAnswerEndpointValidatesPayload(t *testing.T) {
	svc, _ := newTestService(t, fixtureQuestions(), "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	doRequest(t, handlers.Start, http.MethodPost, "/v1/shootout/start", "", "client-a")

	rec := doRequest(t, handlers.Answer, http.MethodPost, "/v1/shootout/answer", `{}`, "client-a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handlers.Answer, http.MethodPost, "/v1/shootout/answer", `not json`, "client-a")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIllegalEventMapsToConflict(t *testing.T) {
	svc, _ := newTestService(t, fixtureQuestions(), "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	// Next before start: session is in intro.
	rec := doRequest(t, handlers.Next, http.MethodPost, "/v1/shootout/next", "", "client-a")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "illegal_transition")
}

func TestNoQuestionsMapsToServiceUnavailable(t *testing.T) {
	svc, _ := newTestService(t, nil, "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	rec := doRequest(t, handlers.GetSession, http.MethodGet, "/v1/shootout/session", "", "client-a")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEventEndpointsRejectWrongMethod(t *testing.T) {
	svc, _ := newTestService(t, fixtureQuestions(), "2025-06-01")
	handlers := NewHTTPHandlers(svc, zerolog.Nop())

	rec := doRequest(t, handlers.Start, http.MethodGet, "/v1/shootout/start", "", "client-a")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, handlers.GetSession, http.MethodPost, "/v1/shootout/session", "", "client-a")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
