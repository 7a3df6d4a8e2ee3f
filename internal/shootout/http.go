package shootout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/clienttoken"
	httperrors "github.com/avintas/shootout/pkg/http/errors"
)

// HTTPHandlers provides the REST surface of the shootout session engine.
type HTTPHandlers struct {
	service  *Service
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service:  service,
		validate: validator.New(),
		logger:   logger.With().Str("component", "shootout_http").Logger(),
	}
}

// AnswerRequest is the POST /v1/shootout/answer payload.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// GetSession handles GET /v1/shootout/session. Creates a fresh intro
// session when the client has none for today.
func (h *HTTPHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clientID, ok := clienttoken.FromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeClientRequired, "Client token required")
		return
	}

	view, err := h.service.Current(r.Context(), clientID)
	if err != nil {
		h.respondServiceError(w, clientID, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// Start handles POST /v1/shootout/start.
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, func(clientID string) (SessionView, error) {
		return h.service.Start(r.Context(), clientID)
	})
}

// Answer handles POST /v1/shootout/answer.
func (h *HTTPHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clientID, ok := clienttoken.FromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeClientRequired, "Client token required")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "answer is required", "answer")
		return
	}

	view, result, err := h.service.Answer(r.Context(), clientID, req.Answer)
	if err != nil {
		h.respondServiceError(w, clientID, err)
		return
	}

	h.respondJSON(w, http.StatusOK, struct {
		SessionView
		Result AnswerResult `json:"result"`
	}{SessionView: view, Result: result})
}

// Skip handles POST /v1/shootout/skip.
func (h *HTTPHandlers) Skip(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, func(clientID string) (SessionView, error) {
		return h.service.Skip(r.Context(), clientID)
	})
}

// Next handles POST /v1/shootout/next.
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, func(clientID string) (SessionView, error) {
		return h.service.Next(r.Context(), clientID)
	})
}

// Reset handles POST /v1/shootout/reset.
func (h *HTTPHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	h.applyEvent(w, r, func(clientID string) (SessionView, error) {
		return h.service.Reset(r.Context(), clientID)
	})
}

func (h *HTTPHandlers) applyEvent(w http.ResponseWriter, r *http.Request, op func(clientID string) (SessionView, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clientID, ok := clienttoken.FromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeClientRequired, "Client token required")
		return
	}

	view, err := op(clientID)
	if err != nil {
		h.respondServiceError(w, clientID, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, clientID string, err error) {
	switch {
	case errors.Is(err, ErrIllegalTransition):
		httperrors.RespondConflict(w, httperrors.ErrCodeIllegalTransition, err.Error())
	case errors.Is(err, ErrQuestionNotFound):
		// Content drifted under a live session; the client offers a reset.
		httperrors.RespondConflict(w, httperrors.ErrCodeQuestionNotFound, "Question no longer available; reset the session")
	case errors.Is(err, ErrNoQuestions):
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeNoQuestions, "No questions available")
	default:
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("shootout operation failed")
		httperrors.RespondInternalError(w, "Shootout operation failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
