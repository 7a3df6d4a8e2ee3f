package content

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/shootout"
	httperrors "github.com/avintas/shootout/pkg/http/errors"
)

const defaultListLimit = 50

// HTTPHandlers are the thin passthrough endpoints of the content site:
// filtered SELECTs reshaped into JSON, nothing more.
type HTTPHandlers struct {
	repo   *Repository
	logger zerolog.Logger
}

func NewHTTPHandlers(repo *Repository, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		repo:   repo,
		logger: logger.With().Str("component", "content_http").Logger(),
	}
}

// Trivia handles GET /v1/trivia?kind=&limit=.
func (h *HTTPHandlers) Trivia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := limitParam(r, defaultListLimit)
	kind := shootout.Kind(r.URL.Query().Get("kind"))

	var (
		questions []shootout.Question
		err       error
	)
	switch kind {
	case shootout.KindMultipleChoice:
		questions, err = h.collectMCQ(r.Context(), limit)
	case shootout.KindTrueFalse:
		questions, err = h.collectTF(r.Context(), limit)
	case "":
		questions, err = h.repo.Questions(r.Context())
		if err == nil && limit > 0 && len(questions) > limit {
			questions = questions[:limit]
		}
	default:
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "unknown question kind")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("trivia fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentFetchFailed, "Failed to load trivia")
		return
	}

	body, err := shootout.EncodeQuestions(questions)
	if err != nil {
		h.logger.Error().Err(err).Msg("trivia encode failed")
		httperrors.RespondInternalError(w, "Failed to encode trivia")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Quotes handles GET /v1/quotes?category=&limit=.
func (h *HTTPHandlers) Quotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	quotes, err := h.repo.Quotes(r.Context(), r.URL.Query().Get("category"), limitParam(r, defaultListLimit))
	if err != nil {
		h.logger.Error().Err(err).Msg("quotes fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentFetchFailed, "Failed to load quotes")
		return
	}
	h.respondJSON(w, quotes)
}

// Facts handles GET /v1/facts?category=&limit=.
func (h *HTTPHandlers) Facts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	facts, err := h.repo.Facts(r.Context(), r.URL.Query().Get("category"), limitParam(r, defaultListLimit))
	if err != nil {
		h.logger.Error().Err(err).Msg("facts fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeContentFetchFailed, "Failed to load facts")
		return
	}
	h.respondJSON(w, facts)
}

func (h *HTTPHandlers) collectMCQ(ctx context.Context, limit int) ([]shootout.Question, error) {
	mcq, err := h.repo.MultipleChoice(ctx, limit)
	if err != nil {
		return nil, err
	}
	questions := make([]shootout.Question, len(mcq))
	for i, q := range mcq {
		questions[i] = q
	}
	return questions, nil
}

func (h *HTTPHandlers) collectTF(ctx context.Context, limit int) ([]shootout.Question, error) {
	tf, err := h.repo.TrueFalse(ctx, limit)
	if err != nil {
		return nil, err
	}
	questions := make([]shootout.Question, len(tf))
	for i, q := range tf {
		questions[i] = q
	}
	return questions, nil
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
