package clienttoken

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/avintas/shootout/pkg/http/errors"
)

// HTTPHandlers exposes the token issue endpoint.
type HTTPHandlers struct {
	manager *Manager
	logger  zerolog.Logger
}

func NewHTTPHandlers(manager *Manager, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		manager: manager,
		logger:  logger.With().Str("component", "clienttoken_http").Logger(),
	}
}

// Issue handles POST /v1/client: mints a fresh anonymous client identity.
func (h *HTTPHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientID, token, err := h.manager.Issue()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue client token")
		httperrors.RespondInternalError(w, "Failed to issue client token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"client_id": clientID,
		"token":     token,
	})
}
