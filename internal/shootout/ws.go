package shootout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/clienttoken"
	"github.com/avintas/shootout/internal/server"
	httperrors "github.com/avintas/shootout/pkg/http/errors"
)

// WSMessage is the envelope both directions speak on /ws/shootout.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client-to-server message types mirror the state machine events; "session"
// requests the current snapshot without applying an event.
const (
	wsTypeSession = "session"
	wsTypeStart   = "start"
	wsTypeAnswer  = "answer"
	wsTypeSkip    = "skip"
	wsTypeNext    = "next"
	wsTypeReset   = "reset"

	wsTypeError = "error"
)

type wsAnswerPayload struct {
	Answer string `json:"answer"`
}

type wsSessionPayload struct {
	SessionView
	Result *AnswerResult `json:"result,omitempty"`
}

type wsErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSHandler drives one client's session over a single websocket. The
// shootout is single-player, so there is no hub or broadcast: one
// connection, one client, request/response.
type WSHandler struct {
	service *Service
	tokens  *clienttoken.Manager
	logger  zerolog.Logger
}

func NewWSHandler(service *Service, tokens *clienttoken.Manager, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		tokens:  tokens,
		logger:  logger.With().Str("component", "shootout_ws").Logger(),
	}
}

// HandleWebSocket upgrades the connection after validating the client
// token from the token query parameter.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeClientRequired, "Missing token")
		return
	}

	clientID, err := h.tokens.Validate(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.serve(r, conn, clientID)
}

func (h *WSHandler) serve(r *http.Request, conn *websocket.Conn, clientID string) {
	defer conn.Close()
	logger := h.logger.With().Str("client_id", clientID).Logger()
	logger.Info().Msg("websocket connected")

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		reply := h.dispatch(r, clientID, msg)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (h *WSHandler) dispatch(r *http.Request, clientID string, msg WSMessage) WSMessage {
	ctx := r.Context()

	var (
		view   SessionView
		result *AnswerResult
		err    error
	)

	switch msg.Type {
	case wsTypeSession:
		view, err = h.service.Current(ctx, clientID)
	case wsTypeStart:
		view, err = h.service.Start(ctx, clientID)
	case wsTypeAnswer:
		var payload wsAnswerPayload
		if uerr := json.Unmarshal(msg.Payload, &payload); uerr != nil || payload.Answer == "" {
			return wsError(httperrors.ErrCodeInvalidPayload, "answer payload required")
		}
		var res AnswerResult
		view, res, err = h.service.Answer(ctx, clientID, payload.Answer)
		result = &res
	case wsTypeSkip:
		view, err = h.service.Skip(ctx, clientID)
	case wsTypeNext:
		view, err = h.service.Next(ctx, clientID)
	case wsTypeReset:
		view, err = h.service.Reset(ctx, clientID)
	default:
		return wsError(httperrors.ErrCodeUnknownMessageType, "unknown message type "+msg.Type)
	}

	if err != nil {
		return wsServiceError(err)
	}

	payload, merr := json.Marshal(wsSessionPayload{SessionView: view, Result: result})
	if merr != nil {
		return wsError(httperrors.ErrCodeInternalError, "encode session view")
	}
	return WSMessage{Type: wsTypeSession, Payload: payload}
}

func wsServiceError(err error) WSMessage {
	switch {
	case errors.Is(err, ErrIllegalTransition):
		return wsError(httperrors.ErrCodeIllegalTransition, err.Error())
	case errors.Is(err, ErrQuestionNotFound):
		return wsError(httperrors.ErrCodeQuestionNotFound, "question no longer available; reset the session")
	case errors.Is(err, ErrNoQuestions):
		return wsError(httperrors.ErrCodeNoQuestions, "no questions available")
	default:
		return wsError(httperrors.ErrCodeInternalError, "shootout operation failed")
	}
}

func wsError(code, message string) WSMessage {
	payload, _ := json.Marshal(wsErrorPayload{Code: code, Message: message})
	return WSMessage{Type: wsTypeError, Payload: payload}
}
