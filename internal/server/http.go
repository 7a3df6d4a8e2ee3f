package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/config"
	"github.com/avintas/shootout/internal/logging"
)

// WSUpgrader handles WebSocket upgrades (configure origin checking as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the site's origins before production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Routes carries the handler funcs the feature packages contribute.
// Content handlers may be nil when the content database is not configured.
type Routes struct {
	Ping          func(ctx context.Context) error
	ClientIssue   http.HandlerFunc
	RequireClient func(http.Handler) http.Handler

	Session http.HandlerFunc
	Start   http.HandlerFunc
	Answer  http.HandlerFunc
	Skip    http.HandlerFunc
	Next    http.HandlerFunc
	Reset   http.HandlerFunc
	PlayWS  http.HandlerFunc

	Trivia http.HandlerFunc
	Quotes http.HandlerFunc
	Facts  http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics) plus the shootout and
// content surfaces.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, routes Routes) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if routes.Ping != nil {
			if err := routes.Ping(ctx); err != nil {
				logger.Error().Err(err).Msg("dependency ping failed")
				http.Error(w, "upstream error", http.StatusBadGateway)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if routes.ClientIssue != nil {
		mux.HandleFunc("/v1/client", routes.ClientIssue)
	}

	guard := routes.RequireClient
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	handleGuarded := func(pattern string, handler http.HandlerFunc) {
		if handler != nil {
			mux.Handle(pattern, guard(handler))
		}
	}

	handleGuarded("/v1/shootout/session", routes.Session)
	handleGuarded("/v1/shootout/start", routes.Start)
	handleGuarded("/v1/shootout/answer", routes.Answer)
	handleGuarded("/v1/shootout/skip", routes.Skip)
	handleGuarded("/v1/shootout/next", routes.Next)
	handleGuarded("/v1/shootout/reset", routes.Reset)

	// The websocket handler authenticates from the token query parameter
	// itself, so it sits outside the middleware.
	if routes.PlayWS != nil {
		mux.HandleFunc("/ws/shootout", routes.PlayWS)
	}

	if routes.Trivia != nil {
		mux.HandleFunc("/v1/trivia", routes.Trivia)
	}
	if routes.Quotes != nil {
		mux.HandleFunc("/v1/quotes", routes.Quotes)
	}
	if routes.Facts != nil {
		mux.HandleFunc("/v1/facts", routes.Facts)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
