package clienttoken

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/avintas/shootout/pkg/http/errors"
)

type ctxKey struct{}

// FromContext returns the client id injected by Middleware.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// IntoContext injects a client id, for tests that bypass the middleware.
func IntoContext(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, clientID)
}

// Middleware validates the bearer token and puts the client id into the
// request context. Requests without a valid token are rejected; issuing a
// token is the one endpoint that sits outside this middleware.
func Middleware(mgr *Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeClientRequired, "Client token required")
				return
			}

			clientID, err := mgr.Validate(token)
			if err != nil {
				logger.Warn().Err(err).Msg("client token validation failed")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired client token")
				return
			}

			next.ServeHTTP(w, r.WithContext(IntoContext(r.Context(), clientID)))
		})
	}
}

// bearerToken pulls the token from the Authorization header, falling back
// to the token query parameter for the websocket upgrade.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
