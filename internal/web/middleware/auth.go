package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const actorKey contextKey = "actor"

// ContextWithActor stores the authenticated actor UUID in the context.
func ContextWithActor(ctx context.Context, actor uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor UUID, or uuid.Nil when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) uuid.UUID {
	if actor, ok := ctx.Value(actorKey).(uuid.UUID); ok {
		return actor
	}
	return uuid.Nil
}

// AuthConfig configures APIKeyAuth.
type AuthConfig struct {
	// Require rejects requests without a valid X-API-Key header.
	Require bool

	// Actors maps API keys to the actor each key authenticates as.
	Actors map[string]uuid.UUID

	// DevActor is attributed to every request when Require is false.
	DevActor uuid.UUID
}

// APIKeyAuth returns middleware that validates the X-API-Key header and
// attaches the resolved actor to the request context.
//
// If Require is false, all requests pass through attributed to DevActor.
// If Require is true but no keys are configured, all requests are rejected.
func APIKeyAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Require {
				next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), cfg.DevActor)))
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing API key","code":"AUTH_MISSING_KEY"}`, http.StatusUnauthorized)
				return
			}

			actor, ok := resolveAPIKey(apiKey, cfg.Actors)
			if !ok {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"invalid API key","code":"AUTH_INVALID_KEY"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}

// resolveAPIKey finds the actor for a key. Uses constant-time comparison and
// checks ALL keys so the comparison time does not reveal which key matched
// (or whether any did).
func resolveAPIKey(key string, actors map[string]uuid.UUID) (uuid.UUID, bool) {
	valid := 0
	var matched uuid.UUID
	for candidate, actor := range actors {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			valid = 1
			matched = actor
		}
	}
	return matched, valid == 1
}
