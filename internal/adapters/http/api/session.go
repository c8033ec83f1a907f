package api

import (
	"context"
	"net/http"
	"time"
)

// SessionDependencies creates or confirms browser sessions.
type SessionDependencies interface {
	// EnsureSession returns id when it is live, otherwise a new session ID.
	EnsureSession(ctx context.Context, id string) (string, bool, error)
}

type sessionKey struct{}

// SessionID returns the session attached by SessionMiddleware.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

// SessionMiddleware makes sure every request carries a live session ID. The
// ID travels in an HttpOnly cookie and is placed on the request context. The
// cookie is re-sent on every request so its MaxAge slides with the store's
// idle TTL.
func SessionMiddleware(deps SessionDependencies, cookieName string, ttl time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var current string
			if c, err := r.Cookie(cookieName); err == nil {
				current = c.Value
			}
			id, _, err := deps.EnsureSession(r.Context(), current)
			if err != nil {
				writeErr(w, Wrap("session", err))
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		}
	}
}
