package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the identity.
type contextKey string

const (
	identityKey        contextKey = "identity"
	expiredIdentityKey contextKey = "expired-identity"
)

// LoadSession reads the session cookie, and if it carries a valid token,
// stores the Identity in the request context.
//
// It never blocks a request. A missing, tampered, or expired cookie just
// leaves the request anonymous; handlers that need a user ask the service,
// which answers 401 when there is no live session. The identity of an
// expired cookie is kept aside for ExpiredIdentityFromContext.
func LoadSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(CookieName); err == nil {
				id, err := tokens.Validate(cookie.Value)
				switch {
				case err == nil:
					r = r.WithContext(WithIdentity(r.Context(), id))
				case errors.Is(err, ErrTokenExpired):
					r = r.WithContext(context.WithValue(r.Context(), expiredIdentityKey, id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity set by LoadSession.
// ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ExpiredIdentityFromContext returns the identity of a correctly signed but
// expired session cookie. Only logout uses it, to delete the stale row.
func ExpiredIdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(expiredIdentityKey).(Identity)
	return id, ok
}

// Cookies writes and clears the session cookie.
//
// The cookie is HttpOnly (not readable from JavaScript) and SameSite=Lax.
// Secure should be true whenever the API is served over HTTPS.
type Cookies struct {
	Secure bool
}

// Set writes the session cookie with the given signed token.
func (c Cookies) Set(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear tells the browser to drop the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
