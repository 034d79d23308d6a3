package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureIdentity is a handler that records what LoadSession put in the
// context.
func captureIdentity(got *Identity, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *found = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestLoadSession_ValidCookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(7, "sess-7", time.Now().Add(time.Hour))
	require.NoError(t, err)

	var got Identity
	var found bool
	h := LoadSession(ts)(captureIdentity(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/check-session", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, found)
	assert.Equal(t, Identity{UserID: 7, SessionID: "sess-7"}, got)
}

func TestLoadSession_ExpiredCookieIsKeptAside(t *testing.T) {
	ts := newTestTokenService(t)
	expired, err := ts.Generate(7, "sess-7", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	var live, stale Identity
	var liveOK, staleOK bool
	h := LoadSession(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live, liveOK = IdentityFromContext(r.Context())
		stale, staleOK = ExpiredIdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodDelete, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: expired})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, liveOK)
	assert.Zero(t, live)
	assert.True(t, staleOK)
	assert.Equal(t, Identity{UserID: 7, SessionID: "sess-7"}, stale)
}

func TestLoadSession_NeverBlocks(t *testing.T) {
	ts := newTestTokenService(t)
	expired, err := ts.Generate(7, "sess-7", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	cases := map[string]*http.Cookie{
		"no cookie":      nil,
		"garbage cookie": {Name: CookieName, Value: "garbage"},
		"expired token":  {Name: CookieName, Value: expired},
		"other cookie":   {Name: "token", Value: expired},
	}

	for name, cookie := range cases {
		t.Run(name, func(t *testing.T) {
			var got Identity
			var found bool
			h := LoadSession(ts)(captureIdentity(&got, &found))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if cookie != nil {
				req.AddCookie(cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.False(t, found)
		})
	}
}

func TestCookies_SetAndClear(t *testing.T) {
	c := Cookies{Secure: true}

	rec := httptest.NewRecorder()
	c.Set(rec, "signed-token", time.Now().Add(time.Hour))
	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, CookieName, set[0].Name)
	assert.Equal(t, "signed-token", set[0].Value)
	assert.True(t, set[0].HttpOnly)
	assert.True(t, set[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, set[0].SameSite)
	assert.Greater(t, set[0].MaxAge, 0)

	rec = httptest.NewRecorder()
	c.Clear(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, CookieName, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}
