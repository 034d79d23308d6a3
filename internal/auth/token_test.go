package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	require.NoError(t, err)
	return ts
}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err)

	_, err = NewTokenService("this-is-16-chars")
	assert.NoError(t, err)
}

// =========================================================================
// GENERATE / VALIDATE TESTS
// =========================================================================

func TestGenerate_LooksLikeJWT(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(1, "sess-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(42, "cs1q2b3c4d5e6f7g8h9i", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, SessionID: "cs1q2b3c4d5e6f7g8h9i"}, id)
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(1, "sess", time.Now().Add(-time.Second))
	require.NoError(t, err)

	id, err := ts.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, Identity{UserID: 1, SessionID: "sess"}, id, "expired tokens still name their session")
}

func TestValidate_ExpiredTokenFromOtherSecret(t *testing.T) {
	other, err := NewTokenService("another-secret-of-16+ chars")
	require.NoError(t, err)
	token, err := other.Generate(1, "sess", time.Now().Add(-time.Second))
	require.NoError(t, err)

	id, err := newTestTokenService(t).Validate(token)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
	assert.Zero(t, id)
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(1, "sess", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ts.Validate(token[:len(token)-3] + "xxx")
	assert.Error(t, err)
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, err := NewTokenService("correct-secret-32-chars-long!!!!")
	require.NoError(t, err)
	ts2, err := NewTokenService("wrong-secret-32-chars-long!!!!!!")
	require.NoError(t, err)

	token, err := ts1.Generate(1, "sess", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ts2.Validate(token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, in := range []string{"", "not.a.jwt", "abc"} {
		_, err := ts.Validate(in)
		assert.Error(t, err, "input %q", in)
	}
}

// signRaw signs arbitrary claims with the test secret, for checking the
// claim validation in Validate.
func signRaw(t *testing.T, method jwt.SigningMethod, c jwt.RegisteredClaims) string {
	t.Helper()
	var key any = []byte(testSecret)
	if method == jwt.SigningMethodNone {
		key = jwt.UnsafeAllowNoneSignatureType
	}
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestValidate_RejectsBadClaims(t *testing.T) {
	ts := newTestTokenService(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"alg none":        signRaw(t, jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", ID: "s", Issuer: issuer, ExpiresAt: exp}),
		"other issuer":    signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1", ID: "s", Issuer: "someone-else", ExpiresAt: exp}),
		"no expiry":       signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1", ID: "s", Issuer: issuer}),
		"non-int sub":     signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob", ID: "s", Issuer: issuer, ExpiresAt: exp}),
		"no session id":   signRaw(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1", Issuer: issuer, ExpiresAt: exp}),
		"HS384 not HS256": signRaw(t, jwt.SigningMethodHS384, jwt.RegisteredClaims{Subject: "1", ID: "s", Issuer: issuer, ExpiresAt: exp}),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ts.Validate(token)
			assert.Error(t, err)
		})
	}
}
