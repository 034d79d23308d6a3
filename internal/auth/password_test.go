package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("abc123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"), "not a bcrypt hash: %q", hash)
	assert.NotContains(t, hash, "abc123")
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	hash1, err := ps.Hash("same-password")
	require.NoError(t, err)
	hash2, err := ps.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "salt must be random")
}

func TestHash_PasswordLengthLimit(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)

	_, err = ps.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewPasswordService_DefaultCost(t *testing.T) {
	assert.Equal(t, defaultCost, NewPasswordService().cost)
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("the-real-password")
	require.NoError(t, err)

	assert.NoError(t, ps.Verify(hash, "the-real-password"))
	assert.ErrorIs(t, ps.Verify(hash, "the-wrong-password"), ErrPasswordMismatch)
	assert.ErrorIs(t, ps.Verify(hash, ""), ErrPasswordMismatch)
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	err := ps.Verify("not-a-valid-bcrypt-hash", "password")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPasswordMismatch))
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	cases := []struct {
		name     string
		password string
	}{
		{"simple alphanumeric", "hello123"},
		{"special characters", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"whitespace", "  leading and trailing  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := ps.Hash(tc.password)
			require.NoError(t, err)
			assert.NoError(t, ps.Verify(hash, tc.password))
		})
	}
}
