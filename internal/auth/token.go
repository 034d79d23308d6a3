package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "sightings"

// MinSecretLength is the shortest SECRET_KEY accepted.
const MinSecretLength = 16

// ErrTokenExpired is returned by Validate for a correctly signed token past
// its exp claim. The identity is returned alongside it.
var ErrTokenExpired = errors.New("auth: token expired")

// Identity is who a session cookie says the caller is. It is only a claim:
// AuthService.CurrentUser still checks the session row behind it.
type Identity struct {
	UserID    int64
	SessionID string
}

// TokenService signs and verifies the session cookie value.
//
// The cookie is an HS256 JWT:
//
//	{"sub":"<user id>","jti":"<session id>","iss":"sightings","exp":...}
//
// The signature stops a client from forging another user's id. The jti
// ties the token to a sessions row so logout can revoke it server-side.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: secret must be at least %d characters", MinSecretLength)
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Generate signs a token for the given session, expiring at expires.
func (s *TokenService) Generate(userID int64, sessionID string, expires time.Time) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token and returns the identity it carries.
//
// Checked: signature, algorithm (HS256 only, which blocks "alg":"none"),
// issuer, and expiry. An expired token still yields its identity, with
// ErrTokenExpired, so logout can revoke the session behind it.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// jwt verifies the signature before the claims, so an expiry error
		// means the claims are authentic.
		if errors.Is(err, jwt.ErrTokenExpired) && c.Issuer == issuer {
			id, idErr := identityFrom(c)
			if idErr != nil {
				return Identity{}, idErr
			}
			return id, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return Identity{}, errors.New("auth: invalid token claims")
	}

	return identityFrom(c)
}

func identityFrom(c jwt.RegisteredClaims) (Identity, error) {
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: token subject %q is not a user id", c.Subject)
	}
	if c.ID == "" {
		return Identity{}, errors.New("auth: token has no session id")
	}

	return Identity{UserID: userID, SessionID: c.ID}, nil
}
