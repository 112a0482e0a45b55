package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/audit-warden/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService() *TokenService {
	return NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenTTL: 12 * time.Hour})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService()

	before := time.Now()
	token, expiresAt, err := svc.Issue(42, "octocat", "gho_abc")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(12*time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "octocat", claims.Username)
	assert.Equal(t, "gho_abc", claims.GitHubToken)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := newTestTokenService()
	svc.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }

	token, _, err := svc.Issue(42, "octocat", "gho_abc")
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	other := NewTokenService(config.AuthConfig{JWTSecret: strings.Repeat("x", 32), TokenTTL: time.Hour})
	token, _, err := other.Issue(1, "mallory", "gho_x")
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Username: "mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestTokenService().Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
