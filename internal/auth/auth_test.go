package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowAllAccepts(t *testing.T) {
	ok, err := AllowAll(Info{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJWTBearerAcceptsValidToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	hook := JWTBearer(func(*jwt.Token) (any, error) { return secret, nil })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	ok, err := hook(Info{Request: req})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJWTBearerRejectsMissingToken(t *testing.T) {
	hook := JWTBearer(func(*jwt.Token) (any, error) { return []byte("x"), nil })
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	ok, err := hook(Info{Request: req})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestJWTBearerRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	hook := JWTBearer(func(*jwt.Token) (any, error) { return secret, nil })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	ok, err := hook(Info{Request: req})
	assert.False(t, ok)
	assert.Error(t, err)
}
