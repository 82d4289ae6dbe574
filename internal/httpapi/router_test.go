package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hypcn/yuzu-go/internal/auth"
	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestHealthzReturnsOK(t *testing.T) {
	r := NewRouter(Options{Path: "/api/yuzu", Log: logging.Nop()}, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerDocJSONIsServed(t *testing.T) {
	r := NewRouter(Options{Path: "/api/yuzu", Log: logging.Nop()}, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title": "yuzu"`)
}

func TestUpgradePathRejectsWhenAuthenticateFails(t *testing.T) {
	called := false
	r := NewRouter(Options{
		Path: "/api/yuzu",
		Log:  logging.Nop(),
		Authenticate: func(auth.Info) (bool, error) {
			return false, nil
		},
	}, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/yuzu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestUpgradePathAllowsWhenAuthenticateSucceeds(t *testing.T) {
	called := false
	r := NewRouter(Options{
		Path: "/api/yuzu",
		Log:  logging.Nop(),
	}, func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/yuzu", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.True(t, called)
}
