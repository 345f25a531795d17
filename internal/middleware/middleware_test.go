package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
)

type staticValidator map[string]config.User

func (v staticValidator) Authenticate(token string) (config.User, bool) {
	u, ok := v[token]
	return u, ok
}

func TestSessionAuth(t *testing.T) {
	v := staticValidator{"tok-1": {ID: "ADMIN_01", Name: "COMMANDER SHEPARD"}}
	var gotUser config.User
	h := SessionAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/case", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/dashboard/case", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/dashboard/case", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ADMIN_01", gotUser.ID)
}

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimitMiddlewareSkipsHealth(t *testing.T) {
	h := RateLimitMiddleware(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestValidateMode(t *testing.T) {
	assert.NoError(t, ValidateMode("TEXT"))
	assert.NoError(t, ValidateMode("project"))
	assert.Error(t, ValidateMode("BATCH"))
}

func TestValidateFileName(t *testing.T) {
	assert.NoError(t, ValidateFileName("training_script_v1.py"))
	assert.Error(t, ValidateFileName(""))
	assert.Error(t, ValidateFileName("../etc/passwd"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00\x01  "))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(500))
	assert.Equal(t, 42, ValidateLimit(42))
}
