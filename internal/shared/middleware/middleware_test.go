package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(manager *jwt.Manager, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), RequestID())

	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	chain := []gin.HandlerFunc{AuthMiddleware(manager)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUsername))
	})
	r.GET("/private", chain...)
	return r
}

func get(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("middleware-secret", time.Hour)
	token, _, err := manager.GenerateAccessToken("staff-1", "clerk", "librarian")
	require.NoError(t, err)

	r := newEngine(manager)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"scheme is case-insensitive", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/private", tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := get(r, "/private", "Bearer "+token)
	assert.Equal(t, "clerk", w.Body.String())
}

func TestAuthMiddleware_TokenFromOtherSecret(t *testing.T) {
	other := jwt.NewManager("someone-else", time.Hour)
	token, _, err := other.GenerateAccessToken("staff-1", "clerk", "admin")
	require.NoError(t, err)

	w := get(newEngine(jwt.NewManager("middleware-secret", time.Hour)), "/private", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	manager := jwt.NewManager("middleware-secret", time.Hour)
	r := newEngine(manager, "admin")

	librarian, _, err := manager.GenerateAccessToken("staff-1", "clerk", "librarian")
	require.NoError(t, err)
	admin, _, err := manager.GenerateAccessToken("staff-2", "boss", "admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/private", "Bearer "+librarian).Code)
	assert.Equal(t, http.StatusOK, get(r, "/private", "Bearer "+admin).Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(jwt.NewManager("middleware-secret", time.Hour))

	w := get(r, "/private", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := newEngine(jwt.NewManager("middleware-secret", time.Hour))

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
