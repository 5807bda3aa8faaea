package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"poshts/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTokens map[string]uint

func (s stubTokens) Parse(token string) (uint, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

type stubUsers map[uint]*models.User

func (s stubUsers) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubTokens{"user-token": 1, "admin-token": 2, "ghost-token": 99}
	users := stubUsers{
		1: {ID: 1, Email: "u@example.com", Role: models.RoleUser},
		2: {ID: 2, Email: "a@example.com", Role: models.RoleAdmin},
	}

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoadUser(tokens, users))
	r.GET("/open", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoadUser(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/open", "")
	assert.Equal(t, "anonymous", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, "/open", "user-token")
	assert.Equal(t, "u@example.com", w.Body.String())

	// bad tokens fall back to anonymous on open routes
	w = do(r, "/open", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = do(r, "/open", "ghost-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthRequired(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Not authenticated","code":"UNAUTHORIZED"}`, w.Body.String())

	w = do(r, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token","code":"UNAUTHORIZED"}`, w.Body.String())

	w = do(r, "/private", "ghost-token")
	assert.JSONEq(t, `{"detail":"Invalid token","code":"UNAUTHORIZED"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, do(r, "/private", "user-token").Code)
}

func TestRoleRequired(t *testing.T) {
	r := newTestEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Contains(t, do(r, "/admin", "garbage").Body.String(), "Invalid token")

	w := do(r, "/admin", "user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"Access forbidden: admins only","code":"FORBIDDEN"}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "admin-token").Code)
}

func TestRequestIDPassthrough(t *testing.T) {
	r := newTestEngine()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		_, ok := bearerToken(h)
		assert.False(t, ok, h)
	}
}
