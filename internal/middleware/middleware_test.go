package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorFunc func(string) (*service.Claims, error)

func (f validatorFunc) ValidateToken(s string) (*service.Claims, error) { return f(s) }

var testValidator = validatorFunc(func(token string) (*service.Claims, error) {
	switch token {
	case "reader":
		return &service.Claims{TokenType: service.TokenTypeAdmin, Permissions: []string{string(model.PermissionClassLogsRead)}}, nil
	case "other":
		return &service.Claims{TokenType: "student"}, nil
	}
	return nil, errors.New("bad token")
})

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/logs", RequireAdminJWT(testValidator), RequirePermission(model.PermissionClassLogsRead), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/import", RequireAdminJWT(testValidator), RequirePermission(model.PermissionClassLogsImport), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/ws", RequireAdminWSAuth(testValidator), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Permissions[0])
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"no token", http.MethodGet, "/logs", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/logs", "Bearer nope", http.StatusUnauthorized},
		{"wrong audience", http.MethodGet, "/logs", "Bearer other", http.StatusForbidden},
		{"permitted", http.MethodGet, "/logs", "Bearer reader", http.StatusOK},
		{"lowercase scheme", http.MethodGet, "/logs", "bearer reader", http.StatusOK},
		{"missing permission", http.MethodPost, "/import", "Bearer reader", http.StatusForbidden},
		{"ws without query", http.MethodGet, "/ws", "Bearer reader", http.StatusUnauthorized},
		{"ws with query", http.MethodGet, "/ws?token=reader", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	big := strings.Repeat("數學 陳老師,", 500)

	r := gin.New()
	r.Use(Compress(0))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, big, string(plain))

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/big", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, big, w.Body.String())
}
