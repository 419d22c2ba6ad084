package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-system/results-portal/internal/config"
	"github.com/school-system/results-portal/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		origins         []string
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{"listed origin", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173", "true"},
		{"unlisted origin", []string{"http://localhost:5173"}, "http://evil.test", "", ""},
		{"wildcard never allows credentials", []string{"*"}, "http://evil.test", "*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.GET("/x", ok)

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(8), ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth, err := services.NewAuthService(&config.Config{
		JWT:    config.JWTConfig{Secret: "middleware-secret", AccessExpiry: time.Hour},
		Admin:  config.AdminConfig{Email: "admin@college.com", Password: "adminpassword"},
		Argon2: config.Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
	})
	require.NoError(t, err)
	token, _, err := auth.GenerateToken("admin@college.com")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", AuthMiddleware(auth), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextEmail))
	})
	// a role gate without a verified token in front of it
	r.GET("/bare", RequireAdmin(), ok)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"valid token", "/admin", "Bearer " + token, http.StatusOK},
		{"missing header", "/admin", "", http.StatusUnauthorized},
		{"bad token", "/admin", "Bearer mock_admin_token", http.StatusUnauthorized},
		{"no role in context", "/bare", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			switch tt.status {
			case http.StatusOK:
				assert.Equal(t, "admin@college.com", w.Body.String())
			case http.StatusUnauthorized:
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
