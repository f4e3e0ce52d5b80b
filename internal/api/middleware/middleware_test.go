package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/photogram/internal/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(tokens *auth.TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(tokens, "token"))
	handlers := append(extra, func(c *gin.Context) {
		c.String(http.StatusOK, auth.FromContext(c.Request.Context()).UserID)
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthenticate_HeaderAndCookie(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	raw, err := tokens.Issue(auth.Principal{UserID: "u1", Username: "alice"})
	assert.NoError(t, err)
	r := newEngine(tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: raw})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequireAuth(t *testing.T) {
	r := newEngine(auth.NewTokenIssuer("secret", time.Hour), RequireAuth())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIPRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewIPRateLimiter(0.001, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIPRateLimiter_SweepsIdleVisitorsOncePerPeriod(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	l.get("a", t0)
	l.get("b", t0.Add(time.Minute))
	l.get("c", t0.Add(9*time.Minute))
	assert.Len(t, l.visitors, 3)

	l.get("d", t0.Add(15*time.Minute))
	assert.Contains(t, l.visitors, "c")
	assert.Contains(t, l.visitors, "d")
	assert.NotContains(t, l.visitors, "a")
	assert.NotContains(t, l.visitors, "b")
}
