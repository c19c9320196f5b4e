package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newRateLimitRouter(r rate.Limit, b int) *gin.Engine {
	eng := gin.New()
	eng.Use(RateLimit(r, b))
	eng.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return eng
}

func hit(eng *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	w := httptest.NewRecorder()
	eng.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Burst(t *testing.T) {
	r := newRateLimitRouter(0.001, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.1.1").Code, "request %d should be allowed", i+1)
	}
	w := hit(r, "10.0.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1000", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRateLimit_PerIP(t *testing.T) {
	r := newRateLimitRouter(0.001, 1)
	assert.Equal(t, http.StatusOK, hit(r, "10.1.1.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.1.1.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.1.1.1").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newRateLimitRouter(0, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.3.3.3").Code)
	}
}

func TestLimiterStore_DropsIdleBuckets(t *testing.T) {
	s := newLimiterStore(1, 1, time.Minute)
	t0 := time.Now()
	s.get("a", t0)
	s.get("b", t0.Add(30*time.Second))
	assert.Equal(t, 2, s.len())

	s.get("b", t0.Add(90*time.Second))
	assert.Equal(t, 1, s.len(), "a idled out")

	first := s.get("b", t0.Add(100*time.Second))
	assert.Same(t, first, s.get("b", t0.Add(101*time.Second)))
}
