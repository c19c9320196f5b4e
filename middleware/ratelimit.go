package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per client. Buckets idle for longer
// than idle are dropped on a later lookup.
type limiterStore struct {
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiterStore(r rate.Limit, b int, idle time.Duration) *limiterStore {
	return &limiterStore{r: r, b: b, idle: idle, buckets: make(map[string]*bucket)}
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSweep) > s.idle {
		for k, bk := range s.buckets {
			if now.Sub(bk.lastSeen) > s.idle {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}
	bk, ok := s.buckets[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(s.r, s.b)}
		s.buckets[key] = bk
	}
	bk.lastSeen = now
	return bk.limiter
}

func (s *limiterStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// RateLimit provides per-IP token-bucket rate limiting.
// r = requests per second, b = burst size. r <= 0 disables limiting.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	if r <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := newLimiterStore(r, b, limiterIdle)
	retryAfter := strconv.Itoa(max(1, int(math.Ceil(1/float64(r)))))

	return func(c *gin.Context) {
		if !store.get(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", retryAfter)
			response.Abort(c, http.StatusTooManyRequests, response.CodeRateLimited, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
