package middleware

import (
	"net/http"

	"github.com/bluele/gcache"
	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
	"github.com/yigit/bluecollar/internal/app/models/dto"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
)

// RateLimiter hands every client its own token bucket. Buckets live in an
// LRU so idle clients are eventually forgotten.
type RateLimiter struct {
	buckets  gcache.Cache
	rate     float64
	capacity int64
}

// NewRateLimiter creates a limiter refilling rate tokens per second into
// buckets of the given capacity, tracking at most maxClients clients
func NewRateLimiter(rate float64, capacity int64, maxClients int) *RateLimiter {
	rl := &RateLimiter{rate: rate, capacity: capacity}
	rl.buckets = gcache.New(maxClients).LRU().
		LoaderFunc(func(interface{}) (interface{}, error) {
			return ratelimit.NewBucketWithRate(rl.rate, rl.capacity), nil
		}).
		Build()
	return rl
}

// Allow takes one token from the client's bucket
func (rl *RateLimiter) Allow(clientKey string) bool {
	v, err := rl.buckets.Get(clientKey)
	if err != nil {
		return true
	}
	return v.(*ratelimit.Bucket).TakeAvailable(1) == 1
}

// Middleware rejects requests once the client's bucket is empty. The client
// is the authenticated user when known, else the remote address.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := CurrentUserID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.Allow(key) {
			metrics.ObserveRateLimited()
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeTooManyRequests, "Too many requests").
				WithSeverity(dto.ErrorSeverityWarning)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
