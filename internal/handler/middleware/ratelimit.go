package middleware

import (
	"log/slog"
	"strconv"

	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
)

var errQuotaExceeded = errs.Classed("rate limit exceeded", errs.ErrRateLimited)

// RateLimitRecorder counts rejected requests per bucket.
type RateLimitRecorder interface {
	ObserveRateLimited(bucket string)
}

type RateLimiter struct {
	quota    shared.QuotaChecker
	clock    clock.Clock
	recorder RateLimitRecorder
}

func NewRateLimiter(quota shared.QuotaChecker, clk clock.Clock, recorder RateLimitRecorder) *RateLimiter {
	return &RateLimiter{quota: quota, clock: clk, recorder: recorder}
}

// ByIP limits per client address.
func (r *RateLimiter) ByIP(bucket shared.Bucket) gin.HandlerFunc {
	return r.limit(bucket, func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// ByUser limits per authenticated user and falls back to the client address.
func (r *RateLimiter) ByUser(bucket shared.Bucket) gin.HandlerFunc {
	return r.limit(bucket, func(c *gin.Context) string {
		if id, ok := GetUserID(c); ok {
			return "user:" + id.String()
		}
		return "ip:" + c.ClientIP()
	})
}

func (r *RateLimiter) limit(bucket shared.Bucket, keyOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := r.quota.CheckQuota(c.Request.Context(), keyOf(c), bucket)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.Header(headerRateLimit, strconv.Itoa(decision.Limit))
		c.Header(headerRateRemaining, strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			slog.Warn("rate limit exceeded", "bucket", bucket, "client_ip", c.ClientIP())
			if r.recorder != nil {
				r.recorder.ObserveRateLimited(string(bucket))
			}
			httperr.TooManyRequests(c, errQuotaExceeded, decision.ResetAt.Sub(r.clock.Now()))
			return
		}
		c.Next()
	}
}
