package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

var ErrUnknownBucket = errs.New("unknown rate limit bucket")

// fixedWindowScript counts a hit and returns {count, pttl}. The window starts
// with the first hit and the key expires with it.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisQuota is a fixed-window quota shared by every API instance.
type RedisQuota struct {
	rdb      redis.Scripter
	window   time.Duration
	prefix   string
	failOpen bool
	limits   map[shared.Bucket]int
	clock    clock.Clock
}

func NewRedisQuota(rdb redis.Scripter, cfg config.RateLimitConfig, clk clock.Clock) *RedisQuota {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisQuota{
		rdb:      rdb,
		window:   window,
		prefix:   prefix,
		failOpen: cfg.FailOpen,
		limits:   Limits(cfg),
		clock:    clk,
	}
}

func Limits(cfg config.RateLimitConfig) map[shared.Bucket]int {
	return map[shared.Bucket]int{
		shared.BucketPublic:  cfg.PublicLimit,
		shared.BucketAuth:    cfg.AuthLimit,
		shared.BucketAPI:     cfg.APILimit,
		shared.BucketBooking: cfg.BookingLimit,
	}
}

func (q *RedisQuota) CheckQuota(ctx context.Context, key string, bucket shared.Bucket) (shared.QuotaDecision, error) {
	limit, ok := q.limits[bucket]
	if !ok {
		return shared.QuotaDecision{}, errs.Wrap(ErrUnknownBucket, string(bucket))
	}
	now := q.clock.Now()

	count, ttl, err := q.incr(ctx, q.prefix+":"+string(bucket)+":"+key)
	if err != nil {
		if q.failOpen {
			slog.Warn("rate limiter unavailable, allowing request",
				"bucket", bucket, "error", err.Error())
			return shared.QuotaDecision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(q.window)}, nil
		}
		return shared.QuotaDecision{}, errs.Wrap(err, "rate limiter unavailable")
	}

	if ttl <= 0 {
		ttl = q.window
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return shared.QuotaDecision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(ttl),
	}, nil
}

func (q *RedisQuota) incr(ctx context.Context, key string) (int64, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, q.rdb, []string{key}, q.window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := res.([]any)
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis script result %T", res)
	}
	count, err := toInt64(values[0])
	if err != nil {
		return 0, 0, err
	}
	pttl, err := toInt64(values[1])
	if err != nil {
		return 0, 0, err
	}
	return count, time.Duration(pttl) * time.Millisecond, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script value %T", v)
	}
}

// Unlimited is used when no Redis is configured.
type Unlimited struct {
	Window time.Duration
	Clock  clock.Clock
	Limits map[shared.Bucket]int
}

func (u Unlimited) CheckQuota(_ context.Context, _ string, bucket shared.Bucket) (shared.QuotaDecision, error) {
	limit := u.Limits[bucket]
	return shared.QuotaDecision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: u.Clock.Now().Add(u.Window)}, nil
}

var (
	_ shared.QuotaChecker = (*RedisQuota)(nil)
	_ shared.QuotaChecker = Unlimited{}
)
