//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/builder"
	"salon-booking/tests/common/httptest"
	sharedmock "salon-booking/tests/mock/shared"
	usecasemock "salon-booking/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type countingLimitRecorder struct{ buckets []string }

func (r *countingLimitRecorder) ObserveRateLimited(bucket string) {
	r.buckets = append(r.buckets, bucket)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*gin.Engine, *sharedmock.MockQuotaChecker, *usecasemock.MockTokenValidator, *countingLimitRecorder) {
		ctrl := gomock.NewController(t)
		quota := sharedmock.NewMockQuotaChecker(ctrl)
		validator := usecasemock.NewMockTokenValidator(ctrl)
		recorder := &countingLimitRecorder{}

		rl := middleware.NewRateLimiter(quota, clock.NewMockClock(now), recorder)
		auth := middleware.NewAuthMiddleware(validator)
		ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

		r := gin.New()
		r.GET("/public", rl.ByIP(shared.BucketPublic), ok)
		r.GET("/api", auth.RequireAuth(), rl.ByUser(shared.BucketAPI), ok)
		return r, quota, validator, recorder
	}

	t.Run("success: 許可時はヘッダーを付けて通過", func(t *testing.T) {
		r, quota, _, recorder := setup(t)
		quota.EXPECT().CheckQuota(gomock.Any(), "ip:192.0.2.1", shared.BucketPublic).
			Return(shared.QuotaDecision{Allowed: true, Limit: 60, Remaining: 59, ResetAt: now.Add(time.Minute)}, nil)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Empty(t, recorder.buckets)
	})

	t.Run("error: 超過時は 429 と Retry-After", func(t *testing.T) {
		r, quota, _, recorder := setup(t)
		quota.EXPECT().CheckQuota(gomock.Any(), gomock.Any(), shared.BucketPublic).
			Return(shared.QuotaDecision{Allowed: false, Limit: 60, Remaining: 0, ResetAt: now.Add(42 * time.Second)}, nil)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")

		httptest.AssertErrorCode(t, rec, http.StatusTooManyRequests, httperr.CodeRateLimited)
		assert.Equal(t, "42", rec.Header().Get("Retry-After"))
		assert.Equal(t, []string{"public"}, recorder.buckets)
	})

	t.Run("success: 認証済みはユーザー単位のキー", func(t *testing.T) {
		r, quota, validator, _ := setup(t)
		p := builder.NewUserBuilder().BuildPrincipal()
		validator.EXPECT().ValidateToken("tok").Return(p, nil)
		quota.EXPECT().CheckQuota(gomock.Any(), "user:"+p.UserID.String(), shared.BucketAPI).
			Return(shared.QuotaDecision{Allowed: true, Limit: 120, Remaining: 100}, nil)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/api", nil, "tok")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("error: リミッター障害は 500", func(t *testing.T) {
		r, quota, _, _ := setup(t)
		quota.EXPECT().CheckQuota(gomock.Any(), gomock.Any(), shared.BucketPublic).
			Return(shared.QuotaDecision{}, errors.New("redis down"))

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, "")

		httptest.AssertErrorCode(t, rec, http.StatusInternalServerError, httperr.CodeInternal)
	})

}
