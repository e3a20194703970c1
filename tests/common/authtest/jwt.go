//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, p user.Principal) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.AccessTokenDuration, h.cfg.RefreshTokenDuration, clock.NewRealClock())
	token, _, err := service.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken issues a token whose expiry already lies in the past.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, p user.Principal) string {
	t.Helper()
	past := clock.NewMockClock(time.Now().Add(-2 * h.cfg.AccessTokenDuration))
	service := jwt.NewService(h.cfg.Secret, h.cfg.AccessTokenDuration, h.cfg.RefreshTokenDuration, past)
	token, _, err := service.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}
