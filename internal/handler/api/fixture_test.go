//go:build unit

package api_test

import (
	"testing"

	"salon-booking/internal/domain/user"
	reqdto "salon-booking/internal/handler/dto/request"
	"salon-booking/internal/handler/middleware"
	usecasemock "salon-booking/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

// authFixture resolves bearer tokens to fixed principals so handlers see a
// real middleware populated context.
type authFixture struct {
	mw        *middleware.AuthMiddleware
	validator *usecasemock.MockTokenValidator
}

func newAuthFixture(t *testing.T, ctrl *gomock.Controller, tokens map[string]user.Principal) *authFixture {
	t.Helper()
	validator := usecasemock.NewMockTokenValidator(ctrl)
	for token, p := range tokens {
		validator.EXPECT().ValidateToken(token).Return(p, nil).AnyTimes()
	}
	return &authFixture{mw: middleware.NewAuthMiddleware(validator), validator: validator}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	reqdto.RegisterValidators()
	return gin.New()
}
