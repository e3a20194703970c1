//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/tests/common/builder"
	"salon-booking/tests/common/httptest"
	usecasemock "salon-booking/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	validator *usecasemock.MockTokenValidator
	staff     user.Principal
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.validator = usecasemock.NewMockTokenValidator(s.mockCtrl)
	s.staff = builder.NewUserBuilder().AsStaff(builder.NewAppointmentBuilder().StaffID).BuildPrincipal()

	auth := middleware.NewAuthMiddleware(s.validator)
	echo := func(c *gin.Context) {
		actor := middleware.Actor(c)
		role := ""
		if actor.Principal != nil {
			role = actor.Principal.Role.String()
		}
		c.JSON(http.StatusOK, gin.H{"role": role, "ip": actor.IP})
	}

	s.router.GET("/required", auth.RequireAuth(), echo)
	s.router.GET("/optional", auth.OptionalAuth(), echo)
	s.router.GET("/staff-only", auth.RequireAuth(), auth.RequireRole(user.RoleAdmin, user.RoleStaff), echo)
}

func (s *AuthMiddlewareTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

type echoResponse struct {
	Role string `json:"role"`
	IP   string `json:"ip"`
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	s.Run("success: Bearer トークンからプリンシパルを解決", func() {
		s.validator.EXPECT().ValidateToken("good").Return(s.staff, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/required", nil, "good")

		var res echoResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("STAFF", res.Role)
	})

	s.Run("error: トークンなしは 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/required", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	s.Run("error: 検証失敗は 401", func() {
		s.validator.EXPECT().ValidateToken("bad").Return(user.Principal{}, errors.New("expired"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/required", nil, "bad")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}

func (s *AuthMiddlewareTestSuite) TestOptionalAuth() {
	s.Run("success: トークンなしは匿名で通過", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/optional", nil, "")

		var res echoResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Empty(res.Role)
		s.NotEmpty(res.IP)
	})

	s.Run("success: 不正トークンは匿名扱い", func() {
		s.validator.EXPECT().ValidateToken("bad").Return(user.Principal{}, errors.New("bad signature"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/optional", nil, "bad")

		var res echoResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Empty(res.Role)
	})

	s.Run("success: 有効トークンはプリンシパルを設定", func() {
		s.validator.EXPECT().ValidateToken("good").Return(s.staff, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/optional", nil, "good")

		var res echoResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("STAFF", res.Role)
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireRole() {
	s.Run("success: 許可ロールは通過", func() {
		s.validator.EXPECT().ValidateToken("staff").Return(s.staff, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/staff-only", nil, "staff")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: クライアントは 403", func() {
		client := builder.NewUserBuilder().AsClient(builder.NewAppointmentBuilder().ID).BuildPrincipal()
		s.validator.EXPECT().ValidateToken("client").Return(client, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/staff-only", nil, "client")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, httperr.CodeForbidden)
	})
}
