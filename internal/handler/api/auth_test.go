//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"salon-booking/internal/domain/auth"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/handler/api"
	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/cookie"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"
	"salon-booking/tests/common/builder"
	"salon-booking/tests/common/httptest"
	"salon-booking/tests/common/testutil"
	commandsmock "salon-booking/tests/mock/commands"
	queriesmock "salon-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
	userBuilder  *builder.UserBuilder
}

func (s *AuthHandlerTestSuite) SetupTest() {
	s.router = newTestRouter()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())
	s.userBuilder = builder.NewUserBuilder()

	fx := newAuthFixture(s.T(), s.mockCtrl, map[string]user.Principal{
		"bearer-token": s.userBuilder.BuildPrincipal(),
	})

	s.router.POST("/auth/signup", s.handler.Signup)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/refresh", s.handler.Refresh)
	s.router.POST("/auth/logout", fx.mw.RequireAuth(), s.handler.Logout)
	s.router.GET("/auth/me", fx.mw.RequireAuth(), s.handler.Me)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AuthHandlerTestSuite) loginResult() *commands.LoginResult {
	return &commands.LoginResult{
		User:      s.userBuilder.BuildReadModel(),
		Principal: s.userBuilder.BuildPrincipal(),
		TokenPair: &commands.TokenPair{
			AccessToken:      "test-jwt-token",
			AccessExpiresAt:  time.Date(2030, 1, 1, 0, 15, 0, 0, time.UTC),
			RefreshToken:     "test-refresh-token",
			RefreshExpiresAt: time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := s.userBuilder.BuildLoginDTO("password123")

	s.Run("success: 200 とトークン Cookie を返す", func() {
		creds, err := auth.NewCredentials(reqBody.Email, reqBody.Password)
		s.Require().NoError(err)
		s.mockCommands.EXPECT().Login(gomock.Any(), creds).Return(s.loginResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("test-jwt-token", response.AccessToken)
		s.Equal(s.userBuilder.Email, response.User.Email)
		s.NotNil(httptest.ExtractCookie(rec, cookie.AccessTokenCookieName))
		s.NotNil(httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName))
	})

	s.Run("error: バリデーションエラーは 400", func() {
		bound := []testCaseAuth{
			{name: "email 境界 OK", mutate: testutil.Field("email", "valid@example.com"), expectCode: http.StatusOK},
			{name: "email 形式不正", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password 8 文字 OK", mutate: testutil.Field("password", "password"), expectCode: http.StatusOK},
			{name: "password 7 文字", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
		}
		missing := []testCaseAuth{
			{name: "email 欠落", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "password 欠落", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}

		for _, group := range [][]testCaseAuth{bound, missing} {
			for _, tc := range group {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
					if tc.expectCode == http.StatusOK {
						s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).Return(s.loginResult(), nil)
					}

					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
					if tc.expectCode == http.StatusOK {
						httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
					} else {
						httptest.AssertErrorCode(s.T(), rec, tc.expectCode, httperr.CodeValidation)
					}
				})
			}
		}
	})

	s.Run("error: ユースケースのエラーをステータスに変換", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{"認証情報不正", commands.ErrInvalidCredentials, http.StatusUnauthorized, httperr.CodeUnauthorized},
			{"無効化ユーザー", commands.ErrUserInactive, http.StatusForbidden, httperr.CodeForbidden},
			{"内部エラー", errors.New("database error"), http.StatusInternalServerError, httperr.CodeInternal},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestSignup() {
	url := "/auth/signup"
	reqBody := reqdto.SignupRequest{
		Name:     "Ana Torres",
		Email:    "ana@example.com",
		Phone:    "+1 555 010 0200",
		Password: "password123",
	}

	s.Run("success: 201 とトークン Cookie を返す", func() {
		s.mockCommands.EXPECT().Signup(gomock.Any(), reqBody.ToInput(), gomock.Any()).Return(s.loginResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("test-jwt-token", response.AccessToken)
		s.NotNil(httptest.ExtractCookie(rec, cookie.AccessTokenCookieName))
		s.NotNil(httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName))
	})

	s.Run("error: バリデーションエラーは 400", func() {
		testCases := []testCaseAuth{
			{name: "name 空白のみ", mutate: testutil.Field("name", "   "), expectCode: http.StatusBadRequest},
			{name: "email 形式不正", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "phone 欠落", mutate: testutil.Field("phone", nil), expectCode: http.StatusBadRequest},
			{name: "password 7 文字", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
			{name: "password 73 文字", mutate: testutil.Field("password", strings.Repeat("a", 73)), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, httperr.CodeValidation)
			})
		}
	})

	s.Run("error: ユースケースのエラーをステータスに変換", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{"登録済みメール", commands.ErrEmailTaken, http.StatusConflict, httperr.CodeEmailTaken},
			{"ドメイン検証エラー", errs.Mark(errors.New("invalid phone number"), errs.ErrValidation), http.StatusBadRequest, httperr.CodeValidation},
			{"内部エラー", errors.New("database error"), http.StatusInternalServerError, httperr.CodeInternal},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Signup(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestRefresh() {
	url := "/auth/refresh"
	pair := s.loginResult().TokenPair

	s.Run("success: Cookie のリフレッシュトークンを使用", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "cookie-refresh").Return(pair, nil)

		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodPost, url, nil,
			[]*http.Cookie{{Name: cookie.RefreshTokenCookieName, Value: "cookie-refresh"}}, "")

		var response resdto.RefreshResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(pair.AccessToken, response.AccessToken)
	})

	s.Run("success: ボディのリフレッシュトークンを使用", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "body-refresh").Return(pair, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refreshToken": "body-refresh"}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: トークンなしは 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	s.Run("error: 失効トークンは Cookie を削除して 401", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "stale").Return(nil, commands.ErrTokenValidation)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refreshToken": "stale"}, "")

		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
		cleared := httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName)
		s.Require().NotNil(cleared)
		s.Empty(cleared.Value)
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: 204 No Content", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 未認証は 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"
	returnUser := s.userBuilder.BuildReadModel()

	s.Run("success: 現在のユーザー情報を返す", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Cond(func(p user.Principal) bool {
			return p.UserID == s.userBuilder.ID
		})).Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response["email"])
	})

	s.Run("error: ユースケースのエラーをステータスに変換", func() {
		testCases := []struct {
			name           string
			queryError     error
			expectedStatus int
			expectedCode   string
		}{
			{"ユーザー不在", queries.ErrUserNotFound, http.StatusNotFound, httperr.CodeNotFound},
			{"無効化ユーザー", queries.ErrUserInactive, http.StatusForbidden, httperr.CodeForbidden},
			{"ロール変更後のトークン", queries.ErrStaleRole, http.StatusUnauthorized, httperr.CodeUnauthorized},
			{"内部エラー", errors.New("database error"), http.StatusInternalServerError, httperr.CodeInternal},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).Return(nil, tc.queryError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}
