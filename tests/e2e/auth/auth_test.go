//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/handler/dto/request"
	"salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/tests/common/authtest"
	"salon-booking/tests/common/dbtest"
	"salon-booking/tests/common/httptest"
	"salon-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	signupURL  = "/api/v1/auth/signup"
	loginURL   = "/api/v1/auth/login"
	logoutURL  = "/api/v1/auth/logout"
	refreshURL = "/api/v1/auth/refresh"
	meURL      = "/api/v1/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin), nil)
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleAdmin), nil)

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		expectedCode   string
	}{
		{"正常なログイン", "admin@example.com", authtest.DefaultPassword, http.StatusOK, ""},
		{"大文字のメールアドレスでもログイン可能", "ADMIN@example.com", authtest.DefaultPassword, http.StatusOK, ""},
		{"存在しないユーザー", "nobody@example.com", authtest.DefaultPassword, http.StatusUnauthorized, httperr.CodeUnauthorized},
		{"間違ったパスワード", "admin@example.com", "wrong-password", http.StatusUnauthorized, httperr.CodeUnauthorized},
		{"非アクティブユーザー", "inactive@example.com", authtest.DefaultPassword, http.StatusForbidden, httperr.CodeForbidden},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")

			if tt.expectedStatus != http.StatusOK {
				httptest.AssertErrorCode(t, w, tt.expectedStatus, tt.expectedCode)
				return
			}
			var res response.LoginResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			s.NotEmpty(res.AccessToken)
			s.Equal("admin@example.com", res.User.Email)
			s.Equal("ADMIN", res.User.Role)
		})
	}
}

func (s *authSuite) TestSignup() {
	body := request.SignupRequest{
		Name:     "Ana Torres",
		Email:    "ana@example.com",
		Phone:    "+1 555 010 0200",
		Password: "password123",
	}

	s.Run("登録後にログインでき CLIENT として紐付く", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, signupURL, body, "")

		var res response.LoginResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
		s.Equal("CLIENT", res.User.Role)
		s.Require().NotNil(res.User.ClientID)

		var clientID uuid.UUID
		err := s.DB.QueryRow(t.Context(), "SELECT id FROM clients WHERE email = 'ana@example.com'").Scan(&clientID)
		require.NoError(t, err)
		s.Equal(clientID, *res.User.ClientID)

		token := authtest.LoginUser(t, s.Router, "ana@example.com", "password123")
		s.NotEmpty(token)
	})

	s.Run("登録済みのメールは 409", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, signupURL, body, "")
		require.Equal(t, http.StatusCreated, w.Code)

		again := body
		again.Email = "ANA@example.com"
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, signupURL, again, "")
		httptest.AssertErrorCode(t, w, http.StatusConflict, httperr.CodeEmailTaken)
	})

	s.Run("管理者と同じメールも 409", func() {
		t := s.T()
		taken := body
		taken.Email = "admin@example.com"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, signupURL, taken, "")
		httptest.AssertErrorCode(t, w, http.StatusConflict, httperr.CodeEmailTaken)

		var n int
		err := s.DB.QueryRow(t.Context(), "SELECT count(*) FROM clients WHERE email = 'admin@example.com'").Scan(&n)
		require.NoError(t, err)
		s.Zero(n)
	})
}

func (s *authSuite) TestRefresh() {
	s.Run("Cookie のリフレッシュトークンで再発行", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "admin@example.com", Password: authtest.DefaultPassword}, "")
		require.Equal(t, http.StatusOK, w.Code)

		refreshed := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil,
			httptest.ExtractCookies(w), "")

		var res response.RefreshResponse
		httptest.AssertSuccessResponse(t, refreshed, http.StatusOK, &res)
		s.NotEmpty(res.AccessToken)
	})

	s.Run("アクセストークンはリフレッシュに使えない", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "admin@example.com", authtest.DefaultPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: token}, "")
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})
}

func (s *authSuite) TestLogoutAndMe() {
	s.Run("ログイン中のユーザー情報を取得しログアウト", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "admin@example.com", authtest.DefaultPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		var me response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &me)
		s.Equal("admin@example.com", me.Email)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("スタッフは紐付けを返す", func() {
		t := s.T()
		staffID := dbtest.CreateTestStaff(t, s.DB, "Lucia", "lucia@example.com")
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "lucia.user@example.com", string(user.RoleStaff), &staffID)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		var me response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &me)
		require.NotNil(t, me.StaffID)
		s.Equal(staffID, *me.StaffID)
	})

	s.Run("期限切れトークンは拒否", func() {
		t := s.T()
		expired := s.jwt.CreateExpiredToken(t, user.Principal{UserID: uuid.New(), Role: user.RoleAdmin})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expired)
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	s.Run("ロール変更前に発行されたトークンは拒否", func() {
		t := s.T()
		var adminID uuid.UUID
		require.NoError(t, s.DB.QueryRow(t.Context(),
			"SELECT id FROM users WHERE email = 'admin@example.com'").Scan(&adminID))
		staffID := dbtest.CreateTestStaff(t, s.DB, "Marco", "marco@example.com")
		stale := s.jwt.GenerateToken(t, user.Principal{UserID: adminID, Role: user.RoleStaff, StaffID: &staffID})

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, stale)
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
	})

	s.Run("認証が必要なエンドポイント", func() {
		t := s.T()
		for _, ep := range []struct{ method, path string }{
			{http.MethodGet, meURL},
			{http.MethodPost, logoutURL},
			{http.MethodGet, "/api/v1/appointments"},
			{http.MethodPost, "/api/v1/payments"},
		} {
			w := httptest.PerformRequest(t, s.Router, ep.method, ep.path, nil, "")
			httptest.AssertErrorCode(t, w, http.StatusUnauthorized, httperr.CodeUnauthorized)
		}
	})
}
