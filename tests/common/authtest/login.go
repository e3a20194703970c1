//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"salon-booking/internal/handler/dto/request"
	"salon-booking/internal/pkg/cookie"
	"salon-booking/tests/common/dbtest"
	"salon-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	accessCookie := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
	require.NotNil(t, accessCookie, "Access token not found in cookies")
	require.NotEmpty(t, accessCookie.Value, "Access token cookie is empty")

	return accessCookie.Value
}

func CreateAndLogin(t *testing.T, db dbtest.Conn, router *gin.Engine, email, role string, staffID *uuid.UUID) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role, staffID)
	return LoginUser(t, router, email, DefaultPassword)
}
