package api

import (
	"net/http"

	reqdto "salon-booking/internal/handler/dto/request"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/cookie"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errRefreshTokenRequired = errs.Classed("refresh token required", errs.ErrUnauthorized)

type AuthHandler struct {
	cmds  commands.AuthCommands
	users queries.UserQueries
	cfg   config.Config
}

func NewAuthHandler(cmds commands.AuthCommands, users queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds:  cmds,
		users: users,
		cfg:   cfg,
	}
}

// @Summary User login
// @Description Login with email and password. Tokens are also set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}

	credentials, err := req.ToDomain()
	if err != nil {
		httperr.Respond(c, commands.ErrInvalidCredentials)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), credentials)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	pair := result.TokenPair
	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.AccessToken, pair.RefreshToken,
		h.cfg.JWT.AccessTokenDuration, h.cfg.JWT.RefreshTokenDuration)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		User:            resdto.FromUserView(result.User),
	})
}

// @Summary Client signup
// @Description Create a CLIENT account linked to the client record with the same email and sign it in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.SignupRequest true "Signup request"
// @Success 201 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req reqdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, reqdto.FieldErrors(err))
		return
	}

	result, err := h.cmds.Signup(c.Request.Context(), req.ToInput(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	pair := result.TokenPair
	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.AccessToken, pair.RefreshToken,
		h.cfg.JWT.AccessTokenDuration, h.cfg.JWT.RefreshTokenDuration)

	c.JSON(http.StatusCreated, resdto.LoginResponse{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		User:            resdto.FromUserView(result.User),
	})
}

// @Summary Refresh tokens
// @Description Issue a new token pair from the refresh cookie or body token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh request"
// @Success 200 {object} resdto.RefreshResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := cookie.GetRefreshToken(c)
	if token == "" && c.Request.ContentLength > 0 {
		var req reqdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, err, reqdto.FieldErrors(err))
			return
		}
		token = req.RefreshToken
	}
	if token == "" {
		httperr.Respond(c, errRefreshTokenRequired)
		return
	}

	pair, err := h.cmds.RefreshToken(c.Request.Context(), token)
	if err != nil {
		cookie.ClearTokenCookies(c, h.cfg.Cookie)
		httperr.Respond(c, err)
		return
	}

	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.AccessToken, pair.RefreshToken,
		h.cfg.JWT.AccessTokenDuration, h.cfg.JWT.RefreshTokenDuration)
	c.JSON(http.StatusOK, resdto.RefreshResponse{
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt,
	})
}

// @Summary User logout
// @Description Clears the token cookies
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Tokens are stateless; logout only drops the cookies.
	cookie.ClearTokenCookies(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.Respond(c, commands.ErrAuthenticationRequired)
		return
	}

	user, err := h.users.GetCurrentUser(c.Request.Context(), principal)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserView(user))
}
