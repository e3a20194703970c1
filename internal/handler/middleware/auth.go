package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/pkg/cookie"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase"
	"salon-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const ctxPrincipalKey = "principal"

var (
	errTokenRequired     = errs.Classed("Access token required", errs.ErrUnauthorized)
	errTokenInvalid      = errs.Classed("Invalid or expired token", errs.ErrUnauthorized)
	errInsufficientRoles = errs.Classed("Insufficient permissions", errs.ErrForbidden)
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired,
				httperr.CodeUnauthorized, errTokenRequired.Error(), nil)
			return
		}

		principal, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errTokenInvalid),
				httperr.CodeUnauthorized, errTokenInvalid.Error(), nil)
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired,
				httperr.CodeUnauthorized, errTokenRequired.Error(), nil)
			return
		}

		if !slices.Contains(roles, principal.Role) {
			httperr.AbortWithError(c, http.StatusForbidden, errInsufficientRoles,
				httperr.CodeForbidden, errInsufficientRoles.Error(), nil)
			return
		}

		c.Next()
	}
}

// OptionalAuth authenticates the request if a token is present, but does not abort on failure.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Debug("Ignoring invalid token on optional auth route", "error", err.Error())
			c.Next()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p user.Principal) {
	c.Set(ctxPrincipalKey, p)
}

func GetPrincipal(c *gin.Context) (user.Principal, bool) {
	v, exists := c.Get(ctxPrincipalKey)
	if !exists {
		return user.Principal{}, false
	}
	p, ok := v.(user.Principal)
	return p, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		return uuid.Nil, false
	}
	return p.UserID, true
}

// Actor describes the caller of a command; anonymous callers have no principal.
func Actor(c *gin.Context) shared.Actor {
	actor := shared.Actor{IP: c.ClientIP()}
	if p, ok := GetPrincipal(c); ok {
		actor.Principal = &p
	}
	return actor
}
