package usecase

import (
	"salon-booking/internal/domain/user"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/jwt"
)

var ErrNotAccessToken = errs.New("refresh token presented as access token")

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (user.Principal, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (user.Principal, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return user.Principal{}, err
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return user.Principal{}, ErrNotAccessToken
	}

	return claims.Principal()
}
