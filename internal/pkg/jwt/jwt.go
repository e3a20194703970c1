package jwt

import (
	"errors"
	"time"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type Claims struct {
	UserID    uuid.UUID  `json:"user_id"`
	Role      string     `json:"role"`
	StaffID   *uuid.UUID `json:"staff_id,omitempty"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	TokenType TokenType  `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() (user.Principal, error) {
	role, err := user.NewRole(c.Role)
	if err != nil {
		return user.Principal{}, err
	}
	return user.Principal{
		UserID:   c.UserID,
		Role:     role,
		StaffID:  c.StaffID,
		ClientID: c.ClientID,
	}, nil
}

type Service struct {
	secretKey            []byte
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
	clock                clock.Clock
}

func NewService(secretKey string, accessTokenDuration, refreshTokenDuration time.Duration, clk clock.Clock) *Service {
	return &Service{
		secretKey:            []byte(secretKey),
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
		clock:                clk,
	}
}

func (s *Service) AccessTokenDuration() time.Duration  { return s.accessTokenDuration }
func (s *Service) RefreshTokenDuration() time.Duration { return s.refreshTokenDuration }

func (s *Service) GenerateAccessToken(p user.Principal) (string, time.Time, error) {
	return s.generate(p, TokenTypeAccess, s.accessTokenDuration)
}

func (s *Service) GenerateRefreshToken(p user.Principal) (string, time.Time, error) {
	return s.generate(p, TokenTypeRefresh, s.refreshTokenDuration)
}

func (s *Service) generate(p user.Principal, tokenType TokenType, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:    p.UserID,
		Role:      p.Role.String(),
		StaffID:   p.StaffID,
		ClientID:  p.ClientID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
