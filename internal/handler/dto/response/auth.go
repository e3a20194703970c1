package response

import (
	"time"

	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	StaffID  *uuid.UUID `json:"staffId,omitempty"`
	ClientID *uuid.UUID `json:"clientId,omitempty"`
}

type LoginResponse struct {
	AccessToken     string        `json:"accessToken"`
	AccessExpiresAt time.Time     `json:"accessExpiresAt"`
	User            *UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

func FromUserView(v *queries.AuthorizedUserView) *UserResponse {
	if v == nil {
		return nil
	}
	return &UserResponse{
		ID:       v.ID,
		Email:    v.Email,
		Role:     v.Role,
		StaffID:  v.StaffID,
		ClientID: v.ClientID,
	}
}
