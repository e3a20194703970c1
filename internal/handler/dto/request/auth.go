package request

import (
	"salon-booking/internal/domain/auth"
	"salon-booking/internal/usecase/commands"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (auth.Credentials, error) {
	return auth.NewCredentials(r.Email, r.Password)
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,notblank"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func (r *SignupRequest) ToInput() commands.SignupInput {
	return commands.SignupInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}

// RefreshRequest is optional; the refresh cookie is used when the body is empty.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
