package auth

import (
	"log/slog"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/pkg/errs"
)

// ErrInvalidCredentials wraps the email or password rule that failed. Login
// reports every variant the same way so callers cannot probe accounts.
var ErrInvalidCredentials = errs.Classed("invalid email or password", errs.ErrValidation)

type Credentials struct {
	email    user.Email
	password user.Password
}

func NewCredentials(emailStr, passwordStr string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, errs.Mark(err, ErrInvalidCredentials)
	}

	password, err := user.NewPassword(passwordStr)
	if err != nil {
		return Credentials{}, errs.Mark(err, ErrInvalidCredentials)
	}

	return Credentials{email: email, password: password}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

func (c Credentials) Password() user.Password {
	return c.password
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Attr{Key: "email", Value: c.email.LogValue()},
		slog.Attr{Key: "password", Value: c.password.LogValue()},
	)
}
