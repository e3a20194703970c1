package user

import (
	"log/slog"
	"regexp"
	"strings"

	"salon-booking/internal/pkg/crypto"
	"salon-booking/internal/pkg/errs"
)

var (
	ErrInvalidEmail    = errs.Classed("invalid email format", errs.ErrValidation)
	ErrInvalidRole     = errs.Classed("invalid role", errs.ErrValidation)
	ErrPasswordTooWeak = errs.Classed("password must be at least 8 characters long", errs.ErrValidation)
	ErrPasswordTooLong = errs.Classed("password must be at most 72 bytes", errs.ErrValidation)
)

const (
	maxEmailLength    = 254
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is trimmed and lower-cased so account and client lookups are
// case-insensitive.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > maxEmailLength || !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

// LogValue keeps addresses out of logs.
func (e Email) LogValue() slog.Value {
	return slog.StringValue(crypto.MaskEmail(e.value))
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	switch {
	case len(s) < minPasswordLength:
		return Password{}, ErrPasswordTooWeak
	case len(s) > maxPasswordBytes:
		return Password{}, ErrPasswordTooLong
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

func (p Password) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}
