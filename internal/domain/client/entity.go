package client

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"salon-booking/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidName  = errors.New("client name must be 2-100 characters")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var phoneRegex = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)

// Contact is what a booking request supplies about the client.
type Contact struct {
	name  string
	email user.Email
	phone string
}

func NewContact(name, email, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return Contact{}, ErrInvalidName
	}
	e, err := user.NewEmail(email)
	if err != nil {
		return Contact{}, err
	}
	phone = strings.TrimSpace(phone)
	if len(phone) > 32 || !phoneRegex.MatchString(phone) {
		return Contact{}, ErrInvalidPhone
	}
	return Contact{name: name, email: e, phone: phone}, nil
}

func (c Contact) Name() string      { return c.name }
func (c Contact) Email() user.Email { return c.email }
func (c Contact) Phone() string     { return c.phone }

// Client is the stored record; the phone only ever exists encrypted.
type Client struct {
	ID              uuid.UUID
	Name            string
	Email           string
	PhoneCiphertext string
}
