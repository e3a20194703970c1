package user

import (
	"time"

	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrRoleLinkMismatch = errs.Classed("role requires a matching staff or client link", errs.ErrValidation)

// User is an authenticatable account. STAFF accounts link to a staff member,
// CLIENT accounts link to a client record.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	staffID      *uuid.UUID
	clientID     *uuid.UUID
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, staffID, clientID *uuid.UUID) (*User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if role == RoleStaff && staffID == nil {
		return nil, ErrRoleLinkMismatch
	}
	if role == RoleClient && clientID == nil {
		return nil, ErrRoleLinkMismatch
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		staffID:      staffID,
		clientID:     clientID,
		isActive:     true,
	}, nil
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) StaffID() *uuid.UUID   { return u.staffID }
func (u *User) ClientID() *uuid.UUID  { return u.clientID }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }

func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.id,
		Role:     u.role,
		StaffID:  u.staffID,
		ClientID: u.clientID,
	}
}
