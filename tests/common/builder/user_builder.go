//go:build unit || e2e

package builder

import (
	"time"

	"salon-booking/internal/domain/user"
	reqdto "salon-booking/internal/handler/dto/request"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserBuilder struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	StaffID      *uuid.UUID
	ClientID     *uuid.UUID
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         string(user.RoleAdmin),
		IsActive:     true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, u.PasswordHash, role, u.StaffID, u.ClientID)
}

func (u *UserBuilder) BuildInfra() sqlc.Users {
	now := time.Now()
	return sqlc.Users{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		StaffID:      optionalUUID(u.StaffID),
		ClientID:     optionalUUID(u.ClientID),
		LastLogin:    pgtype.Timestamptz{},
		IsActive:     u.IsActive,
		CreatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
		UpdatedAt:    pgtype.Timestamptz{Time: now, Valid: true},
	}
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		StaffID:  u.StaffID,
		ClientID: u.ClientID,
		IsActive: u.IsActive,
	}
}

func (u *UserBuilder) BuildPrincipal() user.Principal {
	return user.Principal{
		UserID:   u.ID,
		Role:     user.Role(u.Role),
		StaffID:  u.StaffID,
		ClientID: u.ClientID,
	}
}

// BuildLoginDTO is the login body for this user with a plain password.
func (u *UserBuilder) BuildLoginDTO(password string) reqdto.LoginRequest {
	return reqdto.LoginRequest{Email: u.Email, Password: password}
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) AsStaff(staffID uuid.UUID) *UserBuilder {
	u.Role = string(user.RoleStaff)
	u.StaffID = &staffID
	u.ClientID = nil
	return u
}

func (u *UserBuilder) AsClient(clientID uuid.UUID) *UserBuilder {
	u.Role = string(user.RoleClient)
	u.ClientID = &clientID
	u.StaffID = nil
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}

func optionalUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}
