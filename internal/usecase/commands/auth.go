package commands

import (
	"context"
	"log/slog"
	"time"

	"salon-booking/internal/domain/auth"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/jwt"
	"salon-booking/internal/pkg/password"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
)

var (
	ErrInvalidCredentials = errs.Classed("invalid email or password", errs.ErrUnauthorized)
	ErrUserInactive       = errs.Classed("user account is inactive", errs.ErrForbidden)
	ErrTokenGeneration    = errs.New("token generation failed")
	ErrTokenValidation    = errs.Classed("token validation failed", errs.ErrUnauthorized)
	ErrEmailTaken         = errs.Classed("an account with this email already exists", errs.ErrConflict)
)

// SignupInput registers a CLIENT account. The contact fields follow the same
// rules as a booking's client block.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type LoginResult struct {
	User      *queries.AuthorizedUserView
	Principal user.Principal
	TokenPair *TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, credentials auth.Credentials) (*LoginResult, error)
	Signup(ctx context.Context, in SignupInput, actor shared.Actor) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	hasher     password.Hasher
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service, hasher password.Hasher) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		hasher:     hasher,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, credentials auth.Credentials) (*LoginResult, error) {
	userView, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	principal, err := principalOf(userView)
	if err != nil {
		return nil, err
	}

	tokenPair, err := a.issue(principal)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, userView.ID)
	})
	if err != nil {
		// login succeeded, only the last_login stamp is missing
		slog.Warn("failed to update last login", "user_id", userView.ID, "error", err.Error())
	}

	return &LoginResult{
		User:      userView,
		Principal: principal,
		TokenPair: tokenPair,
	}, nil
}

// Signup creates a CLIENT user linked to the client record with the same
// email, creating that record when the email never booked before. The new
// account is signed in right away.
func (a *authCommandsImpl) Signup(ctx context.Context, in SignupInput, actor shared.Actor) (*LoginResult, error) {
	contact, err := client.NewContact(in.Name, in.Email, in.Phone)
	if err != nil {
		return nil, shared.Invalid(err)
	}
	pass, err := user.NewPassword(in.Password)
	if err != nil {
		return nil, shared.Invalid(err)
	}
	hash, err := a.hasher.Hash(pass.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	var (
		view      *queries.AuthorizedUserView
		principal user.Principal
	)
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, err := tx.Clients().UpsertByEmail(ctx, contact)
		if err != nil {
			return err
		}
		account, err := user.NewUser(contact.Email(), hash, user.RoleClient, nil, &c.ID)
		if err != nil {
			return shared.Invalid(err)
		}
		id, err := tx.Users().Create(ctx, account)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailTaken
			}
			return err
		}
		view = &queries.AuthorizedUserView{
			ID:       id,
			Email:    contact.Email().Value(),
			Role:     user.RoleClient.String(),
			ClientID: &c.ID,
			IsActive: true,
		}
		principal = user.Principal{UserID: id, Role: user.RoleClient, ClientID: &c.ID}
		// the new account is its own actor
		actor.Principal = &principal
		return tx.Audit().Record(ctx, shared.AuditEntry{
			Actor:    actor,
			Action:   shared.AuditCreate,
			Entity:   "user",
			EntityID: id,
			Changes:  map[string]any{"role": user.RoleClient.String(), "client_id": c.ID},
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("client account created", "user_id", view.ID, "client_id", *view.ClientID)

	tokenPair, err := a.issue(principal)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: view, Principal: principal, TokenPair: tokenPair}, nil
}

// RefreshToken rotates both tokens. Role and links are re-read from the
// store, never copied from the presented token.
func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	userView, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTokenValidation
		}
		return nil, err
	}
	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	principal, err := principalOf(userView)
	if err != nil {
		return nil, err
	}
	return a.issue(principal)
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials auth.Credentials) (*queries.AuthorizedUserView, error) {
	userView, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same error as password mismatch to prevent user enumeration
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := a.hasher.Compare(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	return userView, nil
}

func (a *authCommandsImpl) issue(p user.Principal) (*TokenPair, error) {
	accessToken, accessExp, err := a.jwtService.GenerateAccessToken(p)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, refreshExp, err := a.jwtService.GenerateRefreshToken(p)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func principalOf(v *queries.AuthorizedUserView) (user.Principal, error) {
	role, err := user.NewRole(v.Role)
	if err != nil {
		return user.Principal{}, errs.Wrap(err, "stored user has an unknown role")
	}
	return user.Principal{
		UserID:   v.ID,
		Role:     role,
		StaffID:  v.StaffID,
		ClientID: v.ClientID,
	}, nil
}
