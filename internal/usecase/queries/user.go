package queries

import (
	"context"

	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errs.Classed("user not found", errs.ErrNotFound)
	ErrUserInactive = errs.Classed("user inactive", errs.ErrForbidden)
	// ErrStaleRole means the token was issued before the account's role or
	// links changed; the caller has to authenticate again.
	ErrStaleRole = errs.Classed("role changed since token was issued", errs.ErrUnauthorized)
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, p user.Principal) (*AuthorizedUserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	// FindByEmail also returns the stored password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{readStore: readStore}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, p user.Principal) (*AuthorizedUserView, error) {
	view, err := q.readStore.FindByID(ctx, p.UserID)
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, err
	case !view.IsActive:
		return nil, ErrUserInactive
	}

	if view.Role != p.Role.String() || !sameLink(view.StaffID, p.StaffID) || !sameLink(view.ClientID, p.ClientID) {
		return nil, ErrStaleRole
	}
	return view, nil
}

func sameLink(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
