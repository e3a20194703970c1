package repository

import (
	"context"
	"log/slog"
	"time"

	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyQueries interface {
	GetIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyKeyParams) (sqlc.IdempotencyKeys, error)
	ClaimIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyKeyParams) (int64, error)
	ReleaseIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseIdempotencyKeyParams) (int64, error)
	DeleteExpiredIdempotencyKeys(ctx context.Context, db sqlc.DBTX, expiresAt pgtype.Timestamptz) (int64, error)
}

// IdempotencyRepository is the idempotency ledger. It runs on the pool, never
// inside a business transaction, so claims are visible to racing requests.
type IdempotencyRepository struct {
	queries IdempotencyQueries
	db      sqlc.DBTX
}

func NewIdempotencyRepository(queries IdempotencyQueries, db sqlc.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

// Lookup returns nil without error when the key has never been seen.
func (r *IdempotencyRepository) Lookup(ctx context.Context, scope idempotency.Scope, key idempotency.Key) (*idempotency.Record, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, sqlc.GetIdempotencyKeyParams{
		Scope: string(scope),
		Key:   key.String(),
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &idempotency.Record{
		Scope:       idempotency.Scope(row.Scope),
		Key:         idempotency.Key(row.Key),
		RequestHash: row.RequestHash,
		Status:      idempotency.Status(row.Status),
		Response:    row.Response,
		ResourceID:  pgconv.UUIDPtrFromPgtype(row.ResourceID),
		LockedUntil: row.LockedUntil.Time,
		ExpiresAt:   row.ExpiresAt.Time,
	}, nil
}

// Claim reports whether this caller now owns the key.
func (r *IdempotencyRepository) Claim(ctx context.Context, c shared.IdempotencyClaim) (bool, error) {
	n, err := r.queries.ClaimIdempotencyKey(ctx, r.db, sqlc.ClaimIdempotencyKeyParams{
		Scope:       string(c.Scope),
		Key:         c.Key.String(),
		RequestHash: c.RequestHash,
		LockedUntil: pgconv.TimeToPgtype(c.LockedUntil),
		ExpiresAt:   pgconv.TimeToPgtype(c.ExpiresAt),
		Now:         pgconv.TimeToPgtype(c.Now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return n == 1, nil
}

// Complete fails with KindNotFound when the claim lapsed and another request took the key.
func (r *IdempotencyRepository) Complete(ctx context.Context, c shared.IdempotencyClaim, response []byte, resourceID uuid.UUID, expiresAt time.Time) error {
	n, err := r.queries.CompleteIdempotencyKey(ctx, r.db, sqlc.CompleteIdempotencyKeyParams{
		Scope:       string(c.Scope),
		Key:         c.Key.String(),
		Response:    response,
		ResourceID:  pgconv.UUIDToPgtype(resourceID),
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		RequestHash: c.RequestHash,
		LockedUntil: pgconv.TimeToPgtype(c.LockedUntil),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("idempotency claim is no longer held", nil, infra.KindNotFound)
	}
	return nil
}

// Release leaves the row alone when another request holds the key now.
func (r *IdempotencyRepository) Release(ctx context.Context, c shared.IdempotencyClaim) error {
	n, err := r.queries.ReleaseIdempotencyKey(ctx, r.db, sqlc.ReleaseIdempotencyKeyParams{
		Scope:       string(c.Scope),
		Key:         c.Key.String(),
		RequestHash: c.RequestHash,
		LockedUntil: pgconv.TimeToPgtype(c.LockedUntil),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	if n == 0 {
		slog.Debug("idempotency claim already gone or taken over", "scope", c.Scope)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return count, nil
}
