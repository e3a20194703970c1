package repository

import (
	"context"
	"encoding/json"

	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/pgconv"
	"salon-booking/internal/usecase/shared"
)

type AuditWriteQueries interface {
	CreateAuditLog(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateAuditLogParams) error
}

// AuditRepository only ever inserts.
type AuditRepository struct {
	queries AuditWriteQueries
	db      sqlc.DBTX
}

func NewAuditRepository(queries AuditWriteQueries, db sqlc.DBTX) *AuditRepository {
	return &AuditRepository{
		queries: queries,
		db:      db,
	}
}

func (r *AuditRepository) Record(ctx context.Context, entry shared.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return errs.Wrap(err, "failed to encode audit changes")
	}

	err = r.queries.CreateAuditLog(ctx, r.db, sqlc.CreateAuditLogParams{
		ActorID:   pgconv.UUIDPtrToPgtype(entry.Actor.UserID()),
		ActorRole: pgconv.NullableString(entry.Actor.Role()),
		StaffID:   pgconv.UUIDPtrToPgtype(entry.StaffID),
		Action:    string(entry.Action),
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		Changes:   changes,
		IpAddress: pgconv.NullableString(entry.Actor.IP),
		CreatedAt: pgconv.TimeToPgtype(entry.At),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to write audit log", err)
	}
	return nil
}
