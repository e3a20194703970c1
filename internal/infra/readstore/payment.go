package readstore

import (
	"context"

	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"
	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentReadQueries interface {
	GetPaymentByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Payments, error)
}

type PaymentReadStore struct {
	queries PaymentReadQueries
	db      sqlc.DBTX
}

func NewPaymentReadStore(queries PaymentReadQueries, db sqlc.DBTX) *PaymentReadStore {
	return &PaymentReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	row, err := r.queries.GetPaymentByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return &queries.PaymentView{
		ID:            row.ID,
		AppointmentID: row.AppointmentID,
		AmountCents:   row.AmountCents,
		Method:        row.Method,
		Status:        row.Status,
		Notes:         row.Notes,
		CreatedAt:     row.CreatedAt.Time,
	}, nil
}
