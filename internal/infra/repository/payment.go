package repository

import (
	"context"

	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/payment"
	"salon-booking/internal/infra"
	"salon-booking/internal/infra/repository/converter"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PaymentWriteQueries interface {
	CreatePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePaymentParams) error
	GetPaymentByAppointmentID(ctx context.Context, db sqlc.DBTX, appointmentID uuid.UUID) (sqlc.Payments, error)
	GetPaymentIDByIdempotencyKey(ctx context.Context, db sqlc.DBTX, idempotencyKey string) (uuid.UUID, error)
}

type PaymentRepository struct {
	queries PaymentWriteQueries
	db      sqlc.DBTX
}

func NewPaymentRepository(queries PaymentWriteQueries, db sqlc.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.queries.CreatePayment(ctx, r.db, converter.PaymentToInfra(p)); err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

// FindByAppointmentID returns nil without error when the appointment has no payment.
func (r *PaymentRepository) FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*payment.Payment, error) {
	row, err := r.queries.GetPaymentByAppointmentID(ctx, r.db, appointmentID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load payment", err)
	}
	return converter.PaymentFromInfra(row), nil
}

func (r *PaymentRepository) FindIDByIdempotencyKey(ctx context.Context, key idempotency.Key) (uuid.UUID, error) {
	id, err := r.queries.GetPaymentIDByIdempotencyKey(ctx, r.db, key.String())
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("payment not found for idempotency key", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to look up payment by idempotency key", err)
	}
	return id, nil
}
