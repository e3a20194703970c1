package queries

import (
	"context"

	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPaymentNotFound = errs.Classed("payment not found", errs.ErrNotFound)

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentView, error)
}

type PaymentQueries interface {
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	readStore PaymentReadStore
}

func NewPaymentQueries(readStore PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{readStore: readStore}
}

func (q *paymentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*PaymentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return view, nil
}
