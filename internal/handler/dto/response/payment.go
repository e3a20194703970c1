package response

import (
	"time"

	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	AmountCents   int64     `json:"amountCents"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromPaymentView(v *queries.PaymentView) (*PaymentResponse, error) {
	var res PaymentResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}
