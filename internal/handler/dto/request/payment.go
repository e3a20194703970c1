package request

import (
	"salon-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type RecordPaymentRequest struct {
	AppointmentID  uuid.UUID `json:"appointmentId" binding:"required"`
	Method         string    `json:"method" binding:"required,notblank"`
	Notes          string    `json:"notes" binding:"max=1000"`
	IdempotencyKey string    `json:"idempotencyKey"`
}

func (r *RecordPaymentRequest) ToInput(headerKey string) commands.RecordPaymentInput {
	return commands.RecordPaymentInput{
		AppointmentID:  r.AppointmentID,
		Method:         r.Method,
		Notes:          r.Notes,
		IdempotencyKey: pickKey(r.IdempotencyKey, headerKey),
	}
}
