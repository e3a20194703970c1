package request

import (
	"strings"
	"time"

	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type CreateAppointmentRequest struct {
	ClientName     string      `json:"clientName" binding:"required,notblank,max=200"`
	ClientEmail    string      `json:"clientEmail" binding:"required,email"`
	ClientPhone    string      `json:"clientPhone" binding:"required,notblank"`
	StaffID        uuid.UUID   `json:"staffId" binding:"required"`
	ServiceIDs     []uuid.UUID `json:"serviceIds"`
	ComboID        *uuid.UUID  `json:"comboId"`
	StartAt        time.Time   `json:"startAt" binding:"required"`
	Notes          string      `json:"notes"`
	IdempotencyKey string      `json:"idempotencyKey"`
}

// ToInput prefers the body key and falls back to the Idempotency-Key header.
func (r *CreateAppointmentRequest) ToInput(headerKey string) commands.CreateAppointmentInput {
	return commands.CreateAppointmentInput{
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		ClientPhone:    r.ClientPhone,
		StaffID:        r.StaffID,
		ServiceIDs:     r.ServiceIDs,
		ComboID:        r.ComboID,
		StartAt:        r.StartAt,
		Notes:          r.Notes,
		IdempotencyKey: pickKey(r.IdempotencyKey, headerKey),
	}
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type ListAppointmentsQuery struct {
	StaffID *string `form:"staffId" binding:"omitempty,uuid"`
	Date    string  `form:"date" binding:"omitempty,isodate"`
	Cursor  string  `form:"cursor"`
	// nil when absent; an explicit 0 fails min=1
	Limit   *int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q *ListAppointmentsQuery) ToInput() queries.ListAppointmentsInput {
	in := queries.ListAppointmentsInput{
		Date:   q.Date,
		Cursor: q.Cursor,
	}
	if q.Limit != nil {
		in.Limit = *q.Limit
	}
	if q.StaffID != nil {
		id := uuid.MustParse(*q.StaffID)
		in.StaffID = &id
	}
	return in
}

type AvailabilityQuery struct {
	StaffID    string   `form:"staffId" binding:"required,uuid"`
	Date       string   `form:"date" binding:"required,isodate"`
	ServiceIDs []string `form:"serviceIds"`
	ComboID    *string  `form:"comboId" binding:"omitempty,uuid"`
}

// ToInput accepts serviceIds both repeated and comma separated.
func (q *AvailabilityQuery) ToInput() (queries.AvailabilityInput, error) {
	in := queries.AvailabilityInput{
		StaffID: uuid.MustParse(q.StaffID),
		Date:    q.Date,
	}
	for _, raw := range q.ServiceIDs {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return queries.AvailabilityInput{}, err
			}
			in.ServiceIDs = append(in.ServiceIDs, id)
		}
	}
	if q.ComboID != nil {
		id := uuid.MustParse(*q.ComboID)
		in.ComboID = &id
	}
	return in, nil
}

func pickKey(bodyKey, headerKey string) string {
	if k := strings.TrimSpace(bodyKey); k != "" {
		return k
	}
	return strings.TrimSpace(headerKey)
}
