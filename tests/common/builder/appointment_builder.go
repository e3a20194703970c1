//go:build unit || e2e

package builder

import (
	"time"

	reqdto "salon-booking/internal/handler/dto/request"
	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	ID             uuid.UUID
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	StaffID        uuid.UUID
	ServiceIDs     []uuid.UUID
	ComboID        *uuid.UUID
	StartAt        time.Time
	DurationMin    int
	PriceCents     int64
	Status         string
	Notes          string
	IdempotencyKey string
}

func NewAppointmentBuilder() *AppointmentBuilder {
	return &AppointmentBuilder{
		ID:             uuid.New(),
		ClientName:     "Ana Torres",
		ClientEmail:    "ana@example.com",
		ClientPhone:    "+593991234567",
		StaffID:        uuid.New(),
		ServiceIDs:     []uuid.UUID{uuid.New()},
		StartAt:        time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		DurationMin:    30,
		PriceCents:     2500,
		Status:         "PENDING",
		IdempotencyKey: "key-" + uuid.NewString(),
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) BuildDTO() reqdto.CreateAppointmentRequest {
	return reqdto.CreateAppointmentRequest{
		ClientName:     b.ClientName,
		ClientEmail:    b.ClientEmail,
		ClientPhone:    b.ClientPhone,
		StaffID:        b.StaffID,
		ServiceIDs:     b.ServiceIDs,
		ComboID:        b.ComboID,
		StartAt:        b.StartAt,
		Notes:          b.Notes,
		IdempotencyKey: b.IdempotencyKey,
	}
}

func (b *AppointmentBuilder) BuildView() *queries.AppointmentView {
	services := make([]queries.AppointmentServiceView, len(b.ServiceIDs))
	for i, id := range b.ServiceIDs {
		services[i] = queries.AppointmentServiceView{
			ServiceID:   id,
			Name:        "Service",
			Position:    i,
			DurationMin: b.DurationMin,
			PriceCents:  b.PriceCents,
		}
	}
	return &queries.AppointmentView{
		ID:          b.ID,
		ClientID:    uuid.New(),
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		ClientPhone: "+59399*****67",
		StaffID:     b.StaffID,
		StaffName:   "Stylist",
		ComboID:     b.ComboID,
		StartAt:     b.StartAt,
		EndAt:       b.StartAt.Add(time.Duration(b.DurationMin*len(b.ServiceIDs)) * time.Minute),
		Status:      b.Status,
		Notes:       b.Notes,
		TotalCents:  b.PriceCents * int64(len(b.ServiceIDs)),
		Services:    services,
		CreatedAt:   b.StartAt.Add(-24 * time.Hour),
		UpdatedAt:   b.StartAt.Add(-24 * time.Hour),
	}
}
