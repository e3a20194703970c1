package appointment

import (
	"time"

	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clock clock.Clock) *Factory {
	return &Factory{Clock: clock}
}

type NewAppointmentParams struct {
	ClientID       uuid.UUID
	StaffID        uuid.UUID
	ComboID        *uuid.UUID
	StartAt        time.Time
	Lines          []catalog.Line
	Notes          Notes
	IdempotencyKey idempotency.Key
}

// CreateAppointment builds a PENDING appointment whose end is derived from the
// summed service durations and whose prices are snapshotted from lines.
func (f *Factory) CreateAppointment(p NewAppointmentParams) (*Appointment, error) {
	now := f.Clock.Now()
	if !p.StartAt.After(now) {
		return nil, ErrStartInPast
	}
	if len(p.Lines) == 0 {
		return nil, ErrNoServices
	}

	duration := catalog.TotalDuration(p.Lines)
	if duration <= 0 {
		return nil, catalog.ErrZeroDuration
	}
	slot, err := schedule.NewInterval(p.StartAt, p.StartAt.Add(duration))
	if err != nil {
		return nil, err
	}

	return &Appointment{
		id:             uuid.New(),
		clientID:       p.ClientID,
		staffID:        p.StaffID,
		comboID:        p.ComboID,
		slot:           slot,
		status:         StatusPending,
		notes:          p.Notes,
		idempotencyKey: p.IdempotencyKey,
		services:       snapshotsFromLines(p.Lines),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}
