package appointment

import (
	"errors"
	"time"

	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrStartInPast       = errors.New("start time must be in the future")
	ErrNoServices        = errors.New("appointment requires at least one service")
	ErrNotesTooLong      = errors.New("notes too long")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrNotCancellable    = errors.New("appointment cannot be cancelled in its current status")
	ErrInvalidTransition = errors.New("invalid appointment status transition")
)

type Appointment struct {
	id             uuid.UUID
	clientID       uuid.UUID
	staffID        uuid.UUID
	comboID        *uuid.UUID
	slot           schedule.Interval
	status         Status
	notes          Notes
	idempotencyKey idempotency.Key
	services       []ServiceSnapshot
	createdAt      time.Time
	updatedAt      time.Time
}

func ReconstructAppointment(
	id, clientID, staffID uuid.UUID,
	comboID *uuid.UUID,
	slot schedule.Interval,
	status Status,
	notes Notes,
	idempotencyKey idempotency.Key,
	services []ServiceSnapshot,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:             id,
		clientID:       clientID,
		staffID:        staffID,
		comboID:        comboID,
		slot:           slot,
		status:         status,
		notes:          notes,
		idempotencyKey: idempotencyKey,
		services:       services,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (a *Appointment) ID() uuid.UUID                   { return a.id }
func (a *Appointment) ClientID() uuid.UUID             { return a.clientID }
func (a *Appointment) StaffID() uuid.UUID              { return a.staffID }
func (a *Appointment) ComboID() *uuid.UUID             { return a.comboID }
func (a *Appointment) Slot() schedule.Interval         { return a.slot }
func (a *Appointment) StartAt() time.Time              { return a.slot.Start }
func (a *Appointment) EndAt() time.Time                { return a.slot.End }
func (a *Appointment) Status() Status                  { return a.status }
func (a *Appointment) Notes() Notes                    { return a.notes }
func (a *Appointment) IdempotencyKey() idempotency.Key { return a.idempotencyKey }
func (a *Appointment) CreatedAt() time.Time            { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time            { return a.updatedAt }

func (a *Appointment) Services() []ServiceSnapshot {
	out := make([]ServiceSnapshot, len(a.services))
	copy(out, a.services)
	return out
}

// TotalCents is the sum of price-at-booking snapshots; catalog prices are never consulted.
func (a *Appointment) TotalCents() int64 {
	var total int64
	for _, s := range a.services {
		total += s.PriceCents
	}
	return total
}

func (a *Appointment) Cancel(reason string, maxReasonLength int, now time.Time) error {
	if !a.status.CanTransitionTo(StatusCancelled) {
		return ErrNotCancellable
	}
	a.status = StatusCancelled
	a.notes = a.notes.withLine(CancelNote(reason, maxReasonLength))
	a.updatedAt = now
	return nil
}

// Confirm is a no-op for an already confirmed appointment.
func (a *Appointment) Confirm(now time.Time) error {
	if a.status == StatusConfirmed {
		return nil
	}
	if !a.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	a.status = StatusConfirmed
	a.updatedAt = now
	return nil
}

func snapshotsFromLines(lines []catalog.Line) []ServiceSnapshot {
	out := make([]ServiceSnapshot, 0, len(lines))
	for i, l := range lines {
		out = append(out, ServiceSnapshot{
			ServiceID:   l.ServiceID,
			Name:        l.Name,
			Position:    i,
			DurationMin: l.DurationMin,
			PriceCents:  l.PriceCents,
		})
	}
	return out
}
