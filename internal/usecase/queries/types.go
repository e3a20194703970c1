package queries

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentServiceView struct {
	ServiceID   uuid.UUID `json:"service_id"`
	Name        string    `json:"name"`
	Position    int       `json:"position"`
	DurationMin int       `json:"duration_min"`
	PriceCents  int64     `json:"price_cents"`
}

// AppointmentView is the read model returned for a single appointment and
// cached verbatim in the idempotency ledger.
type AppointmentView struct {
	ID          uuid.UUID                `json:"id"`
	ClientID    uuid.UUID                `json:"client_id"`
	ClientName  string                   `json:"client_name"`
	ClientEmail string                   `json:"client_email"`
	ClientPhone string                   `json:"client_phone"` // masked
	StaffID     uuid.UUID                `json:"staff_id"`
	StaffName   string                   `json:"staff_name"`
	ComboID     *uuid.UUID               `json:"combo_id,omitempty"`
	StartAt     time.Time                `json:"start_at"`
	EndAt       time.Time                `json:"end_at"`
	Status      string                   `json:"status"`
	Notes       string                   `json:"notes"`
	TotalCents  int64                    `json:"total_cents"`
	Services    []AppointmentServiceView `json:"services"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type AppointmentPage struct {
	Items      []AppointmentView
	NextCursor string
}

type PaymentView struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	StaffID  *uuid.UUID `json:"staff_id,omitempty"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

type SlotView struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

const (
	ReasonStaffUnavailable = "STAFF_UNAVAILABLE"
	ReasonFullyBooked      = "FULLY_BOOKED"
)

// AvailabilityView carries a reason whenever Slots is empty.
type AvailabilityView struct {
	StaffID     uuid.UUID  `json:"staff_id"`
	Date        string     `json:"date"`
	DurationMin int        `json:"duration_min"`
	Slots       []SlotView `json:"slots"`
	Reason      string     `json:"reason,omitempty"`
}
