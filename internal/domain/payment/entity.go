package payment

import (
	"errors"
	"strings"
	"time"

	"salon-booking/internal/domain/idempotency"

	"github.com/google/uuid"
)

var (
	ErrInvalidMethod = errors.New("payment method must be CASH, CARD or TRANSFER")
	ErrInvalidAmount = errors.New("payment amount cannot be negative")
	ErrNotesTooLong  = errors.New("payment notes too long")
)

const maxNotesLength = 1000

type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodTransfer Method = "TRANSFER"
)

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

type Status string

const (
	// StatusPending: manual methods are recorded unverified.
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

type Payment struct {
	id             uuid.UUID
	appointmentID  uuid.UUID
	amountCents    int64
	method         Method
	status         Status
	notes          string
	idempotencyKey idempotency.Key
	createdAt      time.Time
}

// NewPayment records a manual payment. amountCents must come from the
// appointment's price snapshots, never from the caller.
func NewPayment(appointmentID uuid.UUID, amountCents int64, method Method, notes string, key idempotency.Key, now time.Time) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxNotesLength {
		return nil, ErrNotesTooLong
	}
	return &Payment{
		id:             uuid.New(),
		appointmentID:  appointmentID,
		amountCents:    amountCents,
		method:         method,
		status:         StatusPending,
		notes:          notes,
		idempotencyKey: key,
		createdAt:      now,
	}, nil
}

func ReconstructPayment(
	id, appointmentID uuid.UUID,
	amountCents int64,
	method Method,
	status Status,
	notes string,
	key idempotency.Key,
	createdAt time.Time,
) *Payment {
	return &Payment{
		id:             id,
		appointmentID:  appointmentID,
		amountCents:    amountCents,
		method:         method,
		status:         status,
		notes:          notes,
		idempotencyKey: key,
		createdAt:      createdAt,
	}
}

func (p *Payment) ID() uuid.UUID                   { return p.id }
func (p *Payment) AppointmentID() uuid.UUID        { return p.appointmentID }
func (p *Payment) AmountCents() int64              { return p.amountCents }
func (p *Payment) Method() Method                  { return p.method }
func (p *Payment) Status() Status                  { return p.status }
func (p *Payment) Notes() string                   { return p.notes }
func (p *Payment) IdempotencyKey() idempotency.Key { return p.idempotencyKey }
func (p *Payment) CreatedAt() time.Time            { return p.createdAt }
