package shared

import (
	"context"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/payment"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/domain/user"
	sqlc "salon-booking/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic and a bounded timeout
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Appointments() AppointmentRepository
	Payments() PaymentRepository
	Clients() ClientRepository
	Audit() AuditSink
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

// CommandReads never caches: every call hits the store it is bound to.
type CommandReads interface {
	StaffWithSchedule(ctx context.Context, staffID uuid.UUID) (*schedule.Staff, error)
	ServicesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Service, error)
	ComboByID(ctx context.Context, id uuid.UUID) (*catalog.Combo, error)
	ClientByID(ctx context.Context, id uuid.UUID) (*client.Client, error)
	// BusyIntervals lists PENDING/CONFIRMED bookings of staffID that intersect window.
	BusyIntervals(ctx context.Context, staffID uuid.UUID, window schedule.Interval) ([]schedule.Interval, error)
}

type AppointmentRepository interface {
	// LockStaff takes a row lock on the staff member for the rest of the transaction.
	LockStaff(ctx context.Context, staffID uuid.UUID) (active bool, err error)
	Create(ctx context.Context, a *appointment.Appointment) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	UpdateStatus(ctx context.Context, a *appointment.Appointment) error
	FindIDByIdempotencyKey(ctx context.Context, key idempotency.Key) (uuid.UUID, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*payment.Payment, error)
	FindIDByIdempotencyKey(ctx context.Context, key idempotency.Key) (uuid.UUID, error)
}

type ClientRepository interface {
	// UpsertByEmail reuses the client with the same normalised email or creates one.
	UpsertByEmail(ctx context.Context, contact client.Contact) (*client.Client, error)
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, job NotificationJob) (uuid.UUID, error)
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
	// Create fails with KindDuplicateKey when the email is already registered.
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
}

// IdempotencyLedger works outside business transactions: claims must be
// visible to concurrent requests before the guarded transaction commits.
type IdempotencyLedger interface {
	Lookup(ctx context.Context, scope idempotency.Scope, key idempotency.Key) (*idempotency.Record, error)
	Claim(ctx context.Context, claim IdempotencyClaim) (bool, error)
	// Complete and Release only touch the row while claim still holds it.
	Complete(ctx context.Context, claim IdempotencyClaim, response []byte, resourceID uuid.UUID, expiresAt time.Time) error
	Release(ctx context.Context, claim IdempotencyClaim) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// IdempotencyClaim identifies one holder of a key: RequestHash and LockedUntil
// change whenever another request takes the key over.
type IdempotencyClaim struct {
	Scope       idempotency.Scope
	Key         idempotency.Key
	RequestHash string
	Now         time.Time
	LockedUntil time.Time
	ExpiresAt   time.Time
}
