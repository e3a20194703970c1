package shared

import (
	"context"
	"time"

	"salon-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is who triggers a command. Principal is nil for anonymous callers.
type Actor struct {
	Principal *user.Principal
	IP        string
}

func (a Actor) UserID() *uuid.UUID {
	if a.Principal == nil {
		return nil
	}
	id := a.Principal.UserID
	return &id
}

func (a Actor) Role() string {
	if a.Principal == nil {
		return ""
	}
	return a.Principal.Role.String()
}

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
)

type AuditEntry struct {
	Actor    Actor
	Action   AuditAction
	Entity   string
	EntityID uuid.UUID
	StaffID  *uuid.UUID
	Changes  map[string]any
	At       time.Time
}

// AuditSink is append-only.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Recipient string
	Subject   string
	Body      string
	RunAt     time.Time
	// Attempts counts earlier delivery tries; zero for a fresh job.
	Attempts int
}

const (
	TopicAppointmentCreated   = "appointment_created"
	TopicAppointmentCancelled = "appointment_cancelled"
)

// NotificationDispatcher hands committed outbox jobs to the notifier without blocking.
type NotificationDispatcher interface {
	Dispatch(job NotificationJob)
}

type Message struct {
	To      string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type Bucket string

const (
	BucketPublic  Bucket = "public"
	BucketAuth    Bucket = "auth"
	BucketAPI     Bucket = "api"
	BucketBooking Bucket = "booking"
)

type QuotaDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type QuotaChecker interface {
	CheckQuota(ctx context.Context, key string, bucket Bucket) (QuotaDecision, error)
}

type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// OutcomeRecorder counts command outcomes.
type OutcomeRecorder interface {
	Observe(operation, outcome string)
}

type NopRecorder struct{}

func (NopRecorder) Observe(string, string) {}
