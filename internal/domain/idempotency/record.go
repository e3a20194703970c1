package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("idempotency key must be 1-255 bytes of text without control characters")

const maxKeyLength = 255

// Key is an opaque client token; only its length and encoding are checked.
type Key string

func NewKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxKeyLength || !utf8.ValidString(s) {
		return "", ErrInvalidKey
	}
	if strings.ContainsFunc(s, unicode.IsControl) {
		return "", ErrInvalidKey
	}
	return Key(s), nil
}

func (k Key) String() string { return string(k) }

// Scope namespaces keys per operation so one key cannot replay another endpoint.
type Scope string

const (
	ScopeCreateAppointment Scope = "appointments.create"
	ScopeRecordPayment     Scope = "payments.record"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

type Record struct {
	Scope       Scope
	Key         Key
	RequestHash string
	Status      Status
	Response    []byte
	ResourceID  *uuid.UUID
	LockedUntil time.Time
	ExpiresAt   time.Time
}

func (r Record) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Decision is what a caller must do with a key given the current ledger row.
type Decision int

const (
	// Proceed: no live record, the caller may claim the key and execute.
	Proceed Decision = iota
	// Replay: a completed result exists and must be returned verbatim.
	Replay
	// InProgress: an identical request holds the key right now.
	InProgress
	// Reused: the key is held by a request with a different body.
	Reused
)

func Decide(rec *Record, requestHash string, now time.Time) Decision {
	if rec == nil || rec.IsExpired(now) {
		return Proceed
	}
	if rec.Status == StatusCompleted {
		return Replay
	}
	if !now.Before(rec.LockedUntil) {
		// processing lease lapsed, the previous attempt died without releasing
		return Proceed
	}
	if rec.RequestHash != requestHash {
		return Reused
	}
	return InProgress
}

// HashRequest fingerprints a request body. Struct field order keeps it stable.
func HashRequest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
