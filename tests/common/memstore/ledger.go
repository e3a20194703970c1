package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/infra"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ledgerKey struct {
	scope idempotency.Scope
	key   idempotency.Key
}

// Ledger applies the same claim rules as the SQL ledger.
type Ledger struct {
	mu      sync.Mutex
	records map[ledgerKey]idempotency.Record

	// LoseCompletes drops Complete calls, as if the process died after commit.
	LoseCompletes bool
}

var _ shared.IdempotencyLedger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{records: map[ledgerKey]idempotency.Record{}}
}

func (l *Ledger) Lookup(_ context.Context, scope idempotency.Scope, key idempotency.Key) (*idempotency.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[ledgerKey{scope, key}]
	if !ok {
		return nil, nil
	}
	rec.Response = slices.Clone(rec.Response)
	return &rec, nil
}

func (l *Ledger) Claim(_ context.Context, c shared.IdempotencyClaim) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := ledgerKey{c.Scope, c.Key}
	if rec, ok := l.records[k]; ok {
		expired := !rec.ExpiresAt.After(c.Now)
		lapsed := rec.Status == idempotency.StatusProcessing && !rec.LockedUntil.After(c.Now)
		if !expired && !lapsed {
			return false, nil
		}
	}
	l.records[k] = idempotency.Record{
		Scope:       c.Scope,
		Key:         c.Key,
		RequestHash: c.RequestHash,
		Status:      idempotency.StatusProcessing,
		LockedUntil: c.LockedUntil,
		ExpiresAt:   c.ExpiresAt,
	}
	return true, nil
}

func (l *Ledger) Complete(_ context.Context, c shared.IdempotencyClaim, response []byte, resourceID uuid.UUID, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.LoseCompletes {
		return nil
	}
	k := ledgerKey{c.Scope, c.Key}
	rec, ok := l.records[k]
	if !ok || !holds(rec, c) {
		return infra.WrapRepoErr("idempotency claim is no longer held", nil, infra.KindNotFound)
	}
	rec.Status = idempotency.StatusCompleted
	rec.Response = slices.Clone(response)
	rec.ResourceID = &resourceID
	rec.ExpiresAt = expiresAt
	l.records[k] = rec
	return nil
}

func (l *Ledger) Release(_ context.Context, c shared.IdempotencyClaim) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := ledgerKey{c.Scope, c.Key}
	if rec, ok := l.records[k]; ok && holds(rec, c) {
		delete(l.records, k)
	}
	return nil
}

func holds(rec idempotency.Record, c shared.IdempotencyClaim) bool {
	return rec.Status == idempotency.StatusProcessing &&
		rec.RequestHash == c.RequestHash &&
		rec.LockedUntil.Equal(c.LockedUntil)
}

func (l *Ledger) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for k, rec := range l.records {
		if !rec.ExpiresAt.After(now) {
			delete(l.records, k)
			n++
		}
	}
	return n, nil
}

// Put seeds a record directly.
func (l *Ledger) Put(rec idempotency.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[ledgerKey{rec.Scope, rec.Key}] = rec
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
