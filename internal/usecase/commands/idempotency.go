package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// idempotencyGuard drives the ledger around one mutating command:
// lookup, claim, then complete after commit or release on failure.
type idempotencyGuard struct {
	ledger shared.IdempotencyLedger
	clock  clock.Clock
	ttl    time.Duration
	lease  time.Duration
}

func newIdempotencyGuard(ledger shared.IdempotencyLedger, clk clock.Clock, ttl, lease time.Duration) *idempotencyGuard {
	return &idempotencyGuard{ledger: ledger, clock: clk, ttl: ttl, lease: lease}
}

// begin returns a cached response when the key already completed. Otherwise
// the caller now holds the returned claim and must complete or release it.
func (g *idempotencyGuard) begin(ctx context.Context, scope idempotency.Scope, key idempotency.Key, requestHash string) (shared.IdempotencyClaim, []byte, error) {
	// the store keeps microseconds; the claim must compare equal once stored
	now := g.clock.Now().Truncate(time.Microsecond)
	claim := shared.IdempotencyClaim{
		Scope:       scope,
		Key:         key,
		RequestHash: requestHash,
		Now:         now,
		LockedUntil: now.Add(g.lease),
		ExpiresAt:   now.Add(g.ttl),
	}

	rec, err := g.ledger.Lookup(ctx, scope, key)
	if err != nil {
		return claim, nil, err
	}
	if cached, err := g.decide(rec, requestHash, now); cached != nil || err != nil {
		return claim, cached, err
	}

	claimed, err := g.ledger.Claim(ctx, claim)
	if err != nil {
		return claim, nil, err
	}
	if claimed {
		return claim, nil, nil
	}

	// lost the insert race, report what the winner holds
	rec, err = g.ledger.Lookup(ctx, scope, key)
	if err != nil {
		return claim, nil, err
	}
	if cached, err := g.decide(rec, requestHash, now); cached != nil || err != nil {
		return claim, cached, err
	}
	return claim, nil, ErrIdempotencyInProgress
}

func (g *idempotencyGuard) decide(rec *idempotency.Record, requestHash string, now time.Time) ([]byte, error) {
	switch idempotency.Decide(rec, requestHash, now) {
	case idempotency.Replay:
		if len(rec.Response) == 0 {
			return nil, errs.New("completed idempotency record has no response")
		}
		return rec.Response, nil
	case idempotency.InProgress:
		return nil, ErrIdempotencyInProgress
	case idempotency.Reused:
		return nil, ErrIdempotencyKeyReused
	default:
		return nil, nil
	}
}

// complete caches result under key. It runs after commit, so a failure here is
// only logged: the resource's own idempotency key column still catches retries.
func (g *idempotencyGuard) complete(ctx context.Context, claim shared.IdempotencyClaim, result any, resourceID uuid.UUID) {
	body, err := json.Marshal(result)
	if err != nil {
		slog.Error("failed to encode idempotent response", "scope", claim.Scope, "error", err.Error())
		g.release(ctx, claim)
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := g.ledger.Complete(ctx, claim, body, resourceID, g.clock.Now().Add(g.ttl)); err != nil {
		slog.Warn("failed to complete idempotency key", "scope", claim.Scope, "resource_id", resourceID, "error", err.Error())
	}
}

// release frees the key so a failed attempt can be retried with it. A claim
// that lapsed and was taken over is left to its new holder.
func (g *idempotencyGuard) release(ctx context.Context, claim shared.IdempotencyClaim) {
	if err := g.ledger.Release(context.WithoutCancel(ctx), claim); err != nil {
		slog.Warn("failed to release idempotency key", "scope", claim.Scope, "error", err.Error())
	}
}

func replay[T any](raw []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errs.Wrap(err, "failed to decode cached idempotent response")
	}
	return &out, nil
}
