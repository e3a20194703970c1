package commands

import (
	"context"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/payment"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const entityPayment = "Payment"

type RecordPaymentInput struct {
	AppointmentID  uuid.UUID `json:"appointment_id"`
	Method         string    `json:"method"`
	Notes          string    `json:"notes"`
	IdempotencyKey string    `json:"-"`
}

type RecordPaymentResult struct {
	Payment    *queries.PaymentView
	IsReplayed bool
}

type PaymentCommands interface {
	Record(ctx context.Context, in RecordPaymentInput, actor shared.Actor) (*RecordPaymentResult, error)
}

type paymentCommandsImpl struct {
	uow            shared.UnitOfWork
	guard          *idempotencyGuard
	paymentQueries queries.PaymentQueries
	clock          clock.Clock
	recorder       shared.OutcomeRecorder
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	ledger shared.IdempotencyLedger,
	paymentQueries queries.PaymentQueries,
	clk clock.Clock,
	cfg config.BookingConfig,
	recorder shared.OutcomeRecorder,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:            uow,
		guard:          newIdempotencyGuard(ledger, clk, cfg.IdempotencyTTL, cfg.IdempotencyLease),
		paymentQueries: paymentQueries,
		clock:          clk,
		recorder:       recorder,
	}
}

// Record stores a manual payment for the full snapshotted price of an
// appointment and confirms it. Amounts are never taken from the caller.
func (p *paymentCommandsImpl) Record(ctx context.Context, in RecordPaymentInput, actor shared.Actor) (res *RecordPaymentResult, err error) {
	ctx, span := tracer.Start(ctx, "PaymentCommands.Record",
		trace.WithAttributes(attribute.String("appointment.id", in.AppointmentID.String())))
	defer func() {
		outcome := "recorded"
		if res != nil && res.IsReplayed {
			outcome = "replayed"
		}
		if err != nil {
			outcome = outcomeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()
		p.recorder.Observe("payment.record", outcome)
	}()

	if actor.Principal == nil {
		return nil, ErrAuthenticationRequired
	}
	principal := *actor.Principal
	if principal.Role != user.RoleAdmin && principal.Role != user.RoleStaff {
		return nil, ErrActionForbidden
	}

	key, err := idempotency.NewKey(in.IdempotencyKey)
	if err != nil {
		return nil, shared.Invalid(err)
	}
	requestHash, err := idempotency.HashRequest(in)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fingerprint request")
	}

	claim, cached, err := p.guard.begin(ctx, idempotency.ScopeRecordPayment, key, requestHash)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		view, err := replay[queries.PaymentView](cached)
		if err != nil {
			return nil, err
		}
		return &RecordPaymentResult{Payment: view, IsReplayed: true}, nil
	}

	completed := false
	defer func() {
		if !completed {
			p.guard.release(ctx, claim)
		}
	}()

	method, err := payment.ParseMethod(in.Method)
	if err != nil {
		return nil, shared.Invalid(err)
	}

	var (
		paymentID uuid.UUID
		replayed  bool
	)
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existingID, err := tx.Payments().FindIDByIdempotencyKey(ctx, key)
		if err == nil {
			paymentID, replayed = existingID, true
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		appt, err := tx.Appointments().FindForUpdate(ctx, in.AppointmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if !appointment.Allowed(principal, appointment.ActionRecordPayment, appt.Owners()) {
			return ErrActionForbidden
		}

		existing, err := tx.Payments().FindByAppointmentID(ctx, appt.ID())
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrPaymentAlreadyRecorded
		}
		if !appt.Status().IsActive() {
			return ErrPaymentInvalidState
		}

		now := p.clock.Now()
		pay, err := payment.NewPayment(appt.ID(), appt.TotalCents(), method, in.Notes, key, now)
		if err != nil {
			return shared.Invalid(err)
		}
		if err := tx.Payments().Create(ctx, pay); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrPaymentAlreadyRecorded
			}
			return err
		}

		previous := appt.Status()
		if err := appt.Confirm(now); err != nil {
			return ErrPaymentInvalidState
		}
		if err := tx.Appointments().UpdateStatus(ctx, appt); err != nil {
			return err
		}

		if err := p.audit(ctx, tx, actor, appt, pay, previous, now); err != nil {
			return err
		}

		paymentID = pay.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := p.paymentQueries.GetByIDSystem(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	p.guard.complete(ctx, claim, view, view.ID)
	completed = true

	return &RecordPaymentResult{Payment: view, IsReplayed: replayed}, nil
}

func (p *paymentCommandsImpl) audit(
	ctx context.Context,
	tx shared.Tx,
	actor shared.Actor,
	appt *appointment.Appointment,
	pay *payment.Payment,
	previous appointment.Status,
	now time.Time,
) error {
	staffID := appt.StaffID()
	err := tx.Audit().Record(ctx, shared.AuditEntry{
		Actor:    actor,
		Action:   shared.AuditCreate,
		Entity:   entityPayment,
		EntityID: pay.ID(),
		StaffID:  &staffID,
		Changes: map[string]any{
			"appointment_id": appt.ID(),
			"amount_cents":   pay.AmountCents(),
			"method":         pay.Method(),
			"status":         pay.Status(),
		},
		At: now,
	})
	if err != nil {
		return err
	}

	if previous == appt.Status() {
		return nil
	}
	return tx.Audit().Record(ctx, shared.AuditEntry{
		Actor:    actor,
		Action:   shared.AuditUpdate,
		Entity:   entityAppointment,
		EntityID: appt.ID(),
		StaffID:  &staffID,
		Changes: map[string]any{
			"status": map[string]any{"from": previous, "to": appt.Status()},
		},
		At: now,
	})
}
