package commands

import (
	"context"
	"errors"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("salon-booking/internal/usecase/commands")

const entityAppointment = "Appointment"

type CreateAppointmentInput struct {
	ClientName     string      `json:"client_name"`
	ClientEmail    string      `json:"client_email"`
	ClientPhone    string      `json:"client_phone"`
	StaffID        uuid.UUID   `json:"staff_id"`
	ServiceIDs     []uuid.UUID `json:"service_ids"`
	ComboID        *uuid.UUID  `json:"combo_id"`
	StartAt        time.Time   `json:"start_at"`
	Notes          string      `json:"notes"`
	IdempotencyKey string      `json:"-"`
}

type CreateAppointmentResult struct {
	Appointment *queries.AppointmentView
	IsReplayed  bool
}

type AppointmentCommands interface {
	Create(ctx context.Context, in CreateAppointmentInput, actor shared.Actor) (*CreateAppointmentResult, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, actor shared.Actor, reason string) (*queries.AppointmentView, error)
}

type appointmentCommandsImpl struct {
	uow                shared.UnitOfWork
	guard              *idempotencyGuard
	appointmentQueries queries.AppointmentQueries
	dispatcher         shared.NotificationDispatcher
	factory            *appointment.Factory
	clock              clock.Clock
	cfg                config.BookingConfig
	loc                *time.Location
	recorder           shared.OutcomeRecorder
}

func NewAppointmentCommands(
	uow shared.UnitOfWork,
	ledger shared.IdempotencyLedger,
	appointmentQueries queries.AppointmentQueries,
	dispatcher shared.NotificationDispatcher,
	factory *appointment.Factory,
	clk clock.Clock,
	cfg config.BookingConfig,
	loc *time.Location,
	recorder shared.OutcomeRecorder,
) AppointmentCommands {
	return &appointmentCommandsImpl{
		uow:                uow,
		guard:              newIdempotencyGuard(ledger, clk, cfg.IdempotencyTTL, cfg.IdempotencyLease),
		appointmentQueries: appointmentQueries,
		dispatcher:         dispatcher,
		factory:            factory,
		clock:              clk,
		cfg:                cfg,
		loc:                loc,
		recorder:           recorder,
	}
}

type createDraft struct {
	contact   client.Contact
	selection catalog.Selection
	notes     appointment.Notes
	staffID   uuid.UUID
	startAt   time.Time
	key       idempotency.Key
}

type createOutcome struct {
	appointmentID uuid.UUID
	job           *shared.NotificationJob
	// replayed: the appointment was committed by an earlier attempt whose ledger entry was lost
	replayed bool
}

func (c *appointmentCommandsImpl) Create(ctx context.Context, in CreateAppointmentInput, actor shared.Actor) (res *CreateAppointmentResult, err error) {
	ctx, span := tracer.Start(ctx, "AppointmentCommands.Create",
		trace.WithAttributes(attribute.String("staff.id", in.StaffID.String())))
	defer func() {
		success := "created"
		if res != nil && res.IsReplayed {
			success = "replayed"
		}
		c.finish(span, "appointment.create", success, err)
	}()

	key, err := idempotency.NewKey(in.IdempotencyKey)
	if err != nil {
		return nil, shared.Invalid(err)
	}
	requestHash, err := idempotency.HashRequest(in)
	if err != nil {
		return nil, errs.Wrap(err, "failed to fingerprint request")
	}

	claim, cached, err := c.guard.begin(ctx, idempotency.ScopeCreateAppointment, key, requestHash)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		view, err := replay[queries.AppointmentView](cached)
		if err != nil {
			return nil, err
		}
		return &CreateAppointmentResult{Appointment: view, IsReplayed: true}, nil
	}

	completed := false
	defer func() {
		if !completed {
			c.guard.release(ctx, claim)
		}
	}()

	draft, err := c.validateCreate(ctx, in, key)
	if err != nil {
		return nil, err
	}

	outcome, err := c.createInTx(ctx, draft, actor)
	if err != nil {
		return nil, err
	}

	if outcome.job != nil {
		c.dispatcher.Dispatch(*outcome.job)
	}

	view, err := c.appointmentQueries.GetByIDSystem(ctx, outcome.appointmentID)
	if err != nil {
		return nil, err
	}

	c.guard.complete(ctx, claim, view, view.ID)
	completed = true

	return &CreateAppointmentResult{Appointment: view, IsReplayed: outcome.replayed}, nil
}

// validateCreate checks the request shape and the catalog as it stands
// before the transaction. The transaction re-checks everything that can change.
func (c *appointmentCommandsImpl) validateCreate(ctx context.Context, in CreateAppointmentInput, key idempotency.Key) (createDraft, error) {
	contact, err := client.NewContact(in.ClientName, in.ClientEmail, in.ClientPhone)
	if err != nil {
		return createDraft{}, shared.Invalid(err)
	}
	selection, err := catalog.NewSelection(in.ServiceIDs, in.ComboID, c.cfg.MaxServiceIDs)
	if err != nil {
		return createDraft{}, shared.Invalid(err)
	}
	notes, err := appointment.NewNotes(in.Notes, c.cfg.NotesMaxLength)
	if err != nil {
		return createDraft{}, shared.Invalid(err)
	}
	if !in.StartAt.After(c.clock.Now()) {
		return createDraft{}, shared.Invalid(appointment.ErrStartInPast)
	}

	reads := c.uow.CommandReads()
	if _, err := shared.ActiveStaff(ctx, reads, in.StaffID); err != nil {
		return createDraft{}, err
	}
	if _, err := shared.ResolveLines(ctx, reads, selection); err != nil {
		return createDraft{}, err
	}

	return createDraft{
		contact:   contact,
		selection: selection,
		notes:     notes,
		staffID:   in.StaffID,
		startAt:   in.StartAt,
		key:       key,
	}, nil
}

func (c *appointmentCommandsImpl) createInTx(ctx context.Context, d createDraft, actor shared.Actor) (createOutcome, error) {
	var out createOutcome

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		out = createOutcome{}

		existingID, err := tx.Appointments().FindIDByIdempotencyKey(ctx, d.key)
		if err == nil {
			out.appointmentID = existingID
			out.replayed = true
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		cl, err := tx.Clients().UpsertByEmail(ctx, d.contact)
		if err != nil {
			return err
		}

		// the staff row lock serialises bookings of one staff member
		active, err := tx.Appointments().LockStaff(ctx, d.staffID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		if !active {
			return ErrStaffNotFound
		}

		reads := tx.Reads()
		staff, err := shared.ActiveStaff(ctx, reads, d.staffID)
		if err != nil {
			return err
		}
		lines, err := shared.ResolveLines(ctx, reads, d.selection)
		if err != nil {
			return err
		}

		appt, err := c.factory.CreateAppointment(appointment.NewAppointmentParams{
			ClientID:       cl.ID,
			StaffID:        d.staffID,
			ComboID:        d.selection.ComboID,
			StartAt:        d.startAt,
			Lines:          lines,
			Notes:          d.notes,
			IdempotencyKey: d.key,
		})
		if err != nil {
			return shared.Invalid(err)
		}

		if err := c.checkConflict(ctx, reads, appt); err != nil {
			return err
		}

		if err := tx.Appointments().Create(ctx, appt); err != nil {
			switch {
			case infra.IsKind(err, infra.KindConflict):
				return ErrBookingConflict
			case infra.IsKind(err, infra.KindDuplicateKey):
				return ErrIdempotencyInProgress
			}
			return err
		}

		err = tx.Audit().Record(ctx, shared.AuditEntry{
			Actor:    actor,
			Action:   shared.AuditCreate,
			Entity:   entityAppointment,
			EntityID: appt.ID(),
			StaffID:  &d.staffID,
			Changes: map[string]any{
				"client_id":   cl.ID,
				"staff_id":    d.staffID,
				"start_at":    appt.StartAt(),
				"end_at":      appt.EndAt(),
				"status":      appt.Status(),
				"total_cents": appt.TotalCents(),
			},
			At: appt.CreatedAt(),
		})
		if err != nil {
			return err
		}

		job := confirmationJob(appt, cl.Email, cl.Name, staff.Name, c.loc, c.clock.Now())
		job.ID, err = tx.Notifications().Enqueue(ctx, job)
		if err != nil {
			return err
		}

		out.appointmentID = appt.ID()
		out.job = &job
		return nil
	})

	return out, err
}

// checkConflict compares appt against the staff member's active bookings on
// the same local day. It runs under the staff lock; the storage exclusion
// constraint backs it up.
func (c *appointmentCommandsImpl) checkConflict(ctx context.Context, reads shared.CommandReads, appt *appointment.Appointment) error {
	dayStart := clock.StartOfDay(appt.StartAt().In(c.loc))
	window := schedule.Interval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}
	if appt.EndAt().After(window.End) {
		window.End = appt.EndAt()
	}

	busy, err := reads.BusyIntervals(ctx, appt.StaffID(), window)
	if err != nil {
		return err
	}
	if schedule.OverlapsAny(appt.Slot(), busy) {
		return ErrBookingConflict
	}
	return nil
}

func (c *appointmentCommandsImpl) Cancel(ctx context.Context, appointmentID uuid.UUID, actor shared.Actor, reason string) (view *queries.AppointmentView, err error) {
	ctx, span := tracer.Start(ctx, "AppointmentCommands.Cancel",
		trace.WithAttributes(attribute.String("appointment.id", appointmentID.String())))
	defer func() { c.finish(span, "appointment.cancel", "cancelled", err) }()

	if actor.Principal == nil {
		return nil, ErrAuthenticationRequired
	}
	principal := *actor.Principal

	var job shared.NotificationJob
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Appointments().FindForUpdate(ctx, appointmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		if !appointment.Allowed(principal, appointment.ActionCancel, appt.Owners()) {
			return ErrActionForbidden
		}

		previous := appt.Status()
		now := c.clock.Now()
		if err := appt.Cancel(reason, c.cfg.ReasonMaxLength, now); err != nil {
			if errors.Is(err, appointment.ErrNotCancellable) {
				return ErrAppointmentNotCancellable
			}
			return shared.Invalid(err)
		}

		if err := tx.Appointments().UpdateStatus(ctx, appt); err != nil {
			return err
		}

		staffID := appt.StaffID()
		err = tx.Audit().Record(ctx, shared.AuditEntry{
			Actor:    actor,
			Action:   shared.AuditUpdate,
			Entity:   entityAppointment,
			EntityID: appt.ID(),
			StaffID:  &staffID,
			Changes: map[string]any{
				"status": map[string]any{"from": previous, "to": appt.Status()},
				"reason": appointment.CancelNote(reason, c.cfg.ReasonMaxLength),
			},
			At: now,
		})
		if err != nil {
			return err
		}

		cl, err := tx.Reads().ClientByID(ctx, appt.ClientID())
		if err != nil {
			return err
		}
		job = cancellationJob(appt, cl.Email, cl.Name, c.loc, now)
		job.ID, err = tx.Notifications().Enqueue(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.dispatcher.Dispatch(job)

	return c.appointmentQueries.GetByIDSystem(ctx, appointmentID)
}

func (c *appointmentCommandsImpl) finish(span trace.Span, operation, success string, err error) {
	outcome := success
	if err != nil {
		outcome = outcomeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()
	c.recorder.Observe(operation, outcome)
}
