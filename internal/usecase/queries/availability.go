package queries

import (
	"context"
	"time"

	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrDateInPast = errs.Classed("date must be today or later", errs.ErrValidation)

type AvailabilityInput struct {
	StaffID    uuid.UUID
	Date       string
	ServiceIDs []uuid.UUID
	ComboID    *uuid.UUID
}

type AvailabilityQueries interface {
	ComputeAvailableSlots(ctx context.Context, in AvailabilityInput) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
	loc   *time.Location
}

func NewAvailabilityQueries(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig, loc *time.Location) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:   uow,
		clock: clk,
		cfg:   cfg,
		loc:   loc,
	}
}

// ComputeAvailableSlots lists the free start times of one staff member on one
// local calendar day for the requested services. An empty result always
// carries a reason.
func (q *availabilityQueriesImpl) ComputeAvailableSlots(ctx context.Context, in AvailabilityInput) (*AvailabilityView, error) {
	day, err := clock.ParseDate(in.Date, q.loc)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidDate, in.Date)
	}
	if day.Before(clock.Today(q.clock, q.loc)) {
		return nil, ErrDateInPast
	}

	sel, err := catalog.NewSelection(in.ServiceIDs, in.ComboID, q.cfg.MaxServiceIDs)
	if err != nil {
		return nil, shared.Invalid(err)
	}

	reads := q.uow.CommandReads()
	staff, err := shared.ActiveStaff(ctx, reads, in.StaffID)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		StaffID: staff.ID,
		Date:    day.Format(clock.DateLayout),
		Slots:   []SlotView{},
	}

	// a closed day answers before the catalog is consulted
	window, open := staff.Schedule.For(day.Weekday())
	if !open {
		view.Reason = ReasonStaffUnavailable
		return view, nil
	}

	lines, err := shared.ResolveLines(ctx, reads, sel)
	if err != nil {
		return nil, err
	}
	duration := catalog.TotalDuration(lines)
	view.DurationMin = int(duration / time.Minute)

	dayStart := clock.StartOfDay(day)
	busy, err := reads.BusyIntervals(ctx, staff.ID, schedule.Interval{
		Start: dayStart,
		End:   dayStart.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, err
	}

	slots := schedule.GenerateSlots(schedule.SlotRequest{
		Day:      day,
		Window:   window,
		Duration: duration,
		Step:     q.cfg.SlotStep,
		Busy:     busy,
		Now:      q.clock.Now(),
	})
	for slot := range slots {
		view.Slots = append(view.Slots, SlotView{StartAt: slot.Start, EndAt: slot.End})
	}

	if len(view.Slots) == 0 {
		view.Reason = ReasonFullyBooked
	}
	return view, nil
}
