package queries

import (
	"context"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errs.Classed("appointment not found", errs.ErrNotFound)
	ErrAppointmentAccess   = errs.Classed("appointment access denied", errs.ErrForbidden)
	ErrInvalidDate         = errs.Classed("invalid date, expected YYYY-MM-DD", errs.ErrValidation)
)

// AppointmentFilter is the storage-level listing filter. Nil fields are not applied.
type AppointmentFilter struct {
	StaffID    *uuid.UUID
	ClientID   *uuid.UUID
	From       *time.Time
	To         *time.Time
	AfterStart *time.Time
	AfterID    *uuid.UUID
	Limit      int
}

type AppointmentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	List(ctx context.Context, filter AppointmentFilter) ([]AppointmentView, error)
}

type ListAppointmentsInput struct {
	StaffID *uuid.UUID
	Date    string
	Cursor  string
	Limit   int
}

type AppointmentQueries interface {
	List(ctx context.Context, principal user.Principal, in ListAppointmentsInput) (*AppointmentPage, error)
	GetByID(ctx context.Context, principal user.Principal, id uuid.UUID) (*AppointmentView, error)
	// GetByIDSystem skips the ownership check; commands use it to render their results.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	readStore AppointmentReadStore
	loc       *time.Location
}

func NewAppointmentQueries(readStore AppointmentReadStore, loc *time.Location) AppointmentQueries {
	return &appointmentQueriesImpl{
		readStore: readStore,
		loc:       loc,
	}
}

func (q *appointmentQueriesImpl) List(ctx context.Context, principal user.Principal, in ListAppointmentsInput) (*AppointmentPage, error) {
	filter, err := scopeFilter(principal, in.StaffID)
	if err != nil {
		return nil, err
	}

	if in.Date != "" {
		day, err := clock.ParseDate(in.Date, q.loc)
		if err != nil {
			return nil, errs.Wrap(ErrInvalidDate, in.Date)
		}
		from := clock.StartOfDay(day)
		to := from.AddDate(0, 0, 1)
		filter.From = &from
		filter.To = &to
	}

	if in.Cursor != "" {
		afterStart, afterID, err := DecodeAfterCursor(in.Cursor)
		if err != nil {
			return nil, err
		}
		filter.AfterStart = &afterStart
		filter.AfterID = &afterID
	}

	limit := ValidateLimit(in.Limit)
	// one extra row tells whether another page exists
	filter.Limit = limit + 1

	items, err := q.readStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &AppointmentPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		last := page.Items[limit-1]
		page.NextCursor = EncodeAfterCursor(last.StartAt, last.ID)
	}
	return page, nil
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, principal user.Principal, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	owners := appointment.Owners{StaffID: view.StaffID, ClientID: view.ClientID}
	if !appointment.Allowed(principal, appointment.ActionView, owners) {
		return nil, ErrAppointmentAccess
	}
	return view, nil
}

func (q *appointmentQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return view, nil
}

// scopeFilter narrows a listing to what the principal may see: ADMIN sees
// everything, STAFF their own column, CLIENT their own bookings.
func scopeFilter(principal user.Principal, staffID *uuid.UUID) (AppointmentFilter, error) {
	switch principal.Role {
	case user.RoleAdmin:
		return AppointmentFilter{StaffID: staffID}, nil
	case user.RoleStaff:
		if principal.StaffID == nil {
			return AppointmentFilter{}, ErrAppointmentAccess
		}
		if staffID != nil && *staffID != *principal.StaffID {
			return AppointmentFilter{}, ErrAppointmentAccess
		}
		own := *principal.StaffID
		return AppointmentFilter{StaffID: &own}, nil
	case user.RoleClient:
		if principal.ClientID == nil {
			return AppointmentFilter{}, ErrAppointmentAccess
		}
		own := *principal.ClientID
		return AppointmentFilter{StaffID: staffID, ClientID: &own}, nil
	default:
		return AppointmentFilter{}, ErrAppointmentAccess
	}
}
