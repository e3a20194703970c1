package readstore

import (
	"context"

	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingReadQueries interface {
	GetStaffByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Staff, error)
	ListStaffSchedules(ctx context.Context, db sqlc.DBTX, staffID uuid.UUID) ([]sqlc.StaffSchedules, error)
	ListServicesByIDs(ctx context.Context, db sqlc.DBTX, dollar_1 []uuid.UUID) ([]sqlc.Services, error)
	GetComboByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Combos, error)
	ListComboServiceIDs(ctx context.Context, db sqlc.DBTX, comboID uuid.UUID) ([]uuid.UUID, error)
	GetClientByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Clients, error)
	ListActiveAppointmentIntervals(ctx context.Context, db sqlc.DBTX, arg sqlc.ListActiveAppointmentIntervalsParams) ([]sqlc.ListActiveAppointmentIntervalsRow, error)
}

// BookingReadStore serves the reads a booking command validates against:
// staff schedules, catalog entries and busy intervals. It implements
// shared.CommandReads for whatever DBTX it is bound to.
type BookingReadStore struct {
	queries BookingReadQueries
	db      sqlc.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db sqlc.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) StaffWithSchedule(ctx context.Context, staffID uuid.UUID) (*schedule.Staff, error) {
	row, err := r.queries.GetStaffByID(ctx, r.db, staffID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("staff not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find staff", err)
	}

	rows, err := r.queries.ListStaffSchedules(ctx, r.db, staffID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list staff schedules", err)
	}

	windows := make([]schedule.DayWindow, 0, len(rows))
	for _, s := range rows {
		w, err := schedule.NewDayWindow(int(s.DayOfWeek), s.IsAvailable, int(s.StartMinute), int(s.EndMinute))
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt staff schedule row", err, infra.KindDBFailure)
		}
		windows = append(windows, w)
	}
	weekly, err := schedule.NewWeeklySchedule(windows)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt staff schedule", err, infra.KindDBFailure)
	}

	return &schedule.Staff{
		ID:       row.ID,
		Name:     row.DisplayName,
		Email:    row.Email,
		Active:   row.IsActive,
		Schedule: weekly,
	}, nil
}

// ServicesByIDs returns the services that exist, active or not. Missing ids are
// simply absent from the map.
func (r *BookingReadStore) ServicesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Service, error) {
	out := make(map[uuid.UUID]catalog.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.queries.ListServicesByIDs(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list services", err)
	}
	for _, s := range rows {
		out[s.ID] = catalog.Service{
			ID:          s.ID,
			Name:        s.Name,
			DurationMin: int(s.DurationMin),
			PriceCents:  s.PriceCents,
			Active:      s.IsActive,
		}
	}
	return out, nil
}

func (r *BookingReadStore) ComboByID(ctx context.Context, id uuid.UUID) (*catalog.Combo, error) {
	row, err := r.queries.GetComboByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("combo not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find combo", err)
	}

	serviceIDs, err := r.queries.ListComboServiceIDs(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list combo services", err)
	}

	return &catalog.Combo{
		ID:         row.ID,
		Name:       row.Name,
		PriceCents: row.PriceCents,
		Active:     row.IsActive,
		ServiceIDs: serviceIDs,
	}, nil
}

func (r *BookingReadStore) ClientByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	row, err := r.queries.GetClientByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find client", err)
	}
	return &client.Client{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		PhoneCiphertext: row.PhoneCiphertext,
	}, nil
}

func (r *BookingReadStore) BusyIntervals(ctx context.Context, staffID uuid.UUID, window schedule.Interval) ([]schedule.Interval, error) {
	rows, err := r.queries.ListActiveAppointmentIntervals(ctx, r.db, sqlc.ListActiveAppointmentIntervalsParams{
		StaffID:    staffID,
		RangeEnd:   pgconv.TimeToPgtype(window.End),
		RangeStart: pgconv.TimeToPgtype(window.Start),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list busy intervals", err)
	}

	loc := window.Start.Location()
	busy := make([]schedule.Interval, 0, len(rows))
	for _, row := range rows {
		busy = append(busy, schedule.Interval{
			Start: row.StartAt.Time.In(loc),
			End:   row.EndAt.Time.In(loc),
		})
	}
	return busy, nil
}
