package repository

import (
	"context"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/infra"
	"salon-booking/internal/infra/repository/converter"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AppointmentWriteQueries interface {
	LockStaffForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.LockStaffForUpdateRow, error)
	CreateAppointment(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateAppointmentParams) error
	CreateAppointmentService(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateAppointmentServiceParams) error
	GetAppointmentForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Appointments, error)
	ListAppointmentServices(ctx context.Context, db sqlc.DBTX, appointmentID uuid.UUID) ([]sqlc.AppointmentServices, error)
	UpdateAppointmentStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateAppointmentStatusParams) error
	GetAppointmentIDByIdempotencyKey(ctx context.Context, db sqlc.DBTX, idempotencyKey string) (uuid.UUID, error)
}

type AppointmentRepository struct {
	queries AppointmentWriteQueries
	db      sqlc.DBTX
}

func NewAppointmentRepository(queries AppointmentWriteQueries, db sqlc.DBTX) *AppointmentRepository {
	return &AppointmentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *AppointmentRepository) LockStaff(ctx context.Context, staffID uuid.UUID) (bool, error) {
	row, err := r.queries.LockStaffForUpdate(ctx, r.db, staffID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return false, infra.WrapRepoErr("staff not found", err, infra.KindNotFound)
		}
		return false, infra.WrapRepoErr("failed to lock staff", err)
	}
	return row.IsActive, nil
}

// Create inserts the appointment and its price snapshots. An overlapping
// active booking surfaces as KindConflict from the exclusion constraint.
func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	if err := r.queries.CreateAppointment(ctx, r.db, converter.AppointmentToInfra(a)); err != nil {
		return infra.WrapRepoErr("failed to create appointment", err)
	}
	for _, params := range converter.AppointmentServicesToInfra(a) {
		if err := r.queries.CreateAppointmentService(ctx, r.db, params); err != nil {
			return infra.WrapRepoErr("failed to create appointment service snapshot", err)
		}
	}
	return nil
}

func (r *AppointmentRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	row, err := r.queries.GetAppointmentForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load appointment", err)
	}

	services, err := r.queries.ListAppointmentServices(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load appointment services", err)
	}

	a, err := converter.AppointmentFromInfra(row, services)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt appointment row", err, infra.KindDBFailure)
	}
	return a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	if err := r.queries.UpdateAppointmentStatus(ctx, r.db, converter.AppointmentStatusToInfra(a)); err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	return nil
}

func (r *AppointmentRepository) FindIDByIdempotencyKey(ctx context.Context, key idempotency.Key) (uuid.UUID, error) {
	id, err := r.queries.GetAppointmentIDByIdempotencyKey(ctx, r.db, key.String())
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("appointment not found for idempotency key", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to look up appointment by idempotency key", err)
	}
	return id, nil
}
