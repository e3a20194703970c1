package converter

import (
	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/payment"
	"salon-booking/internal/domain/schedule"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/pgconv"
)

func AppointmentToInfra(a *appointment.Appointment) sqlc.CreateAppointmentParams {
	return sqlc.CreateAppointmentParams{
		ID:             a.ID(),
		ClientID:       a.ClientID(),
		StaffID:        a.StaffID(),
		ComboID:        pgconv.UUIDPtrToPgtype(a.ComboID()),
		StartAt:        pgconv.TimeToPgtype(a.StartAt()),
		EndAt:          pgconv.TimeToPgtype(a.EndAt()),
		Status:         a.Status().String(),
		Notes:          a.Notes().String(),
		IdempotencyKey: a.IdempotencyKey().String(),
		CreatedAt:      pgconv.TimeToPgtype(a.CreatedAt()),
		UpdatedAt:      pgconv.TimeToPgtype(a.UpdatedAt()),
	}
}

func AppointmentServicesToInfra(a *appointment.Appointment) []sqlc.CreateAppointmentServiceParams {
	services := a.Services()
	params := make([]sqlc.CreateAppointmentServiceParams, 0, len(services))
	for _, s := range services {
		params = append(params, sqlc.CreateAppointmentServiceParams{
			AppointmentID: a.ID(),
			Position:      int32(s.Position), // #nosec G115 -- bounded by the max service count
			ServiceID:     s.ServiceID,
			ServiceName:   s.Name,
			DurationMin:   int32(s.DurationMin), // #nosec G115
			PriceCents:    s.PriceCents,
		})
	}
	return params
}

func AppointmentStatusToInfra(a *appointment.Appointment) sqlc.UpdateAppointmentStatusParams {
	return sqlc.UpdateAppointmentStatusParams{
		ID:        a.ID(),
		Status:    a.Status().String(),
		Notes:     a.Notes().String(),
		UpdatedAt: pgconv.TimeToPgtype(a.UpdatedAt()),
	}
}

func AppointmentFromInfra(row sqlc.Appointments, services []sqlc.AppointmentServices) (*appointment.Appointment, error) {
	status, err := appointment.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	slot, err := schedule.NewInterval(row.StartAt.Time, row.EndAt.Time)
	if err != nil {
		return nil, err
	}

	snapshots := make([]appointment.ServiceSnapshot, 0, len(services))
	for _, s := range services {
		snapshots = append(snapshots, appointment.ServiceSnapshot{
			ServiceID:   s.ServiceID,
			Name:        s.ServiceName,
			Position:    int(s.Position),
			DurationMin: int(s.DurationMin),
			PriceCents:  s.PriceCents,
		})
	}

	return appointment.ReconstructAppointment(
		row.ID,
		row.ClientID,
		row.StaffID,
		pgconv.UUIDPtrFromPgtype(row.ComboID),
		slot,
		status,
		appointment.ReconstructNotes(row.Notes),
		idempotency.Key(row.IdempotencyKey),
		snapshots,
		row.CreatedAt.Time,
		row.UpdatedAt.Time,
	), nil
}

func PaymentToInfra(p *payment.Payment) sqlc.CreatePaymentParams {
	return sqlc.CreatePaymentParams{
		ID:             p.ID(),
		AppointmentID:  p.AppointmentID(),
		AmountCents:    p.AmountCents(),
		Method:         string(p.Method()),
		Status:         string(p.Status()),
		Notes:          p.Notes(),
		IdempotencyKey: p.IdempotencyKey().String(),
		CreatedAt:      pgconv.TimeToPgtype(p.CreatedAt()),
	}
}

func PaymentFromInfra(row sqlc.Payments) *payment.Payment {
	return payment.ReconstructPayment(
		row.ID,
		row.AppointmentID,
		row.AmountCents,
		payment.Method(row.Method),
		payment.Status(row.Status),
		row.Notes,
		idempotency.Key(row.IdempotencyKey),
		row.CreatedAt.Time,
	)
}
