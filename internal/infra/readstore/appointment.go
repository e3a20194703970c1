package readstore

import (
	"context"

	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/crypto"
	"salon-booking/internal/pkg/pgconv"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type AppointmentReadQueries interface {
	GetAppointmentView(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetAppointmentViewRow, error)
	ListAppointments(ctx context.Context, db sqlc.DBTX, arg sqlc.ListAppointmentsParams) ([]sqlc.ListAppointmentsRow, error)
	ListAppointmentServices(ctx context.Context, db sqlc.DBTX, appointmentID uuid.UUID) ([]sqlc.AppointmentServices, error)
	ListAppointmentServicesByAppointmentIDs(ctx context.Context, db sqlc.DBTX, dollar_1 []uuid.UUID) ([]sqlc.AppointmentServices, error)
}

type AppointmentReadStore struct {
	queries AppointmentReadQueries
	db      sqlc.DBTX
	cipher  shared.Cipher
}

func NewAppointmentReadStore(queries AppointmentReadQueries, db sqlc.DBTX, cipher shared.Cipher) *AppointmentReadStore {
	return &AppointmentReadStore{
		queries: queries,
		db:      db,
		cipher:  cipher,
	}
}

func (r *AppointmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row, err := r.queries.GetAppointmentView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment", err)
	}

	services, err := r.queries.ListAppointmentServices(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointment services", err)
	}

	view := toAppointmentView(sqlc.ListAppointmentsRow(row), r.maskedPhone(row.ClientPhoneCiphertext))
	view.Services = toServiceViews(services)
	return &view, nil
}

func (r *AppointmentReadStore) List(ctx context.Context, filter queries.AppointmentFilter) ([]queries.AppointmentView, error) {
	rows, err := r.queries.ListAppointments(ctx, r.db, sqlc.ListAppointmentsParams{
		StaffID:    pgconv.UUIDPtrToPgtype(filter.StaffID),
		ClientID:   pgconv.UUIDPtrToPgtype(filter.ClientID),
		FromAt:     pgconv.TimePtrToPgtype(filter.From),
		ToAt:       pgconv.TimePtrToPgtype(filter.To),
		AfterStart: pgconv.TimePtrToPgtype(filter.AfterStart),
		AfterID:    pgconv.UUIDPtrToPgtype(filter.AfterID),
		RowLimit:   int32(filter.Limit), // #nosec G115 -- bounded by queries.MaxListLimit
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	if len(rows) == 0 {
		return []queries.AppointmentView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	services, err := r.queries.ListAppointmentServicesByAppointmentIDs(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointment services", err)
	}
	byAppointment := make(map[uuid.UUID][]sqlc.AppointmentServices, len(rows))
	for _, s := range services {
		byAppointment[s.AppointmentID] = append(byAppointment[s.AppointmentID], s)
	}

	views := make([]queries.AppointmentView, 0, len(rows))
	for _, row := range rows {
		view := toAppointmentView(row, r.maskedPhone(row.ClientPhoneCiphertext))
		view.Services = toServiceViews(byAppointment[row.ID])
		views = append(views, view)
	}
	return views, nil
}

// maskedPhone never fails a read: an undecryptable phone is rendered empty.
func (r *AppointmentReadStore) maskedPhone(ciphertext string) string {
	if ciphertext == "" || r.cipher == nil {
		return ""
	}
	phone, err := r.cipher.Decrypt(ciphertext)
	if err != nil {
		return ""
	}
	return crypto.MaskPhone(phone)
}

func toAppointmentView(row sqlc.ListAppointmentsRow, phone string) queries.AppointmentView {
	return queries.AppointmentView{
		ID:          row.ID,
		ClientID:    row.ClientID,
		ClientName:  row.ClientName,
		ClientEmail: row.ClientEmail,
		ClientPhone: phone,
		StaffID:     row.StaffID,
		StaffName:   row.StaffName,
		ComboID:     pgconv.UUIDPtrFromPgtype(row.ComboID),
		StartAt:     row.StartAt.Time,
		EndAt:       row.EndAt.Time,
		Status:      row.Status,
		Notes:       row.Notes,
		TotalCents:  row.TotalCents,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func toServiceViews(rows []sqlc.AppointmentServices) []queries.AppointmentServiceView {
	out := make([]queries.AppointmentServiceView, 0, len(rows))
	for _, s := range rows {
		out = append(out, queries.AppointmentServiceView{
			ServiceID:   s.ServiceID,
			Name:        s.ServiceName,
			Position:    int(s.Position),
			DurationMin: int(s.DurationMin),
			PriceCents:  s.PriceCents,
		})
	}
	return out
}
