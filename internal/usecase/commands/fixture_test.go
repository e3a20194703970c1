//go:build unit

package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []shared.NotificationJob
}

func (d *recordingDispatcher) Dispatch(job shared.NotificationJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

func (d *recordingDispatcher) Jobs() []shared.NotificationJob {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]shared.NotificationJob(nil), d.jobs...)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) Observe(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[operation+"/"+outcome]++
}

func (r *countingRecorder) Count(operation, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[operation+"/"+outcome]
}

// storeViews renders read models straight from the in-memory store.
type storeViews struct {
	store *memstore.Store
}

func (v storeViews) List(context.Context, user.Principal, queries.ListAppointmentsInput) (*queries.AppointmentPage, error) {
	return &queries.AppointmentPage{}, nil
}

func (v storeViews) GetByID(ctx context.Context, _ user.Principal, id uuid.UUID) (*queries.AppointmentView, error) {
	return v.GetByIDSystem(ctx, id)
}

func (v storeViews) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	a, ok := v.store.Appointment(id)
	if !ok {
		return nil, queries.ErrAppointmentNotFound
	}
	view := &queries.AppointmentView{
		ID:         a.ID(),
		ClientID:   a.ClientID(),
		StaffID:    a.StaffID(),
		ComboID:    a.ComboID(),
		StartAt:    a.StartAt(),
		EndAt:      a.EndAt(),
		Status:     a.Status().String(),
		Notes:      a.Notes().String(),
		TotalCents: a.TotalCents(),
		CreatedAt:  a.CreatedAt(),
		UpdatedAt:  a.UpdatedAt(),
	}
	for _, s := range a.Services() {
		view.Services = append(view.Services, queries.AppointmentServiceView{
			ServiceID:   s.ServiceID,
			Name:        s.Name,
			Position:    s.Position,
			DurationMin: s.DurationMin,
			PriceCents:  s.PriceCents,
		})
	}
	return view, nil
}

type storePayments struct {
	store *memstore.Store
}

func (p storePayments) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	pay, ok := p.store.PaymentByID(id)
	if !ok {
		return nil, queries.ErrPaymentNotFound
	}
	return &queries.PaymentView{
		ID:            pay.ID(),
		AppointmentID: pay.AppointmentID(),
		AmountCents:   pay.AmountCents(),
		Method:        string(pay.Method()),
		Status:        string(pay.Status()),
		Notes:         pay.Notes(),
		CreatedAt:     pay.CreatedAt(),
	}, nil
}

type bookingFixture struct {
	store      *memstore.Store
	clock      *clock.MockClock
	dispatcher *recordingDispatcher
	recorder   *countingRecorder
	cfg        config.BookingConfig

	appointments AppointmentCommands
	payments     PaymentCommands

	staffID      uuid.UUID
	otherStaffID uuid.UUID
	haircut      uuid.UUID
	color        uuid.UUID
	combo        uuid.UUID
}

// nextMonday10 is inside S1's Monday 09:00-18:00 window.
var nextMonday10 = time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		store:        memstore.New(),
		clock:        clock.NewMockClock(time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)),
		dispatcher:   &recordingDispatcher{},
		recorder:     &countingRecorder{},
		cfg:          config.NewTestConfig().Booking,
		staffID:      uuid.New(),
		otherStaffID: uuid.New(),
		haircut:      uuid.New(),
		color:        uuid.New(),
		combo:        uuid.New(),
	}

	mon, err := schedule.NewDayWindow(int(time.Monday), true, 9*60, 18*60)
	require.NoError(t, err)
	weekly, err := schedule.NewWeeklySchedule([]schedule.DayWindow{mon})
	require.NoError(t, err)

	f.store.AddStaff(schedule.Staff{ID: f.staffID, Name: "S1", Active: true, Schedule: weekly})
	f.store.AddStaff(schedule.Staff{ID: f.otherStaffID, Name: "S2", Active: true, Schedule: weekly})
	f.store.AddService(catalog.Service{ID: f.haircut, Name: "haircut", DurationMin: 60, PriceCents: 2500, Active: true})
	f.store.AddService(catalog.Service{ID: f.color, Name: "color", DurationMin: 30, PriceCents: 7500, Active: true})
	f.store.AddCombo(catalog.Combo{
		ID: f.combo, Name: "cut+color", PriceCents: 8000, Active: true,
		ServiceIDs: []uuid.UUID{f.haircut, f.color},
	})

	views := storeViews{store: f.store}
	f.appointments = NewAppointmentCommands(
		f.store, f.store.Ledger(), views, f.dispatcher,
		appointment.NewFactory(f.clock), f.clock, f.cfg, time.UTC, f.recorder,
	)
	f.payments = NewPaymentCommands(
		f.store, f.store.Ledger(), storePayments{store: f.store}, f.clock, f.cfg, f.recorder,
	)
	return f
}

func (f *bookingFixture) createInput(key string) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientName:     "Jane Doe",
		ClientEmail:    "Jane@Example.com",
		ClientPhone:    "+593 99 123 4567",
		StaffID:        f.staffID,
		ServiceIDs:     []uuid.UUID{f.haircut},
		StartAt:        nextMonday10,
		Notes:          "first visit",
		IdempotencyKey: key,
	}
}

// seedAppointment stores an appointment directly, bypassing the commands.
func (f *bookingFixture) seedAppointment(t *testing.T, staffID, clientID uuid.UUID, start time.Time, status appointment.Status) *appointment.Appointment {
	t.Helper()
	slot, err := schedule.NewInterval(start, start.Add(time.Hour))
	require.NoError(t, err)
	a := appointment.ReconstructAppointment(
		uuid.New(), clientID, staffID, nil, slot, status, appointment.Notes{},
		idempotency.Key(uuid.NewString()),
		[]appointment.ServiceSnapshot{{ServiceID: f.haircut, Name: "haircut", DurationMin: 60, PriceCents: 2500}},
		f.clock.Now(), f.clock.Now(),
	)
	f.store.AddAppointment(a)
	return a
}

// seedClientFor registers a client row for each appointment's client.
func (f *bookingFixture) seedClientFor(t *testing.T, appts ...*appointment.Appointment) {
	t.Helper()
	for _, a := range appts {
		f.store.AddClient(client.Client{
			ID:              a.ClientID(),
			Name:            "Seeded Client",
			Email:           a.ClientID().String() + "@example.com",
			PhoneCiphertext: "enc:+593991234567",
		})
	}
}

func adminActor() shared.Actor {
	return shared.Actor{Principal: &user.Principal{UserID: uuid.New(), Role: user.RoleAdmin}, IP: "10.0.0.1"}
}

func staffActor(staffID uuid.UUID) shared.Actor {
	return shared.Actor{Principal: &user.Principal{UserID: uuid.New(), Role: user.RoleStaff, StaffID: &staffID}}
}

func clientActor(clientID uuid.UUID) shared.Actor {
	return shared.Actor{Principal: &user.Principal{UserID: uuid.New(), Role: user.RoleClient, ClientID: &clientID}}
}
