// Package memstore is an in-memory UnitOfWork for use-case tests. A write
// transaction works on a copy of the state and swaps it in on success, so a
// failing fn leaves nothing behind. Transactions are serialised.
package memstore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/domain/catalog"
	"salon-booking/internal/domain/client"
	"salon-booking/internal/domain/idempotency"
	"salon-booking/internal/domain/payment"
	"salon-booking/internal/domain/schedule"
	"salon-booking/internal/domain/user"
	"salon-booking/internal/infra"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type state struct {
	staff        map[uuid.UUID]schedule.Staff
	services     map[uuid.UUID]catalog.Service
	combos       map[uuid.UUID]catalog.Combo
	clients      map[string]client.Client
	appointments map[uuid.UUID]appointment.Appointment
	payments     map[uuid.UUID]payment.Payment
	audit        []shared.AuditEntry
	jobs         []shared.NotificationJob
	logins       map[uuid.UUID]int
	users        map[string]user.User
}

func (s *state) clone() *state {
	return &state{
		staff:        maps.Clone(s.staff),
		services:     maps.Clone(s.services),
		combos:       maps.Clone(s.combos),
		clients:      maps.Clone(s.clients),
		appointments: maps.Clone(s.appointments),
		payments:     maps.Clone(s.payments),
		audit:        slices.Clone(s.audit),
		jobs:         slices.Clone(s.jobs),
		logins:       maps.Clone(s.logins),
		users:        maps.Clone(s.users),
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

type Store struct {
	mu  sync.Mutex
	cur *state

	// FailCommit, when set, is returned by the next write transaction after fn succeeded.
	FailCommit error

	ledger *Ledger
}

func New() *Store {
	return &Store{
		cur: &state{
			staff:        map[uuid.UUID]schedule.Staff{},
			services:     map[uuid.UUID]catalog.Service{},
			combos:       map[uuid.UUID]catalog.Combo{},
			clients:      map[string]client.Client{},
			appointments: map[uuid.UUID]appointment.Appointment{},
			payments:     map[uuid.UUID]payment.Payment{},
			logins:       map[uuid.UUID]int{},
			users:        map[string]user.User{},
		},
		ledger: NewLedger(),
	}
}

func (s *Store) Ledger() *Ledger { return s.ledger }

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.cur.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.FailCommit != nil {
		err := s.FailCommit
		s.FailCommit = nil
		return err
	}
	s.cur = work
	return nil
}

// CommandReads outside a transaction sees the last committed state.
func (s *Store) CommandReads() shared.CommandReads {
	return lockedReads{s: s}
}

// seeding and inspection

func (s *Store) AddStaff(st schedule.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.staff[st.ID] = st
}

func (s *Store) AddService(svc catalog.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.services[svc.ID] = svc
}

func (s *Store) AddCombo(c catalog.Combo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.combos[c.ID] = c
}

func (s *Store) AddAppointment(a *appointment.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.appointments[a.ID()] = *a
}

func (s *Store) AddClient(c client.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.clients[strings.ToLower(c.Email)] = c
}

func (s *Store) AddPayment(p *payment.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.payments[p.AppointmentID()] = *p
}

func (s *Store) SetServicePrice(id uuid.UUID, cents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc := s.cur.services[id]
	svc.PriceCents = cents
	s.cur.services[id] = svc
}

func (s *Store) Appointment(id uuid.UUID) (*appointment.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.cur.appointments[id]
	return &a, ok
}

func (s *Store) Appointments() []*appointment.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*appointment.Appointment, 0, len(s.cur.appointments))
	for _, a := range s.cur.appointments {
		out = append(out, &a)
	}
	return out
}

func (s *Store) Payment(appointmentID uuid.UUID) (*payment.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.cur.payments[appointmentID]
	return &p, ok
}

func (s *Store) PaymentByID(id uuid.UUID) (*payment.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.cur.payments {
		if p.ID() == id {
			return &p, true
		}
	}
	return nil, false
}

func (s *Store) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cur.payments)
}

// RemoveClient deletes a committed client record, leaving accounts as they are.
func (s *Store) RemoveClient(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cur.clients, strings.ToLower(email))
}

func (s *Store) Clients() []client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.cur.clients))
}

func (s *Store) AuditEntries() []shared.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cur.audit)
}

func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cur.jobs)
}

// User returns the committed account registered under email.
func (s *Store) User(email string) (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.cur.users[strings.ToLower(email)]
	return u, ok
}

func (s *Store) Logins(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.logins[userID]
}

type lockedReads struct {
	s *Store
}

func (r lockedReads) with() stateReads {
	return stateReads{st: r.s.cur}
}

func (r lockedReads) StaffWithSchedule(ctx context.Context, staffID uuid.UUID) (*schedule.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.with().StaffWithSchedule(ctx, staffID)
}

func (r lockedReads) ServicesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.with().ServicesByIDs(ctx, ids)
}

func (r lockedReads) ComboByID(ctx context.Context, id uuid.UUID) (*catalog.Combo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.with().ComboByID(ctx, id)
}

func (r lockedReads) ClientByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.with().ClientByID(ctx, id)
}

func (r lockedReads) BusyIntervals(ctx context.Context, staffID uuid.UUID, window schedule.Interval) ([]schedule.Interval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.with().BusyIntervals(ctx, staffID, window)
}

type stateReads struct {
	st *state
}

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", pgx.ErrNoRows, infra.KindNotFound)
}

func (r stateReads) StaffWithSchedule(_ context.Context, staffID uuid.UUID) (*schedule.Staff, error) {
	st, ok := r.st.staff[staffID]
	if !ok {
		return nil, notFound("staff")
	}
	return &st, nil
}

func (r stateReads) ServicesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Service, error) {
	out := make(map[uuid.UUID]catalog.Service, len(ids))
	for _, id := range ids {
		if svc, ok := r.st.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (r stateReads) ComboByID(_ context.Context, id uuid.UUID) (*catalog.Combo, error) {
	c, ok := r.st.combos[id]
	if !ok {
		return nil, notFound("combo")
	}
	return &c, nil
}

func (r stateReads) ClientByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	for _, c := range r.st.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, notFound("client")
}

func (r stateReads) BusyIntervals(_ context.Context, staffID uuid.UUID, window schedule.Interval) ([]schedule.Interval, error) {
	var busy []schedule.Interval
	for _, a := range r.st.appointments {
		if a.StaffID() != staffID || !a.Status().IsActive() {
			continue
		}
		if schedule.Overlaps(a.Slot(), window) {
			busy = append(busy, a.Slot())
		}
	}
	return busy, nil
}

type memTx struct {
	st *state
}

func (t *memTx) Appointments() shared.AppointmentRepository   { return appointmentRepo{st: t.st} }
func (t *memTx) Payments() shared.PaymentRepository           { return paymentRepo{st: t.st} }
func (t *memTx) Clients() shared.ClientRepository             { return clientRepo{st: t.st} }
func (t *memTx) Audit() shared.AuditSink                      { return auditSink{st: t.st} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{st: t.st} }
func (t *memTx) Users() shared.UserRepository                 { return userRepo{st: t.st} }
func (t *memTx) Reads() shared.CommandReads                   { return stateReads{st: t.st} }
func (t *memTx) DB() sqlc.DBTX                                { return nil }

type appointmentRepo struct{ st *state }

func (r appointmentRepo) LockStaff(_ context.Context, staffID uuid.UUID) (bool, error) {
	st, ok := r.st.staff[staffID]
	if !ok {
		return false, notFound("staff")
	}
	return st.Active, nil
}

// Create mirrors the storage constraints: unique idempotency key and no
// overlapping active bookings per staff member.
func (r appointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	for _, other := range r.st.appointments {
		if other.IdempotencyKey() == a.IdempotencyKey() {
			return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindDuplicateKey)
		}
		if other.StaffID() == a.StaffID() && other.Status().IsActive() && schedule.Overlaps(other.Slot(), a.Slot()) {
			return infra.WrapRepoErr("overlapping appointment", nil, infra.KindConflict)
		}
	}
	r.st.appointments[a.ID()] = *a
	return nil
}

func (r appointmentRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.st.appointments[id]
	if !ok {
		return nil, notFound("appointment")
	}
	return &a, nil
}

func (r appointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.st.appointments[a.ID()]; !ok {
		return notFound("appointment")
	}
	r.st.appointments[a.ID()] = *a
	return nil
}

func (r appointmentRepo) FindIDByIdempotencyKey(_ context.Context, key idempotency.Key) (uuid.UUID, error) {
	for _, a := range r.st.appointments {
		if a.IdempotencyKey() == key {
			return a.ID(), nil
		}
	}
	return uuid.Nil, notFound("appointment")
}

type paymentRepo struct{ st *state }

func (r paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if _, ok := r.st.payments[p.AppointmentID()]; ok {
		return infra.WrapRepoErr("payment exists", nil, infra.KindDuplicateKey)
	}
	r.st.payments[p.AppointmentID()] = *p
	return nil
}

func (r paymentRepo) FindByAppointmentID(_ context.Context, appointmentID uuid.UUID) (*payment.Payment, error) {
	p, ok := r.st.payments[appointmentID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r paymentRepo) FindIDByIdempotencyKey(_ context.Context, key idempotency.Key) (uuid.UUID, error) {
	for _, p := range r.st.payments {
		if p.IdempotencyKey() == key {
			return p.ID(), nil
		}
	}
	return uuid.Nil, notFound("payment")
}

type clientRepo struct{ st *state }

func (r clientRepo) UpsertByEmail(_ context.Context, contact client.Contact) (*client.Client, error) {
	email := strings.ToLower(contact.Email().Value())
	if c, ok := r.st.clients[email]; ok {
		return &c, nil
	}
	c := client.Client{
		ID:              uuid.New(),
		Name:            contact.Name(),
		Email:           email,
		PhoneCiphertext: "enc:" + contact.Phone(),
	}
	r.st.clients[email] = c
	return &c, nil
}

type auditSink struct{ st *state }

func (a auditSink) Record(_ context.Context, entry shared.AuditEntry) error {
	a.st.audit = append(a.st.audit, entry)
	return nil
}

type notificationRepo struct{ st *state }

func (r notificationRepo) Enqueue(_ context.Context, job shared.NotificationJob) (uuid.UUID, error) {
	job.ID = uuid.New()
	r.st.jobs = append(r.st.jobs, job)
	return job.ID, nil
}

type userRepo struct{ st *state }

func (r userRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	r.st.logins[userID]++
	return nil
}

func (r userRepo) Create(_ context.Context, u *user.User) (uuid.UUID, error) {
	email := u.Email().Value()
	if _, ok := r.st.users[email]; ok {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", nil, infra.KindDuplicateKey)
	}
	r.st.users[email] = *u
	return u.ID(), nil
}
