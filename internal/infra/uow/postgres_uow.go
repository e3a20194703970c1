package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"salon-booking/internal/infra/readstore"
	"salon-booking/internal/infra/repository"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// ErrTransactionTimeout is returned when a write transaction outlives BOOKING_TX_TIMEOUT.
// Everything it did has been rolled back.
var ErrTransactionTimeout = errs.Classed("transaction timed out", errs.ErrInternal)

// beginner is the part of *pgxpool.Pool the unit of work needs.
type beginner interface {
	sqlc.DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresUoW struct {
	pool      beginner
	q         *sqlc.Queries
	cipher    shared.Cipher
	txTimeout time.Duration
	retry     retryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries, cipher shared.Cipher, txTimeout time.Duration) shared.UnitOfWork {
	return newPostgresUoW(pool, q, cipher, txTimeout)
}

func newPostgresUoW(pool beginner, q *sqlc.Queries, cipher shared.Cipher, txTimeout time.Duration) *PostgresUoW {
	return &PostgresUoW{
		pool:      pool,
		q:         q,
		cipher:    cipher,
		txTimeout: txTimeout,
		retry:     defaultRetry,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes.
// Booking writes serialise on the staff row lock, not on the isolation level.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.txTimeout)
		defer cancel()
	}

	err := u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Wrap(ErrTransactionTimeout, err.Error())
	}
	return err
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return readstore.NewBookingReadStore(u.q, u.pool)
}

// retryPolicy bounds how often a write transaction is replayed after a
// serialization failure or deadlock.
type retryPolicy struct {
	attempts int
	base     time.Duration
	ceiling  time.Duration
}

var defaultRetry = retryPolicy{attempts: 4, base: 100 * time.Millisecond, ceiling: time.Second}

// backoff doubles per attempt up to the ceiling and adds up to 20% jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	wait := min(p.base<<attempt, p.ceiling)
	return wait + rand.N(wait/5+1)
}

// Each attempt finishes its own tx before the next begins, so no defers pile up.
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	var err error
	for attempt := range u.retry.attempts {
		if attempt > 0 {
			wait := u.retry.backoff(attempt - 1)
			slog.Warn("retrying transaction",
				"attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err.Error())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err = u.attempt(ctx, options, fn)
		if err == nil || !isRetryableError(err) {
			return err
		}
	}

	slog.Error("transaction failed after max retries", "attempts", u.retry.attempts, "error", err.Error())
	return errs.Mark(err, errMaxRetriesExceeded)
}

func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	// rollback must run even when ctx is already done
	if rbErr := pgxTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rbErr.Error())
	}
	return err
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	appointmentRepo  shared.AppointmentRepository
	paymentRepo      shared.PaymentRepository
	clientRepo       shared.ClientRepository
	auditRepo        shared.AuditSink
	notificationRepo shared.NotificationRepository
	userRepo         shared.UserRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() sqlc.DBTX {
	return t.dbtx
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointmentRepo == nil {
		t.appointmentRepo = repository.NewAppointmentRepository(t.uow.q, t.dbtx)
	}
	return t.appointmentRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.uow.q, t.dbtx)
	}
	return t.paymentRepo
}

func (t *pgTx) Clients() shared.ClientRepository {
	if t.clientRepo == nil {
		t.clientRepo = repository.NewClientRepository(t.uow.q, t.dbtx, t.uow.cipher)
	}
	return t.clientRepo
}

func (t *pgTx) Audit() shared.AuditSink {
	if t.auditRepo == nil {
		t.auditRepo = repository.NewAuditRepository(t.uow.q, t.dbtx)
	}
	return t.auditRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.uow.q, t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.uow.q, t.dbtx)
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = readstore.NewBookingReadStore(t.uow.q, t.dbtx)
	}
	return t.commandReads
}
