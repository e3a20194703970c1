package components

import (
	"salon-booking/internal/infra/notify"
	"salon-booking/internal/infra/readstore"
	"salon-booking/internal/infra/repository"
	sqlc "salon-booking/internal/infra/sqlc/generated"
	"salon-booking/internal/infra/uow"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/crypto"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
	fx.Annotate(
		NewCipher,
		fx.As(new(shared.Cipher)),
	),
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Appointment
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.AppointmentReadQueries)),
		),
		fx.Annotate(
			readstore.NewAppointmentReadStore,
			fx.As(new(queries.AppointmentReadStore)),
		),
		// Payment
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.PaymentReadQueries)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
		// User
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		NewUnitOfWork,
		// Idempotency ledger runs on the pool, outside business transactions
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.IdempotencyQueries)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(shared.IdempotencyLedger)),
		),
		// Notification outbox delivery state
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.NotificationWriteQueries)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(notify.JobStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

func NewCipher(cfg config.Config) (*crypto.Cipher, error) {
	return crypto.NewCipher(cfg.Encryption.Secret)
}

func NewUnitOfWork(pool *pgxpool.Pool, q *sqlc.Queries, cipher shared.Cipher, cfg config.Config) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, q, cipher, cfg.Booking.TransactionTimeout)
}
