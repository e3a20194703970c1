package components

import (
	"context"

	"salon-booking/internal/domain/appointment"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/password"
	"salon-booking/internal/usecase"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	appointment.NewFactory,
	fx.Annotate(
		func() *password.BcryptHasher { return password.NewBcryptHasher(password.DefaultCost) },
		fx.As(new(password.Hasher)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewAppointmentCommands,
		commands.NewPaymentCommands,
		NewIdempotencySweeper,
	),
	fx.Invoke(func(*commands.IdempotencySweeper) {}),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewAppointmentQueries,
		queries.NewAvailabilityQueries,
		queries.NewPaymentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewIdempotencySweeper(lc fx.Lifecycle, ledger shared.IdempotencyLedger, clk clock.Clock, cfg config.Config) *commands.IdempotencySweeper {
	s := commands.NewIdempotencySweeper(ledger, clk, cfg.Booking.IdempotencySweep)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s
}
