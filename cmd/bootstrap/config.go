package bootstrap

import (
	"time"

	"salon-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		NewLocation,
	),
)

// NewLocation is the salon's local time zone used for days, schedules and slots.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
