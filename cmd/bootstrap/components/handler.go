package components

import (
	"salon-booking/internal/handler"
	"salon-booking/internal/handler/api"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewAppointmentHandler,
		api.NewAvailabilityHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
		middleware.NewRateLimiter,
		NewHandlers,
		NewMiddlewares,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	appointment *api.AppointmentHandler,
	availability *api.AvailabilityHandler,
	payment *api.PaymentHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Appointment:  appointment,
		Availability: availability,
		Payment:      payment,
	}
}

func NewMiddlewares(
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimiter,
	logger *middleware.Logger,
	m *metrics.Metrics,
	reg *prometheus.Registry,
) handler.Middlewares {
	return handler.Middlewares{
		Auth:      auth,
		RateLimit: rateLimit,
		Logger:    logger,
		Metrics:   m,
		Registry:  reg,
	}
}
