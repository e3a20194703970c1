package bootstrap

import (
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/infra/metrics"
	"salon-booking/internal/infra/notify"
	"salon-booking/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewRegistry,
		func(reg *prometheus.Registry) *metrics.Metrics { return metrics.New(reg) },
		func(m *metrics.Metrics) shared.OutcomeRecorder { return m },
		func(m *metrics.Metrics) notify.DeliveryRecorder { return m },
		func(m *metrics.Metrics) middleware.RateLimitRecorder { return m },
	),
)
