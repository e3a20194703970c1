package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"salon-booking/internal/infra/notify"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/usecase/shared"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewSender,
		NewDispatcher,
		func(d *notify.Dispatcher) shared.NotificationDispatcher { return d },
	),
)

func NewSender(cfg config.Config) (shared.Notifier, error) {
	switch cfg.Notifier.Provider {
	case notify.ProviderSendGrid:
		if cfg.Notifier.APIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return notify.NewSendGridSender(cfg.Notifier), nil
	case notify.ProviderSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Notifier.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.Notifier), nil
	case notify.ProviderLog, "":
		return notify.LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER_PROVIDER %q", cfg.Notifier.Provider)
	}
}

func NewDispatcher(
	lc fx.Lifecycle,
	sender shared.Notifier,
	store notify.JobStore,
	recorder notify.DeliveryRecorder,
	clk clock.Clock,
	cfg config.Config,
) *notify.Dispatcher {
	d := notify.NewDispatcher(sender, store, recorder, clk, cfg.Notifier)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start(ctx)
			slog.Info("notification dispatcher started",
				"provider", cfg.Notifier.Provider, "workers", cfg.Notifier.Workers)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
	return d
}
