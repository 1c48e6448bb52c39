package components

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/infra/notifier"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/usecase/reconcile"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier publishes to Kafka when brokers are configured and falls back
// to log-only notifications otherwise.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) reconcile.Notifier {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("no kafka brokers configured; notifications are logged only")
		return notifier.NewLog(clk, logger)
	}

	writer := notifier.NewKafkaWriter(cfg.Kafka, logger)
	k := notifier.NewKafka(writer, clk, logger, cfg.Kafka.WriteTimeout)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return k.Close()
		},
	})
	logger.Info("kafka notifier configured", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.NotificationTopic)
	return k
}
