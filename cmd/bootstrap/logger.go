package bootstrap

import (
	"log/slog"

	"booking-reconciler/internal/handler/middleware"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
		clock.NewRealClock,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
