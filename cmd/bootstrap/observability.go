package bootstrap

import (
	"context"

	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var ObservabilityModule = fx.Module("observability",
	fx.Provide(
		metrics.NewRegistry,
		NewGatherer,
		NewMetrics,
		NewTracerProvider,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func NewGatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return reg
}

func NewMetrics(reg *prometheus.Registry) *metrics.Metrics {
	m := metrics.New()
	m.Register(reg)
	return m
}

// NewTracerProvider installs the global tracer provider. Spans are only
// exported when TRACE_STDOUT is set; otherwise they are sampled out.
func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.NeverSample())}
	if cfg.Trace.Stdout {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		opts = []sdktrace.TracerProviderOption{
			sdktrace.WithBatcher(exp),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		}
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}
