package observability

import (
	"context"

	"github.com/clipfuellabs/clipfuel/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Tracing owns the process tracer provider. Consumers that create spans
// depend on it so the global provider is installed before they start.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// Enabled reports whether spans are exported anywhere.
func (t *Tracing) Enabled() bool {
	return t != nil && t.provider != nil
}

func NewTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*Tracing, error) {
	provider, err := newTracerProvider(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		log.Info("trace collector not configured, span export disabled")
		return &Tracing{}, nil
	}

	otel.SetTracerProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})

	log.Info("trace export enabled", zap.String("otlp_endpoint", cfg.OTLPEndpoint))
	return &Tracing{provider: provider}, nil
}

// newTracerProvider builds an OTLP/HTTP-exporting provider, or nil when no
// collector endpoint is configured.
func newTracerProvider(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	if cfg.OTLPEndpoint == "" {
		return nil, nil
	}

	client := otlptracehttp.NewClient(
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.AppName),
		attribute.String("deployment.environment", cfg.AppEnv),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	), nil
}
