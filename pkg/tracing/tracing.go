// Package tracing installs the OpenTelemetry tracer provider that records
// webhook deliveries.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// NewProvider returns the tracer provider described by cfg, or nil when
// tracing is disabled. The stdout exporter writes to w.
func NewProvider(ctx context.Context, cfg *config.Config, w io.Writer) (*sdktrace.TracerProvider, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch cfg.Tracing.Exporter {
	case "":
		return nil, nil
	case "stdout":
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case "otlp":
		var opts []otlptracehttp.Option
		if cfg.Tracing.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Tracing.Endpoint))
		}
		if cfg.Tracing.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", cfg.Tracing.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", cfg.Tracing.Exporter, err)
	}

	v := version.Version
	if v == "" {
		v = "dev"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "taskmill"),
		attribute.String("service.version", v),
		attribute.String("service.instance.id", cfg.Name),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRatio))),
	), nil
}

// Install makes the configured provider the global one. The returned func
// flushes pending spans; it is a no-op when tracing is disabled.
func Install(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	tp, err := NewProvider(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return func(context.Context) error { return nil }, nil
	}

	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
