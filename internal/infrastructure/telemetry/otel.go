package telemetry

import (
	"context"

	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type otelTracer struct{ t trace.Tracer }

// NewTracer returns a Tracer port backed by the global OTel tracer provider.
// Exporter/provider setup (if any) is the deployment's responsibility via
// otel.SetTracerProvider; without it spans are no-ops.
func NewTracer(name string) observability.Tracer {
	if name == "" {
		name = "commerce"
	}
	return &otelTracer{t: otel.Tracer(name)}
}

func (t *otelTracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
