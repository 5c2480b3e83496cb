package webhook

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/taskmill/taskmill/pkg/webhook"

// startDeliverySpan starts the span of one delivery attempt.
func startDeliverySpan(ctx context.Context, h Hook, action Action) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "webhook.delivery",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("webhook.id", strconv.FormatInt(h.ID, 10)),
			attribute.String("webhook.action", action.String()),
			attribute.String("server.address", hostnameOf(h.URL)),
		),
	)
}

// endDeliverySpan ends a delivery span with its outcome.
func endDeliverySpan(span trace.Span, res Response, err error) {
	span.SetAttributes(
		attribute.String("webhook.delivery_id", res.DeliveryID),
		attribute.Int64("webhook.duration_ms", res.Duration.Milliseconds()),
	)
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
