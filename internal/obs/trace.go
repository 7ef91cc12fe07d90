package obs

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used for controller runs.
const TracerName = "tradesim/sim"

// Tracer returns the tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartRun opens a span for a controller run and assigns it a run id.
func StartRun(ctx context.Context, tracer trace.Tracer, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span, string) {
	runID := uuid.NewString()
	attrs = append(attrs, attribute.String("run.id", runID))
	ctx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	return ctx, span, runID
}

// EndRun records err on the span, if any, and ends it.
func EndRun(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
