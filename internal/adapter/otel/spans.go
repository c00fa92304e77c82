package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "agentmesh"

// StartTaskSpan starts a span for one protocol task invocation.
func StartTaskSpan(ctx context.Context, taskID, capability string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.String("task.capability", capability),
		),
	)
}

// StartStepSpan starts a span for one orchestration plan step.
func StartStepSpan(ctx context.Context, requestID, capability string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "step",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("step.capability", capability),
		),
	)
}
