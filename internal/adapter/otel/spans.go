package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ranforge"

// StartRunSpan starts a span for a workflow run.
func StartRunSpan(ctx context.Context, workflowID, workflow string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "workflow.run",
		trace.WithAttributes(
			attribute.String("workflow.id", workflowID),
			attribute.String("workflow.name", workflow),
		),
	)
}

// StartStageSpan starts a span for a single stage within a run.
func StartStageSpan(ctx context.Context, stage, agent string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "workflow.stage",
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("stage.agent", agent),
		),
	)
}
