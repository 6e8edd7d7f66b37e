package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"surveycli/internal/infrastructure"
)

const (
	TracerName = "surveycli.operations"
)

// OperationTracer instruments runs and dataset cleaning
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer on the given providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	tracer := providers.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}, nil
}

// NoopTracer records nothing
func NoopTracer() *OperationTracer {
	metrics, _ := infrastructure.CreatePipelineMetrics(noop.NewMeterProvider().Meter(TracerName))
	return &OperationTracer{tracer: otel.Tracer(TracerName), metrics: metrics}
}

// TraceRun starts the span covering a whole run
func (ot *OperationTracer) TraceRun(ctx context.Context, runID string, datasets []string) (context.Context, trace.Span) {
	ctx, span := ot.tracer.Start(ctx, "survey.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.StringSlice("run.datasets", datasets),
		),
	)
	ot.metrics.RunsTotal.Add(ctx, 1)
	return ctx, span
}

// RecordRunCompletion closes the run span with its final status
func (ot *OperationTracer) RecordRunCompletion(ctx context.Context, span trace.Span, runID string, duration time.Duration, status RunStatus) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	infrastructure.AddSpanEvent(ctx, "run.completed", map[string]interface{}{
		"run_id":   runID,
		"status":   string(status),
		"duration": duration.Seconds(),
	})
	if status == RunStatusCompleted {
		span.SetStatus(codes.Ok, "run completed")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("run finished with status: %s", status))
	}
	span.End()
}

// TraceDataset starts the span for cleaning one dataset
func (ot *OperationTracer) TraceDataset(ctx context.Context, runID, dataset string, sources int) (context.Context, trace.Span) {
	ctx, span := ot.tracer.Start(ctx, "survey.clean."+dataset,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("dataset.name", dataset),
			attribute.Int("dataset.sources", sources),
		),
	)
	ot.metrics.ActiveDatasets.Add(ctx, 1)
	return ctx, span
}

// RecordDatasetCompletion records metrics for a finished dataset and ends its span
func (ot *OperationTracer) RecordDatasetCompletion(ctx context.Context, span trace.Span, dataset string, res *Result, duration time.Duration, err error) {
	status := string(DatasetStatusCompleted)
	if err != nil {
		status = string(DatasetStatusFailed)
	}
	attrs := metric.WithAttributes(
		attribute.String("dataset", dataset),
		attribute.String("status", status),
	)

	ot.metrics.ActiveDatasets.Add(ctx, -1)
	ot.metrics.DatasetsTotal.Add(ctx, 1, attrs)
	ot.metrics.CleanDuration.Record(ctx, duration.Seconds(), attrs)

	if res != nil {
		ot.metrics.RowsProduced.Add(ctx, int64(res.Table.NumRows()),
			metric.WithAttributes(attribute.String("dataset", dataset)))
		for kind, n := range findingsByKind(res) {
			ot.metrics.FindingsEmitted.Add(ctx, int64(n), metric.WithAttributes(
				attribute.String("dataset", dataset),
				attribute.String("kind", kind),
			))
		}
		span.SetAttributes(
			attribute.Int("dataset.rows", res.Table.NumRows()),
			attribute.Int("dataset.findings", len(res.Findings)),
		)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "dataset cleaned")
	}
	span.End()
}

func findingsByKind(res *Result) map[string]int {
	out := make(map[string]int)
	for _, f := range res.Findings {
		out[string(f.Kind)]++
	}
	return out
}
