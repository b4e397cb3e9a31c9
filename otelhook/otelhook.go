// Package otelhook reports job executions of a jobmanager.Manager to
// OpenTelemetry. Each job becomes a span and feeds a duration histogram
// and an execution counter.
//
// If no providers are configured globally, the default noop tracer and
// meter are used and the hooks cost almost nothing.
package otelhook

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/azargarov/jobmanager"
)

// instrumentationName is the scope name for spans and instruments.
const instrumentationName = "github.com/azargarov/jobmanager"

// Hooks implements jobmanager.Hooks.
type Hooks struct {
	tracer     trace.Tracer
	duration   metric.Float64Histogram
	executions metric.Int64Counter
}

var _ jobmanager.Hooks = (*Hooks)(nil)

// New returns hooks using the global TracerProvider and MeterProvider.
func New() *Hooks {
	return NewWith(otel.Tracer(instrumentationName), otel.Meter(instrumentationName))
}

// NewWith returns hooks using the provided tracer and meter.
func NewWith(tracer trace.Tracer, meter metric.Meter) *Hooks {
	// On error the API hands back noop instruments.
	duration, _ := meter.Float64Histogram(
		"jobmanager.job.duration",
		metric.WithDescription("Duration of job execution in seconds"),
		metric.WithUnit("s"),
	)
	executions, _ := meter.Int64Counter(
		"jobmanager.job.executions",
		metric.WithDescription("Total number of executed jobs"),
		metric.WithUnit("{execution}"),
	)
	return &Hooks{
		tracer:     tracer,
		duration:   duration,
		executions: executions,
	}
}

func (h *Hooks) StartSection(ctx context.Context, s *jobmanager.Section) context.Context {
	ctx, _ = h.tracer.Start(ctx, "jobmanager.job.execute",
		trace.WithTimestamp(s.Start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("jobmanager.job.id", s.JobID.String()),
			attribute.String("jobmanager.job.name", s.JobName),
			attribute.String("jobmanager.priority", s.Priority.String()),
			attribute.Int("jobmanager.worker", s.Worker),
		),
	)
	return ctx
}

func (h *Hooks) EndSection(ctx context.Context, s *jobmanager.Section) {
	span := trace.SpanFromContext(ctx)
	status := "ok"
	if s.Err != nil {
		status = "error"
		span.RecordError(s.Err)
		span.SetStatus(codes.Error, s.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(s.End))

	attrs := metric.WithAttributes(
		attribute.String("job_name", s.JobName),
		attribute.String("priority", s.Priority.String()),
		attribute.String("status", status),
	)
	h.duration.Record(ctx, s.Duration().Seconds(), attrs)
	h.executions.Add(ctx, 1, attrs)
}
