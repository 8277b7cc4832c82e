package rte

import (
	"context"

	"github.com/louisbranch/scormrte/internal/platform/telemetry/metrics"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MetricsObserver feeds a metrics collector from completed calls.
type MetricsObserver struct {
	collector *metrics.Collector
}

// NewMetricsObserver wraps collector.
func NewMetricsObserver(collector *metrics.Collector) *MetricsObserver {
	return &MetricsObserver{collector: collector}
}

// ObserveCall implements Observer.
func (o *MetricsObserver) ObserveCall(c Call) {
	version := c.Version.String()
	o.collector.RecordCall(version, string(c.Verb), c.Failed(), c.Code, c.Duration)
	if c.Failed() {
		return
	}
	switch c.Verb {
	case lifecycle.Initialize:
		o.collector.SessionStarted(version)
	case lifecycle.Terminate:
		o.collector.SessionEnded(version)
	}
}

// ObserveReset implements ResetObserver. Resetting a live session ends it.
func (o *MetricsObserver) ObserveReset(_ string, version scorm.Version, prior lifecycle.State) {
	if prior == lifecycle.Initialized {
		o.collector.SessionEnded(version.String())
	}
}

// TracingObserver records one span per call under a parent context.
type TracingObserver struct {
	ctx    context.Context
	tracer trace.Tracer
}

// NewTracingObserver creates spans with tracer as children of ctx.
func NewTracingObserver(ctx context.Context, tracer trace.Tracer) *TracingObserver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TracingObserver{ctx: ctx, tracer: tracer}
}

// ObserveCall implements Observer.
func (o *TracingObserver) ObserveCall(c Call) {
	attrs := []attribute.KeyValue{
		attribute.String("scorm.instance", c.Instance),
		attribute.String("scorm.version", c.Version.String()),
		attribute.String("scorm.verb", string(c.Verb)),
		attribute.String("scorm.result", c.Result),
	}
	if c.Element != "" {
		attrs = append(attrs, attribute.String("scorm.element", c.Element))
	}
	_, span := o.tracer.Start(o.ctx, "scorm."+string(c.Verb),
		trace.WithTimestamp(c.Started),
		trace.WithAttributes(attrs...),
	)
	if c.Failed() {
		span.SetAttributes(
			attribute.String("scorm.error.kind", string(c.Kind)),
			attribute.Int("scorm.error.code", c.Code),
		)
		span.SetStatus(codes.Error, string(c.Kind))
	}
	span.End(trace.WithTimestamp(c.Started.Add(c.Duration)))
}
