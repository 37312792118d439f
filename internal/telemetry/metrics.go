package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/userdir/userdir"

// Tracer returns the named tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Metrics holds the OpenTelemetry metric instruments
type Metrics struct {
	UserOperations metric.Int64Counter
	HTTPRequests   metric.Int64Counter
	HTTPDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments on meter.
func NewMetrics(meter metric.Meter) *Metrics {
	userOperations, _ := meter.Int64Counter("userdir.users.operations",
		metric.WithDescription("User directory operations by outcome"),
		metric.WithUnit("{operation}"),
	)

	httpRequests, _ := meter.Int64Counter("userdir.http.requests",
		metric.WithDescription("Total number of HTTP requests served"),
		metric.WithUnit("{request}"),
	)

	httpDuration, _ := meter.Float64Histogram("userdir.http.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)

	return &Metrics{
		UserOperations: userOperations,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
	}
}

// DefaultMetrics uses the global OpenTelemetry meter
func DefaultMetrics() *Metrics {
	return NewMetrics(otel.Meter(instrumentationName))
}

// RecordOperation counts one user operation with its outcome.
func (m *Metrics) RecordOperation(ctx context.Context, operation, outcome string) {
	if m == nil || m.UserOperations == nil {
		return
	}
	m.UserOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordRequest counts one HTTP request and its latency.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	if m.HTTPRequests != nil {
		m.HTTPRequests.Add(ctx, 1, attrs)
	}
	if m.HTTPDuration != nil {
		m.HTTPDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
	}
}
