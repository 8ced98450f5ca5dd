package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCount        metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	StageDuration       metric.Float64Histogram
	ClassificationCount metric.Int64Counter
	DoctorSearchCount   metric.Int64Counter
	UpstreamCount       metric.Int64Counter
	UpstreamDuration    metric.Float64Histogram
	UpstreamErrors      metric.Int64Counter
	RateLimitWait       metric.Float64Histogram
	StreamClients       metric.Int64UpDownCounter
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
)

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// NewMetrics creates the application instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline.stage.duration",
		metric.WithDescription("Report and medicine pipeline stage duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	classificationCount, err := meter.Int64Counter(
		"pipeline.classification.count",
		metric.WithDescription("Number of report summaries classified, by category"),
	)
	if err != nil {
		return nil, err
	}

	doctorSearchCount, err := meter.Int64Counter(
		"doctor_search.count",
		metric.WithDescription("Number of doctor searches, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	upstreamCount, err := meter.Int64Counter(
		"upstream.request.count",
		metric.WithDescription("Number of calls to external services"),
	)
	if err != nil {
		return nil, err
	}

	upstreamDuration, err := meter.Float64Histogram(
		"upstream.request.duration",
		metric.WithDescription("External service call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	upstreamErrors, err := meter.Int64Counter(
		"upstream.request.errors",
		metric.WithDescription("Number of failed calls to external services"),
	)
	if err != nil {
		return nil, err
	}

	rateLimitWait, err := meter.Float64Histogram(
		"upstream.rate_limit.wait",
		metric.WithDescription("Time spent waiting for an outbound rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	streamClients, err := meter.Int64UpDownCounter(
		"sse.clients.active",
		metric.WithDescription("Number of connected session event streams"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:        requestCount,
		RequestDuration:     requestDuration,
		StageDuration:       stageDuration,
		ClassificationCount: classificationCount,
		DoctorSearchCount:   doctorSearchCount,
		UpstreamCount:       upstreamCount,
		UpstreamDuration:    upstreamDuration,
		UpstreamErrors:      upstreamErrors,
		RateLimitWait:       rateLimitWait,
		StreamClients:       streamClients,
	}, nil
}

// DefaultMetrics returns process-wide metrics bound to the global meter provider.
// Nil if the instruments could not be created.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		metrics, err := InitMetrics()
		if err == nil {
			defaultMetrics = metrics
		}
	})
	return defaultMetrics
}

// RecordRequestMetric records an HTTP request metric
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordStage records the duration of one pipeline stage
func RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	metrics := DefaultMetrics()
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.stage", stage),
		attribute.Bool("error", err != nil),
	}
	metrics.StageDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordClassification counts a classified summary
func RecordClassification(ctx context.Context, category string) {
	metrics := DefaultMetrics()
	if metrics == nil {
		return
	}
	metrics.ClassificationCount.Add(ctx, 1, metric.WithAttributes(attribute.String("disease.category", category)))
}

// RecordDoctorSearch counts a finished doctor search
func RecordDoctorSearch(ctx context.Context, specialty, status string) {
	metrics := DefaultMetrics()
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("doctor.specialty", specialty),
		attribute.String("doctor_search.status", status),
	}
	metrics.DoctorSearchCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordUpstreamCall records one call to an external service
func RecordUpstreamCall(ctx context.Context, service, operation string, duration time.Duration, err error) {
	metrics := DefaultMetrics()
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("upstream.service", service),
		attribute.String("upstream.operation", operation),
	}
	metrics.UpstreamCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.UpstreamDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		metrics.UpstreamErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRateLimitWait records time spent waiting before calling service
func RecordRateLimitWait(ctx context.Context, service string, wait time.Duration) {
	metrics := DefaultMetrics()
	if metrics == nil {
		return
	}
	metrics.RateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attribute.String("upstream.service", service)))
}

// RecordStreamClients adjusts the connected event stream gauge by delta
func RecordStreamClients(ctx context.Context, metrics *Metrics, delta int64) {
	if metrics == nil {
		return
	}
	metrics.StreamClients.Add(ctx, delta)
}
