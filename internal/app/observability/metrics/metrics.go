package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal        metric.Int64Counter
	HTTPRequestDuration      metric.Float64Histogram
	ChatTurnsTotal           metric.Int64Counter
	StreamChunksTotal        metric.Int64Counter
	ItinerariesDetectedTotal metric.Int64Counter
	RefinementsRejectedTotal metric.Int64Counter
	RenderDurationSeconds    metric.Float64Histogram
	DBQueryDurationSeconds   metric.Float64Histogram
	DBQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, against the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("routemethod")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.ChatTurnsTotal, err = meter.Int64Counter(
			"chat_turns_total",
			metric.WithDescription("Total number of chat turns streamed to the model"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_turns_total: %v", err)
		}

		m.StreamChunksTotal, err = meter.Int64Counter(
			"stream_chunks_total",
			metric.WithDescription("Total number of SSE text chunks forwarded to clients"),
			metric.WithUnit("{chunk}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create stream_chunks_total: %v", err)
		}

		m.ItinerariesDetectedTotal, err = meter.Int64Counter(
			"itineraries_detected_total",
			metric.WithDescription("Assistant messages classified as full itineraries"),
			metric.WithUnit("{message}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itineraries_detected_total: %v", err)
		}

		m.RefinementsRejectedTotal, err = meter.Int64Counter(
			"refinements_rejected_total",
			metric.WithDescription("Refinement requests rejected by the session cap"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create refinements_rejected_total: %v", err)
		}

		m.RenderDurationSeconds, err = meter.Float64Histogram(
			"render_duration_seconds",
			metric.WithDescription("Duration of markdown render calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create render_duration_seconds: %v", err)
		}

		m.DBQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of failed database queries"),
			metric.WithUnit("{query}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance; InitAppMetrics must have run.
func Get() *AppMetrics {
	return appMetrics
}
