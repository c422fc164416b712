package forecast

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/hcmaqi/aqidash/internal/forecast"

// Metrics holds instruments for upstream forecast fetches.
type Metrics struct {
	fetchDuration metric.Float64Histogram
	fetchTotal    metric.Int64Counter
}

// NewMetrics creates the forecast fetch instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	fetchDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of forecast provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of forecast provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		fetchDuration: fetchDuration,
		fetchTotal:    fetchTotal,
	}, nil
}

// RecordFetch records one fetch for a station.
func (m *Metrics) RecordFetch(ctx context.Context, stationID int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", ProviderName),
		attribute.Int("station.id", stationID),
		attribute.Bool("error", err != nil),
	}

	// Detached from ctx so a cancelled request still gets counted.
	ctx = context.WithoutCancel(ctx)
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
