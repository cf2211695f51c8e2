package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments for the coverage endpoints.
type Metrics struct {
	resolutions        metric.Int64Counter
	resolutionDuration metric.Float64Histogram
}

// NewMetrics registers the coverage instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("covermap/server")

	resolutions, err := meter.Int64Counter("coverage.resolutions",
		metric.WithDescription("Coverage resolutions by outcome"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("coverage.resolution.duration",
		metric.WithDescription("Coverage resolution duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		resolutions:        resolutions,
		resolutionDuration: duration,
	}, nil
}

func (m *Metrics) recordResolution(ctx context.Context, outcome string, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.resolutions.Add(ctx, 1, attrs)
	m.resolutionDuration.Record(ctx, durationMs, attrs)
}
