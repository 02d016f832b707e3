package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
)

// AuthMetrics counts auth events by type. It is an EventEmitter so it can sit
// in a telemetry.Multi next to the log and Kafka emitters.
type AuthMetrics struct {
	events metric.Int64Counter
}

var _ telemetry.EventEmitter = (*AuthMetrics)(nil)

// NewAuthMetrics registers the counters on provider. A nil provider yields no-op instruments.
func NewAuthMetrics(provider metric.MeterProvider) (*AuthMetrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(instrumentationName)
	events, err := meter.Int64Counter("grunzimmer.auth.events",
		metric.WithDescription("Auth events by type and source"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}
	return &AuthMetrics{events: events}, nil
}

func (m *AuthMetrics) Emit(ctx context.Context, event *domain.Event) error {
	if m == nil || event == nil {
		return nil
	}
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.EventType),
		attribute.String("source", event.Source),
	))
	return nil
}
