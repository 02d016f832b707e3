package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
)

func TestNewEventEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewEventEmitter(nil)
	if err := em.Emit(context.Background(), &domain.Event{UserID: "u1"}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestEmit_NilEvent_ReturnsNil(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	if err := NewEventEmitter(provider).Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
}

type recordCapture struct {
	rec otellog.Record
	n   int
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) {
	r.rec = rec
	r.n++
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	capture := &recordCapture{}
	em := &otelEmitter{logger: capture}
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	event := &domain.Event{
		UserID:    "user1",
		SessionID: "sess1",
		EventType: domain.EventOTPVerified,
		Source:    domain.SourceAuthService,
		Metadata:  []byte(`{"provider":"phone"}`),
		CreatedAt: created,
	}
	if err := em.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if capture.n != 1 {
		t.Fatalf("records = %d, want 1", capture.n)
	}
	rec := capture.rec
	if !rec.Timestamp().Equal(created) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), created)
	}
	if rec.EventName() != domain.EventOTPVerified {
		t.Errorf("event name = %q", rec.EventName())
	}
	if got := string(rec.Body().AsBytes()); got != `{"provider":"phone"}` {
		t.Errorf("body = %q", got)
	}
	attrs := map[string]string{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	want := map[string]string{
		"user_id":    "user1",
		"session_id": "sess1",
		"event_type": domain.EventOTPVerified,
		"source":     domain.SourceAuthService,
	}
	if len(attrs) != len(want) {
		t.Errorf("attrs = %v, want %v", attrs, want)
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestAuthMetrics_CountsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewAuthMetrics(mp)
	if err != nil {
		t.Fatalf("NewAuthMetrics: %v", err)
	}
	ctx := context.Background()
	_ = m.Emit(ctx, &domain.Event{EventType: domain.EventOTPSent, Source: domain.SourceAuthService})
	_ = m.Emit(ctx, &domain.Event{EventType: domain.EventOTPSent, Source: domain.SourceAuthService})
	_ = m.Emit(ctx, nil)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "grunzimmer.auth.events" {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("data = %T, want Sum[int64]", md.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Errorf("counted %d events, want 2", total)
	}
}

func TestNewAuthMetrics_NilProvider(t *testing.T) {
	m, err := NewAuthMetrics(nil)
	if err != nil {
		t.Fatalf("NewAuthMetrics(nil): %v", err)
	}
	if err := m.Emit(context.Background(), &domain.Event{EventType: "x"}); err != nil {
		t.Errorf("Emit: %v", err)
	}
}
