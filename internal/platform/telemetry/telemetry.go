// Package telemetry wires the process-wide OpenTelemetry tracer and
// meter providers and exposes a small cached-instrument helper for
// recording request counts and latencies, trimmed from the teacher's
// telemetry.OTelProvider/MetricInstruments down to what examforge's
// Service Host actually records (spec.md §5: "structured logging plus
// request counters/latency per action").
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs a process-wide SDK tracer provider for serviceName and
// returns a shutdown func to flush/release it. No exporter is configured
// by default (spec.md's Non-goals exclude an external telemetry
// backend) — spans are recorded by the SDK's in-memory sampler/processor
// chain so C1 transport's spans have a real provider to call into rather
// than the global no-op. Metrics use the package-level metric API
// directly against whatever MeterProvider is registered (the no-op one
// if none is), since examforge ships no metrics exporter either.
func Setup(serviceName string) (shutdown func(context.Context) error) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}
		return nil
	}
}

// Metrics caches the counter/histogram instruments a Host records
// against per request, generalized from MetricInstruments' lazy
// get-or-create cache down to the two instruments examforge needs.
type Metrics struct {
	meter      metric.Meter
	mu         sync.RWMutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

// NewMetrics creates a Metrics bound to the named meter.
func NewMetrics(meterName string) *Metrics {
	return &Metrics{
		meter:      otel.Meter(meterName),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

// RecordRequest increments the named request counter and records its
// latency, tagged with the given action and outcome.
func (m *Metrics) RecordRequest(ctx context.Context, action string, outcome string, elapsedSeconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)

	counter := m.counter("examforge.requests.total")
	counter.Add(ctx, 1, attrs)

	histogram := m.histogram("examforge.requests.duration_seconds")
	histogram.Record(ctx, elapsedSeconds, attrs)
}

func (m *Metrics) counter(name string) metric.Int64Counter {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.counters[name]; ok {
		return c
	}
	c, _ = m.meter.Int64Counter(name)
	m.counters[name] = c
	return c
}

func (m *Metrics) histogram(name string) metric.Float64Histogram {
	m.mu.RLock()
	h, ok := m.histograms[name]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok = m.histograms[name]; ok {
		return h
	}
	h, _ = m.meter.Float64Histogram(name)
	m.histograms[name] = h
	return h
}
