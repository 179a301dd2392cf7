// Package metrics holds the OpenTelemetry instruments recorded by the Lark
// client and the event dispatcher. Instruments are created from the global
// meter provider unless one is supplied, so they stay no-ops until the process
// installs an exporter.
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const instrumentationName = "openlark"

// Instruments groups the counters and histograms emitted by this module.
type Instruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	events   metric.Int64Counter
}

// New creates the instruments from the given meter provider.
func New(mp metric.MeterProvider) (*Instruments, error) {
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("lark.client.requests",
		metric.WithDescription("Number of requests sent to the Lark Open Platform"))
	if err != nil {
		return nil, fmt.Errorf("could not create requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("lark.client.request.duration",
		metric.WithDescription("Latency of requests sent to the Lark Open Platform"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	events, err := meter.Int64Counter("lark.event.received",
		metric.WithDescription("Number of event callbacks received"))
	if err != nil {
		return nil, fmt.Errorf("could not create events counter: %w", err)
	}

	return &Instruments{requests: requests, duration: duration, events: events}, nil
}

var (
	defaultOnce        sync.Once    //nolint: gochecknoglobals
	defaultInstruments *Instruments //nolint: gochecknoglobals
)

// Default returns instruments bound to the global meter provider. The global
// provider delegates, so instruments created before otel.SetMeterProvider
// still report once a real provider is installed.
func Default() *Instruments {
	defaultOnce.Do(func() {
		ins, err := New(otel.GetMeterProvider())
		if err != nil {
			otel.Handle(err)
			ins = &Instruments{}
		}
		defaultInstruments = ins
	})

	return defaultInstruments
}

// RecordRequest records one completed API call. path should be the URL
// template, not the resolved path, to keep cardinality bounded.
func (i *Instruments) RecordRequest(ctx context.Context, method, path string, status, code int, elapsed time.Duration) {
	if i == nil || i.requests == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("lark.path", path),
		attribute.String("http.status_code", strconv.Itoa(status)),
		attribute.Int("lark.code", code),
	)
	i.requests.Add(ctx, 1, attrs)
	i.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordEvent records one received event callback and how it was handled.
func (i *Instruments) RecordEvent(ctx context.Context, eventType, outcome string) {
	if i == nil || i.events == nil {
		return
	}
	i.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("lark.event_type", eventType),
		attribute.String("outcome", outcome),
	))
}
