package metrics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/1mb-dev/lrucache-go/pkg/metrics"

// OTelConfig configures the OpenTelemetry exporter
type OTelConfig struct {
	// Meter records the instruments. The global meter provider is used when nil.
	Meter metric.Meter
}

// OTelExporter records cache metrics through an OpenTelemetry meter
type OTelExporter struct {
	meter     metric.Meter
	names     MetricNames
	namespace string
	constant  []attribute.KeyValue
	enabled   bool
	timings   bool

	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	invalidations metric.Int64Counter
	operations    metric.Int64Counter
	lookups       metric.Int64Counter
	duration      metric.Float64Histogram
	keys          metric.Int64Gauge
	hitRate       metric.Float64Gauge

	mu         sync.Mutex
	last       map[attribute.Distinct]statsSnapshot
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
}

// NewOTelExporter creates the cache instruments on the configured meter.
// With config.Enabled false no instruments are created and every call is dropped.
func NewOTelExporter(config *Config, otelConfig *OTelConfig) (*OTelExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}

	var meter metric.Meter
	if otelConfig != nil && otelConfig.Meter != nil {
		meter = otelConfig.Meter
	} else {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	o := &OTelExporter{
		meter:      meter,
		names:      MetricNamesFor(config.Namespace),
		namespace:  config.Namespace,
		constant:   toAttributes(config.Labels),
		enabled:    config.Enabled,
		timings:    config.IncludeDetailedTimings,
		last:       make(map[attribute.Distinct]statsSnapshot),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}

	if !o.enabled {
		return o, nil
	}

	var err error
	if o.hits, err = meter.Int64Counter(o.names.CacheHitsTotal, metric.WithDescription("Total number of cache hits")); err != nil {
		return nil, fmt.Errorf("failed to create hits counter: %w", err)
	}
	if o.misses, err = meter.Int64Counter(o.names.CacheMissesTotal, metric.WithDescription("Total number of cache misses")); err != nil {
		return nil, fmt.Errorf("failed to create misses counter: %w", err)
	}
	if o.evictions, err = meter.Int64Counter(o.names.CacheEvictionsTotal, metric.WithDescription("Total number of LRU evictions")); err != nil {
		return nil, fmt.Errorf("failed to create evictions counter: %w", err)
	}
	if o.invalidations, err = meter.Int64Counter(o.names.CacheInvalidationsTotal, metric.WithDescription("Total number of explicit removals")); err != nil {
		return nil, fmt.Errorf("failed to create invalidations counter: %w", err)
	}
	if o.operations, err = meter.Int64Counter(o.names.CacheOperationsTotal, metric.WithDescription("Total number of cache operations")); err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}
	if o.lookups, err = meter.Int64Counter(o.names.CacheLookupsTotal, metric.WithDescription("Total number of keyed lookups by result")); err != nil {
		return nil, fmt.Errorf("failed to create lookups counter: %w", err)
	}
	if o.duration, err = meter.Float64Histogram(o.names.CacheOperationDuration,
		metric.WithDescription("Cache operation latency"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if o.keys, err = meter.Int64Gauge(o.names.CacheKeysCount, metric.WithDescription("Current number of live entries")); err != nil {
		return nil, fmt.Errorf("failed to create keys gauge: %w", err)
	}
	if o.hitRate, err = meter.Float64Gauge(o.names.CacheHitRate, metric.WithDescription("Hit rate in percent")); err != nil {
		return nil, fmt.Errorf("failed to create hit rate gauge: %w", err)
	}

	return o, nil
}

func toAttributes(labels Labels) []attribute.KeyValue {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, labels[k]))
	}
	return attrs
}

func (o *OTelExporter) attributes(labels Labels, extra ...attribute.KeyValue) attribute.Set {
	attrs := append(append(append([]attribute.KeyValue{}, o.constant...), toAttributes(labels)...), extra...)
	return attribute.NewSet(attrs...)
}

// ExportStats converts cumulative stats into counter increments and gauge values
func (o *OTelExporter) ExportStats(stats Stats, labels Labels) error {
	if !o.enabled {
		return nil
	}
	ctx := context.Background()
	set := o.attributes(labels)
	opt := metric.WithAttributeSet(set)

	// Snapshot under the lock so concurrent exports of one series apply in order
	o.mu.Lock()
	defer o.mu.Unlock()

	current := statsSnapshot{
		hits:          stats.Hits(),
		misses:        stats.Misses(),
		evictions:     stats.Evictions(),
		invalidations: stats.Invalidations(),
	}
	prev := o.last[set.Equivalent()]
	o.last[set.Equivalent()] = current

	if d := current.hits - prev.hits; d > 0 {
		o.hits.Add(ctx, d, opt)
	}
	if d := current.misses - prev.misses; d > 0 {
		o.misses.Add(ctx, d, opt)
	}
	if d := current.evictions - prev.evictions; d > 0 {
		o.evictions.Add(ctx, d, opt)
	}
	if d := current.invalidations - prev.invalidations; d > 0 {
		o.invalidations.Add(ctx, d, opt)
	}

	o.keys.Record(ctx, stats.KeyCount(), opt)
	o.hitRate.Record(ctx, stats.HitRate(), opt)
	return nil
}

// RecordCacheOperation counts the operation and, with detailed timings, records its latency
func (o *OTelExporter) RecordCacheOperation(operation Operation, duration time.Duration, labels Labels) error {
	if !o.enabled {
		return nil
	}
	ctx := context.Background()
	opt := metric.WithAttributeSet(o.attributes(labels, attribute.String("operation", string(operation))))

	o.operations.Add(ctx, 1, opt)
	if o.timings {
		o.duration.Record(ctx, duration.Seconds(), opt)
	}
	return nil
}

// RecordLookup counts a lookup under its result attribute
func (o *OTelExporter) RecordLookup(result Result, labels Labels) error {
	if !o.enabled {
		return nil
	}
	opt := metric.WithAttributeSet(o.attributes(labels, attribute.String("result", string(result))))
	o.lookups.Add(context.Background(), 1, opt)
	return nil
}

// IncrementCounter increments a custom counter, creating it on first use
func (o *OTelExporter) IncrementCounter(name string, labels Labels) error {
	if !o.enabled {
		return nil
	}
	o.mu.Lock()
	c, ok := o.counters[name]
	if !ok {
		var err error
		c, err = o.meter.Int64Counter(o.qualify(name))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("failed to create counter %s: %w", name, err)
		}
		o.counters[name] = c
	}
	o.mu.Unlock()

	c.Add(context.Background(), 1, metric.WithAttributeSet(o.attributes(labels)))
	return nil
}

// RecordHistogram records a value in a custom histogram
func (o *OTelExporter) RecordHistogram(name string, value float64, labels Labels) error {
	if !o.enabled {
		return nil
	}
	o.mu.Lock()
	h, ok := o.histograms[name]
	if !ok {
		var err error
		h, err = o.meter.Float64Histogram(o.qualify(name))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("failed to create histogram %s: %w", name, err)
		}
		o.histograms[name] = h
	}
	o.mu.Unlock()

	h.Record(context.Background(), value, metric.WithAttributeSet(o.attributes(labels)))
	return nil
}

// SetGauge records a value on a custom gauge
func (o *OTelExporter) SetGauge(name string, value float64, labels Labels) error {
	if !o.enabled {
		return nil
	}
	o.mu.Lock()
	g, ok := o.gauges[name]
	if !ok {
		var err error
		g, err = o.meter.Float64Gauge(o.qualify(name))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("failed to create gauge %s: %w", name, err)
		}
		o.gauges[name] = g
	}
	o.mu.Unlock()

	g.Record(context.Background(), value, metric.WithAttributeSet(o.attributes(labels)))
	return nil
}

func (o *OTelExporter) qualify(name string) string {
	if o.namespace == "" {
		return name
	}
	return o.namespace + "_" + name
}

// Close is a no-op; the meter provider owns instrument lifetime
func (o *OTelExporter) Close() error {
	return nil
}

var _ Exporter = (*OTelExporter)(nil)
