// Package metrics defines how cache statistics and operation timings leave the
// process. Exporters for Prometheus and OpenTelemetry are provided, plus no-op
// and fan-out exporters.
package metrics

import (
	"errors"
	"time"
)

// Operation names a cache operation for timing metrics
type Operation string

const (
	OperationRetrieve Operation = "retrieve"
	OperationStore    Operation = "store"
	OperationEvict    Operation = "evict"
	OperationClear    Operation = "clear"
	OperationResize   Operation = "resize"
	OperationPeek     Operation = "peek"
	OperationExists   Operation = "exists"
)

// Result is the outcome of a lookup, exported as the result label of the
// lookups counter
type Result string

const (
	ResultHit   Result = "hit"
	ResultMiss  Result = "miss"
	ResultError Result = "error"
)

// Labels are attached to every exported sample
type Labels map[string]string

// Stats is the read-only view of cache statistics an exporter consumes
type Stats interface {
	Hits() int64
	Misses() int64
	Evictions() int64
	Invalidations() int64
	KeyCount() int64
	HitRate() float64
}

// Exporter ships cache metrics to a backend
type Exporter interface {
	// ExportStats publishes a snapshot of cumulative statistics
	ExportStats(stats Stats, labels Labels) error

	// RecordCacheOperation counts one operation and, with detailed timings, records its latency
	RecordCacheOperation(operation Operation, duration time.Duration, labels Labels) error

	// RecordLookup counts one keyed lookup by its result
	RecordLookup(result Result, labels Labels) error

	// IncrementCounter adds one to a named counter
	IncrementCounter(name string, labels Labels) error

	// RecordHistogram observes a value in a named histogram
	RecordHistogram(name string, value float64, labels Labels) error

	// SetGauge sets a named gauge
	SetGauge(name string, value float64, labels Labels) error

	// Close releases exporter resources
	Close() error
}

// Config holds exporter-independent metrics settings.
// How often stats are exported is set per cache by lrucache.MetricsConfig.ReportingInterval.
type Config struct {
	// Enabled false makes an exporter register nothing and drop every call
	Enabled bool

	// Namespace prefixes every metric name
	Namespace string

	// Labels are constant labels on every metric
	Labels Labels

	// IncludeDetailedTimings records operation latency histograms.
	// Operation counts are recorded either way.
	IncludeDetailedTimings bool
}

// NewDefaultConfig returns metrics settings with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "lrucache",
		Labels:    make(Labels),
	}
}

// WithEnabled toggles the exporter
func (c *Config) WithEnabled(enabled bool) *Config {
	c.Enabled = enabled
	return c
}

// WithNamespace sets the metric name prefix
func (c *Config) WithNamespace(namespace string) *Config {
	c.Namespace = namespace
	return c
}

// WithLabels merges labels into the constant labels
func (c *Config) WithLabels(labels Labels) *Config {
	for k, v := range labels {
		c.Labels[k] = v
	}
	return c
}

// WithDetailedTimings toggles per-operation latency histograms
func (c *Config) WithDetailedTimings(enabled bool) *Config {
	c.IncludeDetailedTimings = enabled
	return c
}

// MetricNames are the fully qualified metric names an exporter registers
type MetricNames struct {
	CacheHitsTotal          string
	CacheMissesTotal        string
	CacheEvictionsTotal     string
	CacheInvalidationsTotal string
	CacheOperationsTotal    string
	CacheLookupsTotal       string
	CacheOperationDuration  string
	CacheKeysCount          string
	CacheHitRate            string
}

// DefaultMetricNames returns names under the default "lrucache" namespace
func DefaultMetricNames() MetricNames {
	return MetricNamesFor("lrucache")
}

// MetricNamesFor returns metric names prefixed with namespace
func MetricNamesFor(namespace string) MetricNames {
	p := namespace + "_"
	return MetricNames{
		CacheHitsTotal:          p + "hits_total",
		CacheMissesTotal:        p + "misses_total",
		CacheEvictionsTotal:     p + "evictions_total",
		CacheInvalidationsTotal: p + "invalidations_total",
		CacheOperationsTotal:    p + "operations_total",
		CacheLookupsTotal:       p + "lookups_total",
		CacheOperationDuration:  p + "operation_duration_seconds",
		CacheKeysCount:          p + "keys_count",
		CacheHitRate:            p + "hit_rate",
	}
}

// NoOpExporter discards everything
type NoOpExporter struct{}

// NewNoOpExporter creates an exporter that does nothing
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (*NoOpExporter) ExportStats(Stats, Labels) error                             { return nil }
func (*NoOpExporter) RecordCacheOperation(Operation, time.Duration, Labels) error { return nil }
func (*NoOpExporter) RecordLookup(Result, Labels) error                           { return nil }
func (*NoOpExporter) IncrementCounter(string, Labels) error                       { return nil }
func (*NoOpExporter) RecordHistogram(string, float64, Labels) error               { return nil }
func (*NoOpExporter) SetGauge(string, float64, Labels) error                      { return nil }
func (*NoOpExporter) Close() error                                                { return nil }

// MultiExporter fans every call out to several exporters.
// All exporters are called; their errors are joined.
type MultiExporter struct {
	exporters []Exporter
}

// NewMultiExporter combines exporters
func NewMultiExporter(exporters ...Exporter) *MultiExporter {
	return &MultiExporter{exporters: exporters}
}

func (m *MultiExporter) each(fn func(Exporter) error) error {
	var errs []error
	for _, e := range m.exporters {
		if err := fn(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiExporter) ExportStats(stats Stats, labels Labels) error {
	return m.each(func(e Exporter) error { return e.ExportStats(stats, labels) })
}

func (m *MultiExporter) RecordCacheOperation(operation Operation, duration time.Duration, labels Labels) error {
	return m.each(func(e Exporter) error { return e.RecordCacheOperation(operation, duration, labels) })
}

func (m *MultiExporter) RecordLookup(result Result, labels Labels) error {
	return m.each(func(e Exporter) error { return e.RecordLookup(result, labels) })
}

func (m *MultiExporter) IncrementCounter(name string, labels Labels) error {
	return m.each(func(e Exporter) error { return e.IncrementCounter(name, labels) })
}

func (m *MultiExporter) RecordHistogram(name string, value float64, labels Labels) error {
	return m.each(func(e Exporter) error { return e.RecordHistogram(name, value, labels) })
}

func (m *MultiExporter) SetGauge(name string, value float64, labels Labels) error {
	return m.each(func(e Exporter) error { return e.SetGauge(name, value, labels) })
}

func (m *MultiExporter) Close() error {
	return m.each(func(e Exporter) error { return e.Close() })
}
