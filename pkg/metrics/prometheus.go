package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig configures the Prometheus exporter
type PrometheusConfig struct {
	// Registry receives the collectors. A fresh registry is used when nil.
	Registry prometheus.Registerer

	// LabelNames are the variable labels read from the Labels passed per call.
	// Missing values are exported as empty strings.
	LabelNames []string

	// Buckets for the operation duration histogram
	Buckets []float64
}

// PrometheusExporter exports cache metrics as Prometheus collectors
type PrometheusExporter struct {
	registry   prometheus.Registerer
	names      MetricNames
	namespace  string
	constant   prometheus.Labels
	labelNames []string
	enabled    bool
	timings    bool

	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	operations    *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	keys          *prometheus.GaugeVec
	hitRate       *prometheus.GaugeVec

	mu         sync.Mutex
	last       map[string]statsSnapshot
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
	collectors []prometheus.Collector
}

type statsSnapshot struct {
	hits, misses, evictions, invalidations int64
}

// NewPrometheusExporter creates and registers the cache collectors.
// With config.Enabled false nothing is registered and every call is dropped.
func NewPrometheusExporter(config *Config, promConfig *PrometheusConfig) (*PrometheusExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if promConfig == nil {
		promConfig = &PrometheusConfig{}
	}

	registry := promConfig.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	labelNames := promConfig.LabelNames
	if len(labelNames) == 0 {
		labelNames = []string{"cache_name"}
	}
	buckets := promConfig.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.ExponentialBuckets(0.000001, 4, 10)
	}

	constant := prometheus.Labels{}
	for k, v := range config.Labels {
		constant[k] = v
	}

	names := MetricNamesFor(config.Namespace)
	opLabels := append(append([]string{}, labelNames...), "operation")
	lookupLabels := append(append([]string{}, labelNames...), "result")

	p := &PrometheusExporter{
		registry:   registry,
		names:      names,
		namespace:  config.Namespace,
		constant:   constant,
		labelNames: labelNames,
		enabled:    config.Enabled,
		timings:    config.IncludeDetailedTimings,
		last:       make(map[string]statsSnapshot),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	if !p.enabled {
		return p, nil
	}

	p.hits = p.counterVec(names.CacheHitsTotal, "Total number of cache hits", labelNames)
	p.misses = p.counterVec(names.CacheMissesTotal, "Total number of cache misses", labelNames)
	p.evictions = p.counterVec(names.CacheEvictionsTotal, "Total number of entries evicted by the LRU policy", labelNames)
	p.invalidations = p.counterVec(names.CacheInvalidationsTotal, "Total number of entries explicitly removed", labelNames)
	p.operations = p.counterVec(names.CacheOperationsTotal, "Total number of cache operations", opLabels)
	p.lookups = p.counterVec(names.CacheLookupsTotal, "Total number of keyed lookups by result", lookupLabels)
	p.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        names.CacheOperationDuration,
		Help:        "Cache operation latency in seconds",
		ConstLabels: constant,
		Buckets:     buckets,
	}, opLabels)
	p.keys = p.gaugeVec(names.CacheKeysCount, "Current number of live entries", labelNames)
	p.hitRate = p.gaugeVec(names.CacheHitRate, "Hit rate in percent", labelNames)

	for _, c := range []prometheus.Collector{
		p.hits, p.misses, p.evictions, p.invalidations,
		p.operations, p.lookups, p.duration, p.keys, p.hitRate,
	} {
		if err := p.register(c); err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	return p, nil
}

func (p *PrometheusExporter) counterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help, ConstLabels: p.constant}, labels)
}

func (p *PrometheusExporter) gaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help, ConstLabels: p.constant}, labels)
}

func (p *PrometheusExporter) register(c prometheus.Collector) error {
	if err := p.registry.Register(c); err != nil {
		return fmt.Errorf("failed to register prometheus collector: %w", err)
	}
	p.collectors = append(p.collectors, c)
	return nil
}

func (p *PrometheusExporter) values(labels Labels) prometheus.Labels {
	out := make(prometheus.Labels, len(p.labelNames))
	for _, name := range p.labelNames {
		out[name] = labels[name]
	}
	return out
}

func (p *PrometheusExporter) seriesKey(labels Labels) string {
	parts := make([]string, len(p.labelNames))
	for i, name := range p.labelNames {
		parts[i] = labels[name]
	}
	return strings.Join(parts, "\xff")
}

// ExportStats converts cumulative stats into counter increments and gauge values
func (p *PrometheusExporter) ExportStats(stats Stats, labels Labels) error {
	if !p.enabled {
		return nil
	}
	values := p.values(labels)

	// Snapshot under the lock so concurrent exports of one series apply in order
	p.mu.Lock()
	defer p.mu.Unlock()

	current := statsSnapshot{
		hits:          stats.Hits(),
		misses:        stats.Misses(),
		evictions:     stats.Evictions(),
		invalidations: stats.Invalidations(),
	}
	key := p.seriesKey(labels)
	prev := p.last[key]
	p.last[key] = current

	addDelta(p.hits.With(values), current.hits, prev.hits)
	addDelta(p.misses.With(values), current.misses, prev.misses)
	addDelta(p.evictions.With(values), current.evictions, prev.evictions)
	addDelta(p.invalidations.With(values), current.invalidations, prev.invalidations)

	p.keys.With(values).Set(float64(stats.KeyCount()))
	p.hitRate.With(values).Set(stats.HitRate())
	return nil
}

func addDelta(c prometheus.Counter, current, previous int64) {
	if d := current - previous; d > 0 {
		c.Add(float64(d))
	}
}

// RecordCacheOperation counts the operation and, with detailed timings, observes its latency
func (p *PrometheusExporter) RecordCacheOperation(operation Operation, duration time.Duration, labels Labels) error {
	if !p.enabled {
		return nil
	}
	values := p.values(labels)
	values["operation"] = string(operation)

	p.operations.With(values).Inc()
	if p.timings {
		p.duration.With(values).Observe(duration.Seconds())
	}
	return nil
}

// RecordLookup counts a lookup under its result label
func (p *PrometheusExporter) RecordLookup(result Result, labels Labels) error {
	if !p.enabled {
		return nil
	}
	values := p.values(labels)
	values["result"] = string(result)

	p.lookups.With(values).Inc()
	return nil
}

// IncrementCounter increments a custom counter, registering it on first use
func (p *PrometheusExporter) IncrementCounter(name string, labels Labels) error {
	if !p.enabled {
		return nil
	}
	p.mu.Lock()
	vec, ok := p.counters[name]
	if !ok {
		vec = p.counterVec(p.qualify(name), "Custom counter "+name, p.labelNames)
		if err := p.register(vec); err != nil {
			p.mu.Unlock()
			return err
		}
		p.counters[name] = vec
	}
	p.mu.Unlock()

	vec.With(p.values(labels)).Inc()
	return nil
}

// RecordHistogram observes a value in a custom histogram
func (p *PrometheusExporter) RecordHistogram(name string, value float64, labels Labels) error {
	if !p.enabled {
		return nil
	}
	p.mu.Lock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        p.qualify(name),
			Help:        "Custom histogram " + name,
			ConstLabels: p.constant,
		}, p.labelNames)
		if err := p.register(vec); err != nil {
			p.mu.Unlock()
			return err
		}
		p.histograms[name] = vec
	}
	p.mu.Unlock()

	vec.With(p.values(labels)).Observe(value)
	return nil
}

// SetGauge sets a custom gauge
func (p *PrometheusExporter) SetGauge(name string, value float64, labels Labels) error {
	if !p.enabled {
		return nil
	}
	p.mu.Lock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = p.gaugeVec(p.qualify(name), "Custom gauge "+name, p.labelNames)
		if err := p.register(vec); err != nil {
			p.mu.Unlock()
			return err
		}
		p.gauges[name] = vec
	}
	p.mu.Unlock()

	vec.With(p.values(labels)).Set(value)
	return nil
}

func (p *PrometheusExporter) qualify(name string) string {
	if p.namespace == "" || strings.HasPrefix(name, p.namespace+"_") {
		return name
	}
	return p.namespace + "_" + name
}

// Close unregisters every collector this exporter registered
func (p *PrometheusExporter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.collectors {
		p.registry.Unregister(c)
	}
	p.collectors = nil
	return nil
}

var _ Exporter = (*PrometheusExporter)(nil)
