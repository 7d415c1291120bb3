package lrucache

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/1mb-dev/lrucache-go/pkg/metrics"
)

// DefaultCapacity is the capacity used by NewDefaultConfig
const DefaultCapacity = 1000

// Config defines the configuration for a Cache
type Config[K comparable, V any] struct {
	// Capacity is the maximum number of live entries. Must be positive.
	Capacity int

	// KeyValidator rejects unacceptable keys before any keyed operation.
	// Nil accepts every key.
	KeyValidator KeyValidator[K]

	// Hooks receive hit, miss, eviction and invalidation events
	Hooks *Hooks[K, V]

	// Logger receives per-operation events at V(1). Defaults to logr.Discard().
	Logger logr.Logger

	// Metrics configures metrics export. Nil disables it.
	Metrics *MetricsConfig
}

// MetricsConfig defines how the cache reports metrics
type MetricsConfig struct {
	// Exporter is the metrics backend
	Exporter metrics.Exporter

	// Enabled toggles metrics collection
	Enabled bool

	// CacheName is exported as the cache_name label. Defaults to "default".
	CacheName string

	// Labels are added to every exported sample
	Labels metrics.Labels

	// ReportingInterval controls periodic stats export. Zero disables it.
	ReportingInterval time.Duration
}

// NewDefaultConfig returns a configuration with DefaultCapacity, no key
// restrictions, no hooks and metrics disabled
func NewDefaultConfig[K comparable, V any]() *Config[K, V] {
	return &Config[K, V]{
		Capacity:     DefaultCapacity,
		KeyValidator: AcceptAllKeys[K](),
		Logger:       logr.Discard(),
	}
}

// NewSimpleConfig returns the default configuration with the given capacity
func NewSimpleConfig[K comparable, V any](capacity int) *Config[K, V] {
	return NewDefaultConfig[K, V]().WithCapacity(capacity)
}

// WithCapacity sets the maximum number of live entries
func (c *Config[K, V]) WithCapacity(capacity int) *Config[K, V] {
	c.Capacity = capacity
	return c
}

// WithKeyValidator sets the key validity predicate
func (c *Config[K, V]) WithKeyValidator(validator KeyValidator[K]) *Config[K, V] {
	c.KeyValidator = validator
	return c
}

// WithHooks sets the event hooks
func (c *Config[K, V]) WithHooks(hooks *Hooks[K, V]) *Config[K, V] {
	c.Hooks = hooks
	return c
}

// WithLogger sets the logger
func (c *Config[K, V]) WithLogger(logger logr.Logger) *Config[K, V] {
	c.Logger = logger
	return c
}

// WithMetrics sets the metrics configuration
func (c *Config[K, V]) WithMetrics(metricsConfig *MetricsConfig) *Config[K, V] {
	c.Metrics = metricsConfig
	return c
}
