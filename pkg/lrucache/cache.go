package lrucache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/1mb-dev/lrucache-go/internal/eviction"
	"github.com/1mb-dev/lrucache-go/pkg/metrics"
)

func (c *Cache[K, V]) hit(ctx context.Context, key K, value V) {
	c.stats.incHits()
	if c.hooks != nil {
		c.hooks.invokeOnHit(ctx, key, value)
	}
}

func (c *Cache[K, V]) miss(ctx context.Context, key K) {
	c.stats.incMisses()
	if c.hooks != nil {
		c.hooks.invokeOnMiss(ctx, key)
	}
}

func (c *Cache[K, V]) evicted(ctx context.Context, entries []eviction.Entry[K, V], reason EvictReason) {
	if len(entries) == 0 {
		return
	}
	c.stats.addEvictions(len(entries))
	for _, e := range entries {
		c.log.V(1).Info("evicted least recently used entry", "key", e.Key, "reason", reason.String())
		if c.hooks != nil {
			c.hooks.invokeOnEvict(ctx, e.Key, e.Value, reason)
		}
	}
}

func (c *Cache[K, V]) invalidated(ctx context.Context, entries []eviction.Entry[K, V]) {
	if len(entries) == 0 {
		return
	}
	c.stats.addInvalidations(len(entries))
	if c.hooks == nil {
		return
	}
	for _, e := range entries {
		c.hooks.invokeOnInvalidate(ctx, e.Key)
	}
}

// Cache is a bounded, thread-safe cache with strict least-recently-used eviction.
//
// A single RWMutex guards the key index and the recency list as one unit.
// Retrieve takes the write lock because it promotes the entry.
type Cache[K comparable, V any] struct {
	config   *Config[K, V]
	lru      eviction.Tracker[K, V]
	stats    *Stats
	hooks    *Hooks[K, V]
	validKey KeyValidator[K]
	log      logr.Logger
	mu       sync.RWMutex

	// Metrics
	metricsExporter metrics.Exporter
	metricsLabels   metrics.Labels
	metricsStop     chan struct{}
	metricsWg       sync.WaitGroup
	closeOnce       sync.Once
}

// New creates a new Cache with the given configuration
func New[K comparable, V any](config *Config[K, V]) (*Cache[K, V], error) {
	if config == nil {
		config = NewDefaultConfig[K, V]()
	}

	if err := ValidateCapacity(config.Capacity); err != nil {
		return nil, err
	}

	validKey := config.KeyValidator
	if validKey == nil {
		validKey = AcceptAllKeys[K]()
	}

	logger := config.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	cache := &Cache[K, V]{
		config:   config,
		lru:      eviction.NewLRU[K, V](config.Capacity),
		stats:    &Stats{},
		hooks:    config.Hooks,
		validKey: validKey,
		log:      logger.WithName("lrucache"),
	}

	if err := cache.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	cache.log.Info("cache created", "capacity", config.Capacity)
	return cache, nil
}

// NewSimple creates a cache with the given capacity and default settings
func NewSimple[K comparable, V any](capacity int) (*Cache[K, V], error) {
	return New(NewSimpleConfig[K, V](capacity))
}

// Retrieve returns the value for key and promotes it to most recently used.
// An absent key yields an empty Option and no error.
// For context-aware hooks, use RetrieveContext instead
func (c *Cache[K, V]) Retrieve(key K) (Option[V], error) {
	return c.RetrieveContext(context.Background(), key)
}

// RetrieveContext is Retrieve with a context passed through to hooks
func (c *Cache[K, V]) RetrieveContext(ctx context.Context, key K) (Option[V], error) {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationRetrieve, time.Since(start))
	}()

	if err := c.validateKey(key); err != nil {
		c.log.V(1).Info("retrieve rejected", "error", err.Error())
		c.recordLookup(metrics.ResultError)
		return None[V](), err
	}

	c.mu.Lock()
	value, ok := c.lru.Get(key)
	c.mu.Unlock()

	if !ok {
		c.recordLookup(metrics.ResultMiss)
		c.miss(ctx, key)
		return None[V](), nil
	}

	c.log.V(1).Info("retrieved entry moved to head", "key", key)
	c.recordLookup(metrics.ResultHit)
	c.hit(ctx, key, value)
	return Some(value), nil
}

// Store inserts or replaces the value for key and promotes it to most recently used.
// If the cache grows past capacity the least recently used entry is evicted.
// Replacing an existing key never evicts.
func (c *Cache[K, V]) Store(key K, value V) error {
	return c.StoreContext(context.Background(), key, value)
}

// StoreContext is Store with a context passed through to hooks
func (c *Cache[K, V]) StoreContext(ctx context.Context, key K, value V) error {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationStore, time.Since(start))
	}()

	if err := c.validateKey(key); err != nil {
		c.log.V(1).Info("store rejected", "error", err.Error())
		return err
	}
	if err := ValidateValue(value); err != nil {
		c.log.V(1).Info("store rejected", "key", key, "error", err.Error())
		return err
	}

	c.mu.Lock()
	evicted, updated := c.lru.Add(key, value)
	size := c.lru.Len()
	c.stats.setKeyCount(int64(size))
	c.mu.Unlock()

	c.log.V(1).Info("stored entry at head", "key", key, "updated", updated, "size", size)
	c.evicted(ctx, evicted, EvictReasonCapacity)
	return nil
}

// Evict removes key from the cache. Evicting an absent key is a no-op.
func (c *Cache[K, V]) Evict(key K) error {
	return c.EvictContext(context.Background(), key)
}

// EvictContext is Evict with a context passed through to hooks
func (c *Cache[K, V]) EvictContext(ctx context.Context, key K) error {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationEvict, time.Since(start))
	}()

	if err := c.validateKey(key); err != nil {
		c.log.V(1).Info("evict rejected", "error", err.Error())
		return err
	}

	c.mu.Lock()
	removed, ok := c.lru.Remove(key)
	if ok {
		c.stats.setKeyCount(int64(c.lru.Len()))
	}
	c.mu.Unlock()

	if !ok {
		c.log.V(1).Info("evict skipped, key not cached", "key", key)
		return nil
	}

	c.log.V(1).Info("entry removed", "key", key)
	c.invalidated(ctx, []eviction.Entry[K, V]{removed})
	return nil
}

// Clear removes every entry
func (c *Cache[K, V]) Clear() {
	c.ClearContext(context.Background())
}

// ClearContext is Clear with a context passed through to hooks
func (c *Cache[K, V]) ClearContext(ctx context.Context) {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationClear, time.Since(start))
	}()

	c.mu.Lock()
	purged := c.lru.Purge()
	c.stats.setKeyCount(0)
	c.mu.Unlock()

	c.log.V(1).Info("cache cleared", "removed", len(purged))
	c.invalidated(ctx, purged)
}

// CheckExists reports whether key is cached without changing its recency
func (c *Cache[K, V]) CheckExists(key K) (bool, error) {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationExists, time.Since(start))
	}()

	if err := c.validateKey(key); err != nil {
		return false, err
	}

	c.mu.RLock()
	exists := c.lru.Contains(key)
	c.mu.RUnlock()
	return exists, nil
}

// Size returns the number of live entries
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	size := c.lru.Len()
	c.mu.RUnlock()
	return size
}

// PeekOldest returns the least recently used value without promoting it
func (c *Cache[K, V]) PeekOldest() Option[V] {
	return c.peek(c.lru.Oldest)
}

// PeekNewest returns the most recently used value without promoting it
func (c *Cache[K, V]) PeekNewest() Option[V] {
	return c.peek(c.lru.Newest)
}

func (c *Cache[K, V]) peek(get func() (eviction.Entry[K, V], bool)) Option[V] {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationPeek, time.Since(start))
	}()

	c.mu.RLock()
	e, ok := get()
	c.mu.RUnlock()

	if !ok {
		return None[V]()
	}
	return Some(e.Value)
}

// Capacity returns the configured maximum number of entries
func (c *Cache[K, V]) Capacity() int {
	c.mu.RLock()
	capacity := c.lru.Capacity()
	c.mu.RUnlock()
	return capacity
}

// RemainingCapacity returns Capacity() - Size(), read atomically
func (c *Cache[K, V]) RemainingCapacity() int {
	c.mu.RLock()
	remaining := c.lru.Capacity() - c.lru.Len()
	c.mu.RUnlock()
	return remaining
}

// Resize changes the capacity. Shrinking below the current size evicts the
// least recently used entries, oldest first, until the cache fits.
func (c *Cache[K, V]) Resize(capacity int) error {
	return c.ResizeContext(context.Background(), capacity)
}

// ResizeContext is Resize with a context passed through to hooks
func (c *Cache[K, V]) ResizeContext(ctx context.Context, capacity int) error {
	start := time.Now()
	defer func() {
		c.recordCacheOperation(metrics.OperationResize, time.Since(start))
	}()

	if err := ValidateCapacity(capacity); err != nil {
		c.log.V(1).Info("resize rejected", "error", err.Error())
		return err
	}

	c.mu.Lock()
	previous := c.lru.Capacity()
	evicted := c.lru.Resize(capacity)
	c.stats.setKeyCount(int64(c.lru.Len()))
	c.mu.Unlock()

	c.log.V(1).Info("cache resized", "from", previous, "to", capacity, "evicted", len(evicted))
	c.evicted(ctx, evicted, EvictReasonResize)
	return nil
}

// Keys returns the cached keys from most to least recently used
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	keys := c.lru.Keys()
	c.mu.RUnlock()
	return keys
}

// Stats returns the current cache statistics
func (c *Cache[K, V]) Stats() *Stats {
	c.updateKeyCount()
	return c.stats
}

// Close stops the metrics reporter and closes the exporter.
// The cache remains usable afterwards. Close is safe to call multiple times.
func (c *Cache[K, V]) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.metricsStop != nil {
			close(c.metricsStop)
			c.metricsWg.Wait()
		}
		if c.metricsExporter != nil {
			err = c.metricsExporter.Close()
		}
	})
	return err
}

// updateKeyCount updates the key count statistic
func (c *Cache[K, V]) updateKeyCount() {
	c.mu.RLock()
	c.stats.setKeyCount(int64(c.lru.Len()))
	c.mu.RUnlock()
}

// initializeMetrics sets up metrics collection if enabled
func (c *Cache[K, V]) initializeMetrics() error {
	mc := c.config.Metrics
	if mc == nil || !mc.Enabled || mc.Exporter == nil {
		c.metricsExporter = metrics.NewNoOpExporter()
		return nil
	}

	if mc.ReportingInterval < 0 {
		return fmt.Errorf("reporting interval must not be negative: %v", mc.ReportingInterval)
	}

	c.metricsExporter = mc.Exporter

	c.metricsLabels = make(metrics.Labels)
	if mc.CacheName != "" {
		c.metricsLabels["cache_name"] = mc.CacheName
	} else {
		c.metricsLabels["cache_name"] = "default"
	}
	for k, v := range mc.Labels {
		c.metricsLabels[k] = v
	}

	if mc.ReportingInterval > 0 {
		c.metricsStop = make(chan struct{})
		c.metricsWg.Add(1)
		go c.metricsReporter(mc.ReportingInterval)
	}

	return nil
}

// metricsReporter periodically exports cache statistics
func (c *Cache[K, V]) metricsReporter(interval time.Duration) {
	defer c.metricsWg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.exportCurrentStats()
		case <-c.metricsStop:
			// Final stats export before shutting down
			c.exportCurrentStats()
			return
		}
	}
}

// exportCurrentStats exports the current statistics to metrics
func (c *Cache[K, V]) exportCurrentStats() {
	if err := c.metricsExporter.ExportStats(c.Stats(), c.metricsLabels); err != nil {
		c.log.Error(err, "failed to export cache stats")
	}
}

// recordLookup counts a Retrieve by outcome
func (c *Cache[K, V]) recordLookup(result metrics.Result) {
	if err := c.metricsExporter.RecordLookup(result, c.metricsLabels); err != nil {
		c.log.V(1).Info("failed to record lookup", "result", string(result), "error", err.Error())
	}
}

// recordCacheOperation records a cache operation with timing for metrics
func (c *Cache[K, V]) recordCacheOperation(operation metrics.Operation, duration time.Duration) {
	if err := c.metricsExporter.RecordCacheOperation(operation, duration, c.metricsLabels); err != nil {
		c.log.V(1).Info("failed to record cache operation", "operation", string(operation), "error", err.Error())
	}
}
