// Package lrucache provides a bounded, thread-safe, in-memory cache with strict
// least-recently-used eviction, pluggable key validation, and hooks for observability.
//
// # Overview
//
// A Cache holds at most Capacity entries. Every successful Retrieve or Store
// moves the entry to the most recently used position; when a Store grows the
// cache past its capacity, the least recently used entry is evicted. All
// operations run in constant time.
//
// # Key Features
//
//   - Generic keys and values with constant-time lookup, insert, promote and evict
//   - A single reader/writer lock guarding the index and the recency list together
//   - Non-promoting inspection with PeekOldest, PeekNewest and CheckExists
//   - Runtime resizing that evicts oldest entries first when shrinking
//   - Context-aware hooks for hits, misses, evictions and invalidations
//   - Built-in statistics and Prometheus or OpenTelemetry metrics export
//   - Structured logging through logr
//
// # Basic Usage
//
//	cache, err := lrucache.NewSimple[string, *User](10000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := cache.Store("user:123", user); err != nil {
//	    log.Printf("Failed to store: %v", err)
//	}
//
//	opt, err := cache.Retrieve("user:123")
//	if err != nil {
//	    log.Printf("Invalid key: %v", err)
//	}
//	if u, ok := opt.Value(); ok {
//	    fmt.Printf("Found user: %+v\n", u)
//	}
//
// # Absent Keys
//
// Retrieve, PeekOldest and PeekNewest report absence with an empty Option,
// never with an error. Errors are reserved for invalid input: ErrInvalidKey,
// ErrInvalidCapacity and ErrMissingValue. Callers that prefer an error can use
// Option.Get, which returns ErrNotFound when the Option is empty.
//
// # Configuration
//
//	config := lrucache.NewDefaultConfig[string, []byte]().
//	    WithCapacity(500).
//	    WithKeyValidator(lrucache.NonZeroKey[string]()).
//	    WithLogger(stdr.New(log.Default()))
//
//	cache, err := lrucache.New(config)
//
// # Context-Aware Hooks
//
//	hooks := lrucache.NewHooks[string, []byte]()
//
//	hooks.AddOnEvict(func(ctx context.Context, key string, value []byte, reason lrucache.EvictReason) {
//	    log.Printf("Evicted %s (%s)", key, reason)
//	})
//
//	// Higher priority hooks run first; conditions filter by key.
//	// Options carry the key type, so a condition on the wrong key type does not compile.
//	hooks.AddOnMiss(func(ctx context.Context, key string) {
//	    log.Printf("Miss: %s", key)
//	}, lrucache.WithPriority[string](10), lrucache.WithCondition(func(ctx context.Context, key string) bool {
//	    return strings.HasPrefix(key, "user:")
//	}))
//
//	cache, _ := lrucache.New(lrucache.NewDefaultConfig[string, []byte]().WithHooks(hooks))
//
// Hooks run after the cache lock is released, so a hook may safely call back
// into the cache.
//
// # Metrics
//
//	exporter, _ := metrics.NewPrometheusExporter(metrics.NewDefaultConfig(), nil)
//
//	cache, _ := lrucache.New(lrucache.NewSimpleConfig[string, int](1000).WithMetrics(&lrucache.MetricsConfig{
//	    Exporter:          exporter,
//	    Enabled:           true,
//	    CacheName:         "sessions",
//	    ReportingInterval: 30 * time.Second,
//	}))
//	defer cache.Close()
//
// # Thread Safety
//
// All Cache methods are safe for concurrent use. Retrieve takes the write
// lock because it reorders the recency list; CheckExists, Size, the peeks and
// the capacity accessors share the read lock.
package lrucache
