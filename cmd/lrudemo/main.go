package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1mb-dev/lrucache-go/pkg/lrucache"
	"github.com/1mb-dev/lrucache-go/pkg/metrics"
)

func main() {
	var (
		capacity    = flag.Int("capacity", 2, "maximum number of cached entries")
		verbosity   = flag.Int("v", 0, "log verbosity; 1 logs every cache operation")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address and wait for a signal")
	)
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("lrudemo")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *capacity, *metricsAddr); err != nil {
		logger.Error(err, "demo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger, capacity int, metricsAddr string) error {
	registry := prometheus.NewRegistry()
	exporter, err := metrics.NewPrometheusExporter(metrics.NewDefaultConfig().WithDetailedTimings(true), &metrics.PrometheusConfig{Registry: registry})
	if err != nil {
		return err
	}

	hooks := lrucache.NewHooks[string, string]()
	hooks.AddOnEvict(func(_ context.Context, key string, value string, reason lrucache.EvictReason) {
		logger.Info("evicted", "key", key, "value", value, "reason", reason.String())
	})

	config := lrucache.NewSimpleConfig[string, string](capacity).
		WithKeyValidator(lrucache.NonZeroKey[string]()).
		WithHooks(hooks).
		WithLogger(logger).
		WithMetrics(&lrucache.MetricsConfig{
			Exporter:          exporter,
			Enabled:           true,
			CacheName:         "demo",
			ReportingInterval: time.Second,
		})

	cache, err := lrucache.New(config)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error(err, "cache close")
		}
	}()

	// Touch "a" so "b" becomes least recently used, then overflow.
	for _, kv := range [][2]string{{"a", "A"}, {"b", "B"}} {
		if err := cache.StoreContext(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	opt, err := cache.RetrieveContext(ctx, "a")
	if err != nil {
		return err
	}
	if opt.IsPresent() {
		logger.Info("retrieved a, now most recently used", "newest", cache.PeekNewest().OrElse(""))
	}
	if err := cache.StoreContext(ctx, "c", "C"); err != nil {
		return err
	}
	logger.Info("after overflow", "keys", cache.Keys(), "size", cache.Size())

	// Replacing an existing key never evicts
	if err := cache.StoreContext(ctx, "c", "C2"); err != nil {
		return err
	}
	logger.Info("after update", "keys", cache.Keys(), "remaining", cache.RemainingCapacity())

	if err := cache.ResizeContext(ctx, 1); err != nil {
		return err
	}
	logger.Info("after resize", "keys", cache.Keys(), "capacity", cache.Capacity())

	if err := cache.Store("", "empty"); !errors.Is(err, lrucache.ErrInvalidKey) {
		return errors.New("empty key was accepted")
	}
	if err := cache.Resize(0); !errors.Is(err, lrucache.ErrInvalidCapacity) {
		return errors.New("zero capacity was accepted")
	}

	if err := cache.EvictContext(ctx, "missing"); err != nil {
		return err
	}
	cache.ClearContext(ctx)

	stats := cache.Stats()
	logger.Info("stats", "hits", stats.Hits(), "misses", stats.Misses(),
		"evictions", stats.Evictions(), "invalidations", stats.Invalidations(), "hitRate", stats.HitRate())

	if metricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, logger, registry, metricsAddr)
}

func serveMetrics(ctx context.Context, logger logr.Logger, registry *prometheus.Registry, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
