package lrucache

import "time"

// Test and example constants for consistent usage across the codebase.
// These constants help maintain consistency in tests and examples.
const (
	// TestCapacity is the capacity used by the recency scenarios in tests
	TestCapacity = 2

	// TestGoroutines is the number of workers in concurrency tests
	TestGoroutines = 50

	// TestOperationsPerGoroutine is the number of calls each worker makes
	TestOperationsPerGoroutine = 100

	// TestMetricsReportInterval for fast metrics reporting in tests
	TestMetricsReportInterval = 30 * time.Millisecond

	// ExampleCapacity for documentation examples
	ExampleCapacity = 10000
)
