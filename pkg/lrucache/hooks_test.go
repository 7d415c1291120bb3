package lrucache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestHookExecution(t *testing.T) {
	var hitCount, missCount, evictCount, invalidateCount int32

	hooks := NewHooks[string, string]()
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		atomic.AddInt32(&hitCount, 1)
	})
	hooks.AddOnMiss(func(_ context.Context, _ string) {
		atomic.AddInt32(&missCount, 1)
	})
	hooks.AddOnEvict(func(_ context.Context, _ string, _ string, _ EvictReason) {
		atomic.AddInt32(&evictCount, 1)
	})
	hooks.AddOnInvalidate(func(_ context.Context, _ string) {
		atomic.AddInt32(&invalidateCount, 1)
	})

	config := NewDefaultConfig[string, string]().WithCapacity(2).WithHooks(hooks)
	cache, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	// Test OnMiss hook
	if opt, _ := cache.Retrieve("nonexistent"); opt.IsPresent() {
		t.Fatal("Expected miss")
	}
	if atomic.LoadInt32(&missCount) != 1 {
		t.Fatalf("Expected 1 miss hook call, got %d", missCount)
	}

	// Test OnHit hook
	_ = cache.Store("key1", "value1")
	if opt, _ := cache.Retrieve("key1"); !opt.IsPresent() {
		t.Fatal("Expected hit")
	}
	if atomic.LoadInt32(&hitCount) != 1 {
		t.Fatalf("Expected 1 hit hook call, got %d", hitCount)
	}

	// Test OnInvalidate hook
	_ = cache.Evict("key1")
	if atomic.LoadInt32(&invalidateCount) != 1 {
		t.Fatalf("Expected 1 invalidate hook call, got %d", invalidateCount)
	}

	// Test OnEvict hook
	_ = cache.Store("key2", "value2")
	_ = cache.Store("key3", "value3")
	_ = cache.Store("key4", "value4") // Should evict key2 (LRU)

	if atomic.LoadInt32(&evictCount) != 1 {
		t.Fatalf("Expected 1 evict hook call, got %d", evictCount)
	}

	// Clear invalidates every remaining entry
	cache.Clear()
	if atomic.LoadInt32(&invalidateCount) != 3 {
		t.Fatalf("Expected 3 invalidate hook calls after clear, got %d", invalidateCount)
	}
}

func TestHookParameters(t *testing.T) {
	var capturedKeys []string
	var capturedValues []string
	var capturedReasons []EvictReason
	var mu sync.Mutex

	hooks := NewHooks[string, string]()
	hooks.AddOnHit(func(_ context.Context, key string, value string) {
		mu.Lock()
		capturedKeys = append(capturedKeys, key)
		capturedValues = append(capturedValues, value)
		mu.Unlock()
	})
	hooks.AddOnEvict(func(_ context.Context, key string, value string, reason EvictReason) {
		mu.Lock()
		capturedKeys = append(capturedKeys, key)
		capturedValues = append(capturedValues, value)
		capturedReasons = append(capturedReasons, reason)
		mu.Unlock()
	})

	config := NewDefaultConfig[string, string]().WithCapacity(1).WithHooks(hooks)
	cache, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	// Test hit hook parameters
	testKey := "test-key"
	testValue := "test-value"

	_ = cache.Store(testKey, testValue)
	_, _ = cache.Retrieve(testKey)

	mu.Lock()
	if len(capturedKeys) != 1 {
		t.Fatalf("Expected 1 captured key, got %d", len(capturedKeys))
	}
	if capturedKeys[0] != testKey {
		t.Fatalf("Expected key '%s', got '%s'", testKey, capturedKeys[0])
	}
	if capturedValues[0] != testValue {
		t.Fatalf("Expected value '%s', got '%v'", testValue, capturedValues[0])
	}
	mu.Unlock()

	// Test evict hook parameters
	_ = cache.Store("new-key", "new-value") // Should evict previous entry

	mu.Lock()
	defer mu.Unlock()
	if len(capturedKeys) != 2 {
		t.Fatalf("Expected 2 captured keys (hit + evict), got %d", len(capturedKeys))
	}
	if capturedKeys[1] != testKey {
		t.Fatalf("Expected evicted key '%s', got '%s'", testKey, capturedKeys[1])
	}
	if capturedValues[1] != testValue {
		t.Fatalf("Expected evicted value '%s', got '%v'", testValue, capturedValues[1])
	}
	if capturedReasons[0] != EvictReasonCapacity {
		t.Fatalf("Expected reason Capacity, got %s", capturedReasons[0])
	}
}

func TestHookResizeReason(t *testing.T) {
	var reasons []EvictReason
	var keys []int

	hooks := NewHooks[int, int]()
	hooks.AddOnEvict(func(_ context.Context, key int, _ int, reason EvictReason) {
		keys = append(keys, key)
		reasons = append(reasons, reason)
	})

	cache, err := New(NewSimpleConfig[int, int](4).WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	for i := 1; i <= 4; i++ {
		_ = cache.Store(i, i)
	}

	if err := cache.Resize(2); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	if len(keys) != 2 || keys[0] != 1 || keys[1] != 2 {
		t.Fatalf("Expected evictions [1 2] oldest first, got %v", keys)
	}
	for _, r := range reasons {
		if r != EvictReasonResize {
			t.Fatalf("Expected reason Resize, got %s", r)
		}
	}
}

func TestHookConcurrency(t *testing.T) {
	var hookCallCount int32

	hooks := NewHooks[string, string]()
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		atomic.AddInt32(&hookCallCount, 1)
	})
	hooks.AddOnMiss(func(_ context.Context, _ string) {
		atomic.AddInt32(&hookCallCount, 1)
	})

	config := NewDefaultConfig[string, string]().WithHooks(hooks)
	cache, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	// Add some data
	for i := 0; i < 10; i++ {
		_ = cache.Store(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i))
	}

	// Concurrent cache operations to trigger hooks
	var wg sync.WaitGroup

	wg.Add(TestGoroutines)
	for i := 0; i < TestGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < TestOperationsPerGoroutine; j++ {
				if j%2 == 0 {
					// Hit
					_, _ = cache.Retrieve(fmt.Sprintf("key%d", j%10))
				} else {
					// Miss
					_, _ = cache.Retrieve(fmt.Sprintf("nonexistent-%d-%d", id, j))
				}
			}
		}(i)
	}

	wg.Wait()

	expectedCalls := int32(TestGoroutines * TestOperationsPerGoroutine)
	actualCalls := atomic.LoadInt32(&hookCallCount)

	if actualCalls != expectedCalls {
		t.Fatalf("Expected %d hook calls, got %d", expectedCalls, actualCalls)
	}
}

func TestMultipleHooksOfSameType(t *testing.T) {
	var hook1Calls, hook2Calls int32

	hooks := NewHooks[string, string]()
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		atomic.AddInt32(&hook1Calls, 1)
	})
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		atomic.AddInt32(&hook2Calls, 1)
	})

	cache, err := New(NewDefaultConfig[string, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	_ = cache.Store("key1", "value1")
	_, _ = cache.Retrieve("key1")

	if atomic.LoadInt32(&hook1Calls) != 1 {
		t.Fatalf("Expected hook1 to be called once, got %d", hook1Calls)
	}
	if atomic.LoadInt32(&hook2Calls) != 1 {
		t.Fatalf("Expected hook2 to be called once, got %d", hook2Calls)
	}
}

func TestHookMayCallBackIntoCache(t *testing.T) {
	hooks := NewHooks[string, string]()
	var cache *Cache[string, string]
	var sizeSeen int

	hooks.AddOnEvict(func(_ context.Context, _ string, _ string, _ EvictReason) {
		// Would deadlock if hooks ran under the cache lock
		sizeSeen = cache.Size()
	})

	var err error
	cache, err = New(NewSimpleConfig[string, string](1).WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	_ = cache.Store("a", "1")
	_ = cache.Store("b", "2")

	if sizeSeen != 1 {
		t.Fatalf("Expected hook to observe size 1, got %d", sizeSeen)
	}
}

func TestNilHooks(t *testing.T) {
	// Test that nil hooks don't cause panics
	cache, err := New(NewDefaultConfig[string, string]().WithHooks(nil))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	_ = cache.Store("key1", "value1")
	_, _ = cache.Retrieve("key1")
	_, _ = cache.Retrieve("nonexistent")
	_ = cache.Evict("key1")
	cache.Clear()
}

func TestEmptyHooks(t *testing.T) {
	// Test that empty hooks struct doesn't cause issues
	cache, err := New(NewDefaultConfig[string, string]().WithHooks(&Hooks[string, string]{}))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	_ = cache.Store("key1", "value1")
	_, _ = cache.Retrieve("key1")
	_, _ = cache.Retrieve("nonexistent")
	_ = cache.Evict("key1")
}

func TestHookPriority(t *testing.T) {
	var executionOrder []int
	var mu sync.Mutex

	hooks := NewHooks[string, string]()
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		mu.Lock()
		executionOrder = append(executionOrder, 1)
		mu.Unlock()
	}, WithPriority[string](10))

	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		mu.Lock()
		executionOrder = append(executionOrder, 2)
		mu.Unlock()
	}, WithPriority[string](100))

	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		mu.Lock()
		executionOrder = append(executionOrder, 3)
		mu.Unlock()
	}, WithPriority[string](50))

	cache, err := New(NewDefaultConfig[string, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	_ = cache.Store("key1", "value1")
	_, _ = cache.Retrieve("key1")

	mu.Lock()
	defer mu.Unlock()

	if len(executionOrder) != 3 {
		t.Fatalf("Expected 3 hooks to execute, got %d", len(executionOrder))
	}

	// Should execute in priority order: 100, 50, 10
	if executionOrder[0] != 2 {
		t.Fatalf("Expected first hook to be #2 (priority 100), got #%d", executionOrder[0])
	}
	if executionOrder[1] != 3 {
		t.Fatalf("Expected second hook to be #3 (priority 50), got #%d", executionOrder[1])
	}
	if executionOrder[2] != 1 {
		t.Fatalf("Expected third hook to be #1 (priority 10), got #%d", executionOrder[2])
	}
}

func TestHookCondition(t *testing.T) {
	var calls int32

	hooks := NewHooks[string, string]()
	// Only execute for keys starting with "cached:"
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		atomic.AddInt32(&calls, 1)
	}, WithCondition(func(_ context.Context, key string) bool {
		return strings.HasPrefix(key, "cached:")
	}))

	cache, err := New(NewDefaultConfig[string, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	// This should trigger the hook
	_ = cache.Store("cached:key1", "value1")
	_, _ = cache.Retrieve("cached:key1")

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("Expected 1 hook call, got %d", calls)
	}

	// This should NOT trigger the hook (doesn't match condition)
	_ = cache.Store("other:key2", "value2")
	_, _ = cache.Retrieve("other:key2")

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("Expected still 1 hook call (condition not met), got %d", calls)
	}
}

func TestHookConditionOnIntKeys(t *testing.T) {
	var evens, all int32

	hooks := NewHooks[int, string]()
	hooks.AddOnMiss(func(_ context.Context, _ int) {
		atomic.AddInt32(&evens, 1)
	}, WithPriority[int](5), WithCondition(func(_ context.Context, key int) bool {
		return key%2 == 0
	}))
	hooks.AddOnMiss(func(_ context.Context, _ int) {
		atomic.AddInt32(&all, 1)
	})

	cache, err := New(NewDefaultConfig[int, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	for key := 1; key <= 4; key++ {
		_, _ = cache.Retrieve(key)
	}

	if atomic.LoadInt32(&evens) != 2 {
		t.Fatalf("Expected 2 conditional calls, got %d", evens)
	}
	if atomic.LoadInt32(&all) != 4 {
		t.Fatalf("Expected 4 unconditional calls, got %d", all)
	}
}

func TestHookPriorityAndCondition(t *testing.T) {
	var executionOrder []int
	var mu sync.Mutex

	hooks := NewHooks[string, string]()

	// High priority hook with condition
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		mu.Lock()
		executionOrder = append(executionOrder, 1)
		mu.Unlock()
	}, WithPriority[string](100), WithCondition(func(_ context.Context, key string) bool {
		return key == "special"
	}))

	// Low priority hook without condition
	hooks.AddOnHit(func(_ context.Context, _ string, _ string) {
		mu.Lock()
		executionOrder = append(executionOrder, 2)
		mu.Unlock()
	}, WithPriority[string](10))

	cache, err := New(NewDefaultConfig[string, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	// Test with "special" key - both hooks should execute
	_ = cache.Store("special", "value1")
	_, _ = cache.Retrieve("special")

	mu.Lock()
	if len(executionOrder) != 2 {
		t.Fatalf("Expected 2 hooks to execute, got %d", len(executionOrder))
	}
	if executionOrder[0] != 1 || executionOrder[1] != 2 {
		t.Fatalf("Expected execution order [1, 2], got %v", executionOrder)
	}
	executionOrder = nil
	mu.Unlock()

	// Test with regular key - only unconditional hook should execute
	_ = cache.Store("regular", "value2")
	_, _ = cache.Retrieve("regular")

	mu.Lock()
	if len(executionOrder) != 1 {
		t.Fatalf("Expected 1 hook to execute, got %d", len(executionOrder))
	}
	if executionOrder[0] != 2 {
		t.Fatalf("Expected hook #2 to execute, got #%d", executionOrder[0])
	}
	mu.Unlock()
}

func TestHookContextPropagation(t *testing.T) {
	type ctxKey struct{}
	var seen any

	hooks := NewHooks[string, string]()
	hooks.AddOnMiss(func(ctx context.Context, _ string) {
		seen = ctx.Value(ctxKey{})
	})

	cache, err := New(NewDefaultConfig[string, string]().WithHooks(hooks))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "trace-42")
	_, _ = cache.RetrieveContext(ctx, "missing")

	if seen != "trace-42" {
		t.Fatalf("Expected hook to see context value trace-42, got %v", seen)
	}
}
