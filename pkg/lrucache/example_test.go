package lrucache_test

import (
	"context"
	"fmt"

	"github.com/1mb-dev/lrucache-go/pkg/lrucache"
)

func Example() {
	cache, err := lrucache.NewSimple[int, string](2)
	if err != nil {
		panic(err)
	}

	_ = cache.Store(1, "a")
	_ = cache.Store(2, "b")
	_, _ = cache.Retrieve(1)
	_ = cache.Store(3, "c")

	exists, _ := cache.CheckExists(2)
	fmt.Println("2 cached:", exists)
	fmt.Println("keys:", cache.Keys())
	// Output:
	// 2 cached: false
	// keys: [3 1]
}

func ExampleCache_Resize() {
	cache, _ := lrucache.NewSimple[string, int](3)
	_ = cache.Store("x", 1)
	_ = cache.Store("y", 2)
	_ = cache.Store("z", 3)

	_ = cache.Resize(1)

	fmt.Println(cache.Size(), cache.PeekOldest().OrElse(-1))
	// Output: 1 3
}

func ExampleHooks_AddOnEvict() {
	hooks := lrucache.NewHooks[string, int]()
	hooks.AddOnEvict(func(_ context.Context, key string, value int, reason lrucache.EvictReason) {
		fmt.Printf("evicted %s=%d (%s)\n", key, value, reason)
	})

	cache, _ := lrucache.New(lrucache.NewSimpleConfig[string, int](1).WithHooks(hooks))
	_ = cache.Store("a", 1)
	_ = cache.Store("b", 2)
	// Output: evicted a=1 (Capacity)
}

func ExampleOption_Get() {
	cache, _ := lrucache.NewSimple[string, int](1)

	opt, _ := cache.Retrieve("missing")
	_, err := opt.Get()
	fmt.Println(err)
	// Output: no such element
}
