package lrucache

import (
	"context"
	"sort"
)

// Hook defines a cache event hook with optional priority and condition
type Hook[K comparable, V any] struct {
	// Priority determines execution order (higher values execute first)
	// Hooks with equal priority run in registration order
	Priority int

	// Condition optionally filters hook execution
	// If nil, hook always executes
	// If returns false, hook is skipped
	Condition func(ctx context.Context, key K) bool

	// Handler is the actual hook function
	// Set exactly one of: OnHit, OnMiss, OnEvict, OnInvalidate
	OnHit        func(ctx context.Context, key K, value V)
	OnMiss       func(ctx context.Context, key K)
	OnEvict      func(ctx context.Context, key K, value V, reason EvictReason)
	OnInvalidate func(ctx context.Context, key K)
}

// Hooks contains all registered cache event hooks.
// Hooks run after the cache lock is released, so a hook may call back into the cache.
// Register hooks before handing them to New; registration is not synchronized.
type Hooks[K comparable, V any] struct {
	onHit        []Hook[K, V]
	onMiss       []Hook[K, V]
	onEvict      []Hook[K, V]
	onInvalidate []Hook[K, V]
}

// NewHooks creates a new Hooks instance
func NewHooks[K comparable, V any]() *Hooks[K, V] {
	return &Hooks[K, V]{}
}

// EvictReason indicates why the LRU policy removed an entry
type EvictReason int

const (
	// EvictReasonCapacity indicates a Store grew the cache past its capacity
	EvictReasonCapacity EvictReason = iota

	// EvictReasonResize indicates Resize shrank the cache below its size
	EvictReasonResize
)

func (r EvictReason) String() string {
	switch r {
	case EvictReasonCapacity:
		return "Capacity"
	case EvictReasonResize:
		return "Resize"
	default:
		return "Unknown"
	}
}

// AddOnHit registers a hook that executes when Retrieve finds a key
func (h *Hooks[K, V]) AddOnHit(fn func(ctx context.Context, key K, value V), opts ...HookOption[K]) {
	h.onHit = append(h.onHit, newHook(Hook[K, V]{OnHit: fn}, opts))
}

// AddOnMiss registers a hook that executes when Retrieve misses
func (h *Hooks[K, V]) AddOnMiss(fn func(ctx context.Context, key K), opts ...HookOption[K]) {
	h.onMiss = append(h.onMiss, newHook(Hook[K, V]{OnMiss: fn}, opts))
}

// AddOnEvict registers a hook that executes when the LRU policy removes an entry
func (h *Hooks[K, V]) AddOnEvict(fn func(ctx context.Context, key K, value V, reason EvictReason), opts ...HookOption[K]) {
	h.onEvict = append(h.onEvict, newHook(Hook[K, V]{OnEvict: fn}, opts))
}

// AddOnInvalidate registers a hook that executes when Evict or Clear removes an entry
func (h *Hooks[K, V]) AddOnInvalidate(fn func(ctx context.Context, key K), opts ...HookOption[K]) {
	h.onInvalidate = append(h.onInvalidate, newHook(Hook[K, V]{OnInvalidate: fn}, opts))
}

// HookOption configures a hook registered on Hooks with key type K
type HookOption[K comparable] func(*hookOptions[K])

type hookOptions[K comparable] struct {
	priority  int
	condition func(ctx context.Context, key K) bool
}

// WithPriority sets the hook execution priority (higher values execute first)
func WithPriority[K comparable](priority int) HookOption[K] {
	return func(o *hookOptions[K]) {
		o.priority = priority
	}
}

// WithCondition sets a condition that must be true for the hook to execute
func WithCondition[K comparable](condition func(ctx context.Context, key K) bool) HookOption[K] {
	return func(o *hookOptions[K]) {
		o.condition = condition
	}
}

func newHook[K comparable, V any](hook Hook[K, V], opts []HookOption[K]) Hook[K, V] {
	var o hookOptions[K]
	for _, opt := range opts {
		opt(&o)
	}

	hook.Priority = o.priority
	hook.Condition = o.condition
	return hook
}

func (h *Hooks[K, V]) invokeOnHit(ctx context.Context, key K, value V) {
	invokeHooks(h.onHit, func(hook Hook[K, V]) {
		if hook.Condition == nil || hook.Condition(ctx, key) {
			hook.OnHit(ctx, key, value)
		}
	})
}

func (h *Hooks[K, V]) invokeOnMiss(ctx context.Context, key K) {
	invokeHooks(h.onMiss, func(hook Hook[K, V]) {
		if hook.Condition == nil || hook.Condition(ctx, key) {
			hook.OnMiss(ctx, key)
		}
	})
}

func (h *Hooks[K, V]) invokeOnEvict(ctx context.Context, key K, value V, reason EvictReason) {
	invokeHooks(h.onEvict, func(hook Hook[K, V]) {
		if hook.Condition == nil || hook.Condition(ctx, key) {
			hook.OnEvict(ctx, key, value, reason)
		}
	})
}

func (h *Hooks[K, V]) invokeOnInvalidate(ctx context.Context, key K) {
	invokeHooks(h.onInvalidate, func(hook Hook[K, V]) {
		if hook.Condition == nil || hook.Condition(ctx, key) {
			hook.OnInvalidate(ctx, key)
		}
	})
}

// invokeHooks executes hooks in priority order (highest priority first)
func invokeHooks[K comparable, V any](hooks []Hook[K, V], execute func(Hook[K, V])) {
	if len(hooks) == 0 {
		return
	}

	if len(hooks) > 1 {
		sorted := make([]Hook[K, V], len(hooks))
		copy(sorted, hooks)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
		hooks = sorted
	}

	for _, hook := range hooks {
		execute(hook)
	}
}
