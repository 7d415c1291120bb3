// Package eviction holds the recency bookkeeping behind the cache: a key index,
// an intrusive doubly linked recency list, and the LRU tracker combining them.
//
// Nothing in this package is safe for concurrent use. The owning cache serializes
// access with its own lock.
package eviction

// Entry is a key/value pair removed from the tracker, returned so callers can
// report evictions after releasing their lock.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Tracker defines the operations the cache engine needs from its recency tracker
type Tracker[K comparable, V any] interface {
	// Add inserts or updates an entry and marks it most recently used.
	// Returns any entries evicted to stay within capacity.
	Add(key K, value V) (evicted []Entry[K, V], updated bool)

	// Get retrieves a value and marks it most recently used
	Get(key K) (V, bool)

	// Peek retrieves a value without updating its position in the recency order
	Peek(key K) (V, bool)

	// Remove removes an entry from the tracker
	Remove(key K) (Entry[K, V], bool)

	// Contains checks if a key is tracked
	Contains(key K) bool

	// Oldest returns the least recently used entry
	Oldest() (Entry[K, V], bool)

	// Newest returns the most recently used entry
	Newest() (Entry[K, V], bool)

	// Keys returns tracked keys from most to least recently used
	Keys() []K

	// Len returns the number of entries currently tracked
	Len() int

	// Purge removes every entry and returns them, most recently used first
	Purge() []Entry[K, V]

	// Capacity returns the maximum number of entries this tracker can hold
	Capacity() int

	// Resize changes the capacity, returning entries evicted to fit, oldest first
	Resize(capacity int) []Entry[K, V]
}

var _ Tracker[string, int] = (*LRU[string, int])(nil)
