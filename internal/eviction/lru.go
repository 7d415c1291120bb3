package eviction

// LRU tracks entries in strict recency order and evicts from the tail when
// capacity is exceeded. It is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	index    *Index[K, V]
	list     *List[K, V]
	capacity int
}

// NewLRU creates a new LRU tracker. capacity must be positive; validation is
// the caller's job.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		index:    NewIndex[K, V](capacity),
		list:     NewList[K, V](),
		capacity: capacity,
	}
}

// Add inserts or replaces the value for key and promotes it to head.
// Growth past capacity evicts exactly one entry from the tail; an update never evicts.
func (l *LRU[K, V]) Add(key K, value V) ([]Entry[K, V], bool) {
	if n, ok := l.index.Lookup(key); ok {
		n.Value = value
		l.list.MoveToFront(n)
		return nil, true
	}

	n := NewNode(key, value)
	l.index.Insert(key, n)
	l.list.PushFront(n)

	if l.index.Count() > l.capacity {
		if e, ok := l.removeOldest(); ok {
			return []Entry[K, V]{e}, false
		}
	}
	return nil, false
}

// Get returns the value for key and promotes it to head
func (l *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := l.index.Lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	l.list.MoveToFront(n)
	return n.Value, true
}

// Peek returns the value for key without promotion
func (l *LRU[K, V]) Peek(key K) (V, bool) {
	n, ok := l.index.Lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return n.Value, true
}

// Remove drops key from the index and detaches its node
func (l *LRU[K, V]) Remove(key K) (Entry[K, V], bool) {
	n, ok := l.index.Remove(key)
	if !ok {
		return Entry[K, V]{}, false
	}
	l.list.Unlink(n)
	return n.entry(), true
}

// Contains reports membership without touching recency
func (l *LRU[K, V]) Contains(key K) bool {
	return l.index.Contains(key)
}

// Oldest returns the tail entry
func (l *LRU[K, V]) Oldest() (Entry[K, V], bool) {
	if n := l.list.Back(); n != nil {
		return n.entry(), true
	}
	return Entry[K, V]{}, false
}

// Newest returns the head entry
func (l *LRU[K, V]) Newest() (Entry[K, V], bool) {
	if n := l.list.Front(); n != nil {
		return n.entry(), true
	}
	return Entry[K, V]{}, false
}

// Keys returns keys from most to least recently used
func (l *LRU[K, V]) Keys() []K {
	return l.list.Keys()
}

// Len returns the number of live entries
func (l *LRU[K, V]) Len() int {
	return l.index.Count()
}

// Capacity returns the configured capacity
func (l *LRU[K, V]) Capacity() int {
	return l.capacity
}

// Purge empties the tracker and returns what it held, most recent first
func (l *LRU[K, V]) Purge() []Entry[K, V] {
	purged := make([]Entry[K, V], 0, l.list.Len())
	for n := l.list.Front(); n != nil; n = n.Next() {
		purged = append(purged, n.entry())
	}
	l.list.Reset()
	l.index.Reset()
	return purged
}

// Resize sets a new capacity and evicts from the tail until Len() <= capacity.
// Evicted entries are returned oldest first.
func (l *LRU[K, V]) Resize(capacity int) []Entry[K, V] {
	l.capacity = capacity

	over := l.index.Count() - capacity
	if over <= 0 {
		return nil
	}

	evicted := make([]Entry[K, V], 0, over)
	for l.index.Count() > capacity {
		e, ok := l.removeOldest()
		if !ok {
			break
		}
		evicted = append(evicted, e)
	}
	return evicted
}

func (l *LRU[K, V]) removeOldest() (Entry[K, V], bool) {
	n := l.list.PopBack()
	if n == nil {
		return Entry[K, V]{}, false
	}
	l.index.Remove(n.Key)
	return n.entry(), true
}
