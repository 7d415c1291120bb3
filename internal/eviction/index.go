package eviction

// Index maps each live key to its node. It is the sole owner of nodes.
type Index[K comparable, V any] struct {
	nodes map[K]*Node[K, V]
}

// NewIndex creates an empty index sized for capacity entries
func NewIndex[K comparable, V any](capacity int) *Index[K, V] {
	return &Index[K, V]{nodes: make(map[K]*Node[K, V], capacity)}
}

// Lookup returns the node holding key
func (i *Index[K, V]) Lookup(key K) (*Node[K, V], bool) {
	n, ok := i.nodes[key]
	return n, ok
}

// Insert stores node under key, replacing any previous node
func (i *Index[K, V]) Insert(key K, node *Node[K, V]) {
	i.nodes[key] = node
}

// Remove deletes key and returns the node it pointed to
func (i *Index[K, V]) Remove(key K) (*Node[K, V], bool) {
	n, ok := i.nodes[key]
	if ok {
		delete(i.nodes, key)
	}
	return n, ok
}

// Contains reports whether key is indexed
func (i *Index[K, V]) Contains(key K) bool {
	_, ok := i.nodes[key]
	return ok
}

// Count returns the number of indexed keys
func (i *Index[K, V]) Count() int {
	return len(i.nodes)
}

// Reset drops every key
func (i *Index[K, V]) Reset() {
	clear(i.nodes)
}
