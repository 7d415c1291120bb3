package eviction

// Node is an intrusive list element owned by the Index.
// prev/next are positional links only: head is MRU, tail is LRU.
type Node[K comparable, V any] struct {
	Key   K
	Value V

	prev *Node[K, V]
	next *Node[K, V]
}

// NewNode returns a detached node.
func NewNode[K comparable, V any](key K, value V) *Node[K, V] {
	return &Node[K, V]{Key: key, Value: value}
}

// Prev returns the neighbour towards the head, or nil.
func (n *Node[K, V]) Prev() *Node[K, V] { return n.prev }

// Next returns the neighbour towards the tail, or nil.
func (n *Node[K, V]) Next() *Node[K, V] { return n.next }

func (n *Node[K, V]) entry() Entry[K, V] {
	return Entry[K, V]{Key: n.Key, Value: n.Value}
}
