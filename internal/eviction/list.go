package eviction

// List orders live nodes by recency. head is the most recently used node and
// tail the least; both are nil exactly when the list is empty.
//
// All mutation is link rewiring. Only Keys and Reset walk the list.
type List[K comparable, V any] struct {
	head *Node[K, V]
	tail *Node[K, V]
	len  int
}

// NewList creates an empty recency list
func NewList[K comparable, V any]() *List[K, V] {
	return &List[K, V]{}
}

// Front returns the most recently used node, or nil
func (l *List[K, V]) Front() *Node[K, V] { return l.head }

// Back returns the least recently used node, or nil
func (l *List[K, V]) Back() *Node[K, V] { return l.tail }

// Len returns the number of linked nodes
func (l *List[K, V]) Len() int { return l.len }

// linked reports whether n is currently part of l.
// A detached node has no neighbours and is neither head nor tail.
func (l *List[K, V]) linked(n *Node[K, V]) bool {
	return n.prev != nil || n.next != nil || l.head == n
}

// Unlink detaches n, rewiring its neighbours and the head/tail shortcuts.
// The node's own links are cleared. Unlinking a detached node is a no-op.
func (l *List[K, V]) Unlink(n *Node[K, V]) {
	if n == nil || !l.linked(n) {
		return
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}

	n.prev = nil
	n.next = nil
	l.len--
}

// PushFront places a detached node at the most recently used position.
func (l *List[K, V]) PushFront(n *Node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	} else {
		l.tail = n
	}
	l.head = n
	l.len++
}

// MoveToFront promotes n to head. This is the single recency-update primitive.
func (l *List[K, V]) MoveToFront(n *Node[K, V]) {
	if l.head == n {
		return
	}
	l.Unlink(n)
	l.PushFront(n)
}

// PopBack unlinks and returns the tail node, or nil when empty
func (l *List[K, V]) PopBack() *Node[K, V] {
	n := l.tail
	l.Unlink(n)
	return n
}

// Keys returns the keys from head to tail
func (l *List[K, V]) Keys() []K {
	keys := make([]K, 0, l.len)
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.Key)
	}
	return keys
}

// Reset detaches every node and empties the list
func (l *List[K, V]) Reset() {
	for n := l.head; n != nil; {
		next := n.next
		n.prev = nil
		n.next = nil
		n = next
	}
	l.head = nil
	l.tail = nil
	l.len = 0
}
