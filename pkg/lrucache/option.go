package lrucache

// Option holds a value that may be absent. It keeps "key absent" apart from
// "value is the zero value".
type Option[V any] struct {
	value   V
	present bool
}

// Some wraps a present value
func Some[V any](value V) Option[V] {
	return Option[V]{value: value, present: true}
}

// None returns an empty option
func None[V any]() Option[V] {
	return Option[V]{}
}

// IsPresent reports whether the option holds a value
func (o Option[V]) IsPresent() bool {
	return o.present
}

// Value returns the value and whether it was present
func (o Option[V]) Value() (V, bool) {
	return o.value, o.present
}

// Get returns the value, or ErrNotFound when empty
func (o Option[V]) Get() (V, error) {
	if !o.present {
		var zero V
		return zero, ErrNotFound
	}
	return o.value, nil
}

// OrElse returns the value or fallback when empty
func (o Option[V]) OrElse(fallback V) V {
	if !o.present {
		return fallback
	}
	return o.value
}

// OrElseGet returns the value or the result of fn when empty
func (o Option[V]) OrElseGet(fn func() V) V {
	if !o.present {
		return fn()
	}
	return o.value
}

// IfPresent calls fn with the value when present
func (o Option[V]) IfPresent(fn func(V)) {
	if o.present {
		fn(o.value)
	}
}
