package lrucache

import (
	"fmt"
	"reflect"
)

// KeyValidator reports whether a key is acceptable. It is called before every
// keyed operation touches the cache.
type KeyValidator[K comparable] func(key K) bool

// AcceptAllKeys returns a validator that accepts every key
func AcceptAllKeys[K comparable]() KeyValidator[K] {
	return func(K) bool { return true }
}

// NonZeroKey returns a validator rejecting the zero value of K, e.g. "" or 0
func NonZeroKey[K comparable]() KeyValidator[K] {
	var zero K
	return func(key K) bool { return key != zero }
}

// ValidateCapacity returns ErrInvalidCapacity unless capacity is strictly positive
func ValidateCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity=%d", ErrInvalidCapacity, capacity)
	}
	return nil
}

// ValidateValue returns ErrMissingValue for nil values: a nil interface, or a
// nil pointer, map, slice, channel or func.
func ValidateValue[V any](value V) error {
	rv := reflect.ValueOf(any(value))
	if !rv.IsValid() {
		return ErrMissingValue
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		if rv.IsNil() {
			return fmt.Errorf("%w: nil %s", ErrMissingValue, rv.Type())
		}
	}
	return nil
}

func (c *Cache[K, V]) validateKey(key K) error {
	if !c.validKey(key) {
		return fmt.Errorf("%w: key=%v", ErrInvalidKey, key)
	}
	return nil
}
