package lrucache

import "errors"

var (
	// ErrInvalidKey is returned when a key fails the configured KeyValidator.
	// The cache is left unchanged.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidCapacity is returned by New and Resize for a capacity below 1
	ErrInvalidCapacity = errors.New("capacity should be a positive number")

	// ErrMissingValue is returned by Store when the value is nil
	ErrMissingValue = errors.New("value is missing")

	// ErrNotFound is returned by Option.Get on an empty option.
	// Cache lookups never return it; absence is an empty Option.
	ErrNotFound = errors.New("no such element")
)
