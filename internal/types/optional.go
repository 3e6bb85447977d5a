package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state JSON field used by partial updates.
// A field missing from the payload is absent; an explicit null is present
// and null; anything else is present with a value.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// Null returns a present Optional holding an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// Present reports whether the field appeared in the payload at all
func (o Optional[T]) Present() bool { return o.set }

// IsNull reports whether the field was sent as an explicit null
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and whether a non-null value was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

// OrElse returns the supplied value, or fallback when absent or null
func (o Optional[T]) OrElse(fallback T) T {
	if v, ok := o.Get(); ok {
		return v
	}
	return fallback
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.null = true
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
