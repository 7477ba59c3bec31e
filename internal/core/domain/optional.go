package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a patch field that distinguishes "absent", "explicitly null"
// and "set to a value". Fields absent from a patch are left untouched by an
// update; fields explicitly set to null clear the column.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON marks the field as present. A literal null marks it as a
// clear request rather than a value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional representing an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}
