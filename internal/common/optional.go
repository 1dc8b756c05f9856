package common

import (
	"encoding/json"
)

// Optional records whether a JSON field was present in a request body.
// An explicit null is present with the zero value of T, so use a pointer
// type for fields where null is meaningful.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON is only called when the key exists in the object.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the wrapped value; absent values render as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
