package model

import (
	"bytes"
	"encoding/json"
)

// Field is an optional value in a partial update. Set records that the key
// was present in the payload; Null records that it was present as null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
