package optional

import "encoding/json"

// Field tells apart a JSON member that was omitted, sent as null, or sent
// with a value. Decoders only call UnmarshalJSON for members that are
// present, so the zero Field means "absent".
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true

	if string(data) == "null" {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}

	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// HasValue reports whether a non-null value was supplied.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Ptr returns nil for absent or null fields.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}

	v := f.Value
	return &v
}

// ValidationValue exposes the inner value to validator custom type funcs.
func (f Field[T]) ValidationValue() any {
	if !f.HasValue() {
		return nil
	}

	return f.Value
}
