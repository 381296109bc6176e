package journal

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a payload field was present, explicitly null, or
// carried a value. A value that fails to decode is kept as Err so it can be
// reported against its field instead of failing the whole payload.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
	Err   error
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: value}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		o.Err = err
	}
	return nil
}
