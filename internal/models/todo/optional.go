package todo

import (
	"bytes"
	"encoding/json"
)

// Optional различает отсутствующее поле, явный null и значение.
// Set=false - поле не пришло, Set=true и Valid=false - пришёл null.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Valid = false
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero нужен для тега omitzero: неуказанное поле не сериализуется
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Ptr возвращает nil для null/отсутствия, иначе указатель на копию значения
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
