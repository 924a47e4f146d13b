package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("todo not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// StoreError оборачивает любую ошибку хранилища: драйвер, сеть, отмену контекста
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
