package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingData  = errors.New("missing data")
	ErrUserNotFound = errors.New("user not found")
)

// StorageError wraps an unexpected persistence failure. Its message is for
// logs only and is never sent to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error { return &StorageError{Op: op, Err: err} }
