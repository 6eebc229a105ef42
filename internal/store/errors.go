package store

import (
	"errors"
	"fmt"
)

// StorageFailure reports a persistence read or write rejected by the
// underlying database (quota, corruption, locking, permission).
//
// Failures are not retried automatically. In-memory state is left unchanged
// by the failing operation, so the caller can surface the failure and retry
// the same action.
type StorageFailure struct {
	// Op names the failing operation, e.g. "add audit".
	Op string

	// Err is the underlying driver or codec error.
	Err error
}

// Error implements the error interface.
func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// IsStorageFailure reports whether err is (or wraps) a StorageFailure.
func IsStorageFailure(err error) bool {
	var sf *StorageFailure
	return errors.As(err, &sf)
}

// storageErr wraps an underlying error as a StorageFailure.
func storageErr(op string, err error) error {
	return &StorageFailure{Op: op, Err: err}
}
