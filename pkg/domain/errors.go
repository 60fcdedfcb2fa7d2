package domain

import (
	"errors"
	"fmt"
)

// sentinel errors for store operations
var (
	ErrDuplicate        = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("seen store unavailable")
)

// FetchError is a source-scoped network or parse failure, never fatal to a run
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StoreError is a persistence failure of one of the stores
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
