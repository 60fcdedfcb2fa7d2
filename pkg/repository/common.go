package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// errCritical marks errors the lock retry must not repeat
var errCritical = errors.New("critical")

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// retryOnLock runs fn, repeating it with backoff while sqlite reports busy/locked
func retryOnLock(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		err := fn()
		if err == nil || isLockError(err) {
			return err
		}
		return fmt.Errorf("%w: %w", errCritical, err)
	}, errCritical)
	return unwrapCritical(err)
}

// unwrapCritical strips the errCritical marker, keeping the original error
func unwrapCritical(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok && errors.Is(err, errCritical) {
		for _, e := range joined.Unwrap() {
			if e != errCritical { //nolint:errorlint // marker identity check
				return e
			}
		}
	}
	return err
}
