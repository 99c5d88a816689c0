package feed

import (
	"errors"
	"fmt"
)

// FetchError reports a failed page request. The cursor is left ready for a
// retry; nothing already in the store is touched.
type FetchError struct {
	Key       QueryKey
	Page      int
	Retryable bool
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s page %d: %v", e.Key, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NonRetryable marks a data-source error as permanent (bad request, undecodable body).
type NonRetryable struct {
	Err error
}

func (e NonRetryable) Error() string { return e.Err.Error() }

func (e NonRetryable) Unwrap() error { return e.Err }

func newFetchError(key QueryKey, page int, err error) *FetchError {
	var perm NonRetryable
	return &FetchError{
		Key:       key,
		Page:      page,
		Retryable: !errors.As(err, &perm),
		Err:       err,
	}
}

// IsRetryable reports whether err is a FetchError the caller may retry.
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}
