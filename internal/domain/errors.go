package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed marks a non-2xx status or transport failure on a remote call.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNotFound is returned when a number path or remote path does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrWrongKind is returned when a file is used where a folder is expected, or vice versa.
	ErrWrongKind = errors.New("wrong item kind")
	// ErrExtraction marks a document that could not be parsed.
	ErrExtraction = errors.New("extraction failed")
)

// FetchError describes a failed remote call. It matches ErrFetchFailed.
type FetchError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Timeout reports whether the call was aborted by its deadline.
func (e *FetchError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsTimeout reports whether err is a FetchError caused by a deadline.
func IsTimeout(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Timeout()
}
