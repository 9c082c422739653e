package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-record lookups that match no row.
var ErrNotFound = errors.New("not found")

// MalformedPointError reports a stored point that failed WKT decoding.
// Callers substitute the origin point and keep going; one bad record must
// never fail an entire listing.
type MalformedPointError struct {
	Text string
}

func (e *MalformedPointError) Error() string {
	return fmt.Sprintf("malformed point %q", e.Text)
}

// SearchExecutionError wraps a store-level failure during a search query.
// It is surfaced to the caller and never retried at this layer.
type SearchExecutionError struct {
	Err error
}

func (e *SearchExecutionError) Error() string {
	return "search execution: " + e.Err.Error()
}

func (e *SearchExecutionError) Unwrap() error { return e.Err }

// TransactionError wraps a failure inside the two-row creation write.
// Both inserts are rolled back before it is returned.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
