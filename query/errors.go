package query

import (
	"errors"
	"fmt"
)

// ErrRegistryStopped is returned when a Registry method is called after its
// Run loop has already exited.
var ErrRegistryStopped = errors.New("query registry is no longer running")

// UnknownQueryError describes a reply that arrived for a query ID the
// registry has no record of, either because it was never allocated or
// because it has already been resolved and evicted. Registry.Dispatch
// reports that case through its bool result rather than returning this
// error, and Registry.Cancel of an unknown ID is a no-op; the mDNS engine
// logs an UnknownQueryError for each unmatched response.
type UnknownQueryError struct {
	ID uint16
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("no pending query with ID %d", e.ID)
}

// TimeoutError is returned to a query's callback when no reply arrives
// before the query's deadline.
type TimeoutError struct {
	ID uint16
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query %d timed out waiting for a reply", e.ID)
}

// CancelledError is returned to a query's callback when the registry's
// context is canceled while the query is still pending.
type CancelledError struct {
	ID uint16
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("query %d was cancelled", e.ID)
}
