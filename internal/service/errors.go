// Package service implements the application services on top of the
// storage layer and the pure calculator core.
package service

import "errors"

// Error taxonomy, mapped once to HTTP statuses in the api package:
//
//   - ErrConsistency: upstream data corruption (split sums, zero-sum).
//     Computation aborts; a partial balance is never returned.
//   - ErrConflict: expected and user-recoverable, e.g. a second open
//     settlement for the same pair.
//   - ErrForbidden: the wrong party attempted an operation. Rejected before
//     any state mutation.
//   - ErrNotFound: unknown settlement, group, or member in scope.
//   - ErrInvalidInput: malformed request values (amounts, statuses).
var (
	ErrConsistency  = errors.New("ledger records are inconsistent")
	ErrConflict     = errors.New("conflicting settlement in progress")
	ErrForbidden    = errors.New("operation not permitted for this member")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
