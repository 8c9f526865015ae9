package task

import "errors"

var (
	// ErrInvalidInput indicates a missing project id or title, or a
	// non-positive bounty.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrDuplicateProject indicates the project id was already used, even by
	// a since-cancelled task. Ids are never reused.
	ErrDuplicateProject = errors.New("project id already taken")
	// ErrValueMismatch indicates the transferred funds do not equal the
	// declared bounty.
	ErrValueMismatch = errors.New("transferred value does not match declared bounty")
	// ErrNotFound indicates no task exists for the project id.
	ErrNotFound = errors.New("task not found")
	// ErrNotActive indicates the task was already cancelled.
	ErrNotActive = errors.New("task not active")
	// ErrUnauthorized indicates the caller is not the original submitter.
	ErrUnauthorized = errors.New("caller is not the task submitter")
	// ErrLedgerRejected wraps an escrow transfer failure; the owning
	// operation rolls back entirely.
	ErrLedgerRejected = errors.New("ledger rejected transfer")
)
