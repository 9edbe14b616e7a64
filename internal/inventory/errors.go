// internal/inventory/errors.go
package inventory

import "errors"

// Every precondition violation is detected before any mutation and
// surfaced as one of these sentinels; callers match with errors.Is.
var (
	// Not-found.
	ErrUnknownTitle = errors.New("unknown title")

	// Conflict: a membership precondition on existing state failed.
	ErrDuplicateTitle = errors.New("title already in catalog")
	ErrAlreadyQueued  = errors.New("requester already holds a reservation")
	ErrNotQueued      = errors.New("requester has no reservation")

	// Illegal-state: the transition is not legal from the current state.
	ErrNotAvailable     = errors.New("title is not available for checkout")
	ErrReservedForOther = errors.New("title is reserved for another requester")
	ErrNotCheckedOut    = errors.New("title is not checked out")
	ErrWrongHolder      = errors.New("title is checked out to someone else")
	ErrNotOnShelf       = errors.New("title is not on the shelf")
	ErrTitleInUse       = errors.New("title is checked out or has pending reservations")

	// Empty-structure.
	ErrEmptyShelf = errors.New("shelf is empty")
)
