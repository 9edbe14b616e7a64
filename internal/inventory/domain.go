// internal/inventory/domain.go
package inventory

import (
	"slices"

	"github.com/google/uuid"
)

// BookID identifies a title in the catalog. It is opaque to the
// inventory; callers decide what it encodes (ISBN, UUID, shelf mark).
type BookID string

// MemberID identifies a borrower or hold requester.
type MemberID string

// Status is the physical circulation state of a title.
type Status string

const (
	StatusOnShelf    Status = "on_shelf"
	StatusCheckedOut Status = "checked_out"
	StatusRemoved    Status = "removed"
)

// BookState is the per-title state machine. Fields are unexported so
// every transition goes through the methods below, which validate
// before mutating; a failed transition leaves the state untouched.
//
// holder is set iff status is StatusCheckedOut. holds is the FIFO hold
// queue, head first; it is orthogonal to status (a title can be on the
// shelf or checked out with holds pending) but is always empty once a
// title is removed.
type BookState struct {
	status Status
	holder MemberID
	holds  []MemberID
}

func newBookState() *BookState {
	return &BookState{status: StatusOnShelf}
}

// checkout transitions OnShelf -> CheckedOut. A title with pending
// holds may only go to the head requester.
func (b *BookState) checkout(holder MemberID) error {
	if b.status != StatusOnShelf {
		return ErrNotAvailable
	}
	if len(b.holds) > 0 && b.holds[0] != holder {
		return ErrReservedForOther
	}
	if len(b.holds) > 0 {
		b.holds = b.holds[1:]
	}
	b.status = StatusCheckedOut
	b.holder = holder
	return nil
}

// giveBack transitions CheckedOut -> OnShelf. The returned flag reports
// whether a hold is now claimable; the coordinator emits the
// notification after it releases its lock.
func (b *BookState) giveBack(returner MemberID) (claimable bool, err error) {
	if b.status != StatusCheckedOut {
		return false, ErrNotCheckedOut
	}
	if b.holder != returner {
		return false, ErrWrongHolder
	}
	b.status = StatusOnShelf
	b.holder = ""
	return len(b.holds) > 0, nil
}

// retire transitions to StatusRemoved, the terminal state. A title
// someone holds or is waiting for cannot be retired.
func (b *BookState) retire() error {
	if b.status == StatusCheckedOut || len(b.holds) > 0 {
		return ErrTitleInUse
	}
	b.status = StatusRemoved
	b.holder = ""
	return nil
}

// addHold appends requester to the hold queue. No duplicate holds.
func (b *BookState) addHold(requester MemberID) error {
	if slices.Contains(b.holds, requester) {
		return ErrAlreadyQueued
	}
	b.holds = append(b.holds, requester)
	return nil
}

// dropHold removes requester from anywhere in the queue.
func (b *BookState) dropHold(requester MemberID) error {
	i := slices.Index(b.holds, requester)
	if i < 0 {
		return ErrNotQueued
	}
	b.holds = slices.Delete(b.holds, i, i+1)
	return nil
}

func (b *BookState) headHold() MemberID {
	if len(b.holds) == 0 {
		return ""
	}
	return b.holds[0]
}

// Title is the read-model view of one title, safe to hand out: the
// hold queue is copied.
type Title struct {
	ID     BookID     `json:"id"`
	Status Status     `json:"status"`
	Holder MemberID   `json:"holder,omitempty"`
	Holds  []MemberID `json:"holds,omitempty"`
}

func (b *BookState) view(id BookID) Title {
	return Title{
		ID:     id,
		Status: b.status,
		Holder: b.holder,
		Holds:  slices.Clone(b.holds),
	}
}

// Snapshot captures the full inventory: every live title plus the shelf
// order, front (most recently touched) first. A snapshot restored into
// a fresh Library reproduces recency semantics exactly.
type Snapshot struct {
	Titles     []Title  `json:"titles"`
	ShelfOrder []BookID `json:"shelf_order"`
}

// HoldAvailableEvent is emitted after a return leaves a non-empty hold
// queue: the title is back on the shelf and claimable by MemberID, the
// head requester. It is a notification, not an automatic checkout; a
// scheduler outside the inventory decides what to do with it.
type HoldAvailableEvent struct {
	EventID  uuid.UUID `json:"event_id"`
	BookID   BookID    `json:"book_id"`
	MemberID MemberID  `json:"member_id"`
}

// Notifier receives hold-available events. It is invoked after the
// coordinator's lock is released, so it may call back into the Library.
type Notifier func(HoldAvailableEvent)
