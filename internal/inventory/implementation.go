// internal/inventory/implementation.go
package inventory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"shelftrack/internal/shelf"
)

// library implements the Service interface. It is the sole mutator of
// the per-title state machines and the shelf, and it keeps the two in
// lockstep: a title is on the shelf iff its status is StatusOnShelf.
//
// Every operation runs under one coarse mutex. The invariant spans two
// structures, so finer locking cannot maintain it; all operations are
// O(1) or O(hold queue), so holding the lock for a whole operation is
// cheap. Each operation validates against the state machine first and
// mutates the shelf last, so a surfaced error means nothing changed.
type library struct {
	mu       sync.Mutex
	titles   map[BookID]*BookState
	shelf    *shelf.Shelf[BookID]
	notifier Notifier
}

// NewService creates an empty inventory. notifier receives
// hold-available events and may be nil.
func NewService(notifier Notifier) Service {
	return &library{
		titles:   make(map[BookID]*BookState),
		shelf:    shelf.New[BookID](),
		notifier: notifier,
	}
}

// AddTitle registers a new title, on the shelf at the front.
func (l *library) AddTitle(id BookID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.titles[id]; ok {
		return ErrDuplicateTitle
	}
	l.titles[id] = newBookState()
	l.shelf.InsertFront(id)
	return nil
}

// RemoveTitle retires a title from the catalog. A title that is checked
// out or has pending holds cannot be removed.
func (l *library) RemoveTitle(id BookID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return ErrUnknownTitle
	}
	if err := b.retire(); err != nil {
		return err
	}
	delete(l.titles, id)
	l.shelf.Remove(id)
	return nil
}

// Checkout hands the title to holder and takes it off the shelf. A
// title with pending holds may only be checked out by the head
// requester; claiming it also consumes that hold.
func (l *library) Checkout(id BookID, holder MemberID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return ErrUnknownTitle
	}
	if err := b.checkout(holder); err != nil {
		return err
	}
	l.shelf.Remove(id)
	return nil
}

// Return puts the title back on the shelf at the front. Only the
// recorded holder may return it. If holds are pending, a
// HoldAvailableEvent for the head requester is delivered to the
// notifier after the lock is released.
func (l *library) Return(id BookID, returner MemberID) error {
	l.mu.Lock()
	b, ok := l.titles[id]
	if !ok {
		l.mu.Unlock()
		return ErrUnknownTitle
	}
	claimable, err := b.giveBack(returner)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.shelf.InsertFront(id)
	head := b.headHold()
	l.mu.Unlock()

	if claimable && l.notifier != nil {
		l.notifier(HoldAvailableEvent{
			EventID:  uuid.New(),
			BookID:   id,
			MemberID: head,
		})
	}
	return nil
}

// Reserve appends requester to the title's hold queue.
func (l *library) Reserve(id BookID, requester MemberID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return ErrUnknownTitle
	}
	return b.addHold(requester)
}

// CancelReservation removes requester from the hold queue, wherever
// they sit in it.
func (l *library) CancelReservation(id BookID, requester MemberID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return ErrUnknownTitle
	}
	return b.dropHold(requester)
}

// TouchAccess marks an on-shelf title as just accessed, moving it to
// the front of the recency order.
func (l *library) TouchAccess(id BookID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return ErrUnknownTitle
	}
	if b.status != StatusOnShelf {
		return ErrNotOnShelf
	}
	l.shelf.Touch(id)
	return nil
}

// LeastRecentCandidate reports the least recently touched title on the
// shelf, the first candidate for weeding. It does not affect recency.
func (l *library) LeastRecentCandidate() (BookID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.shelf.PeekBack()
	if !ok {
		return "", ErrEmptyShelf
	}
	return id, nil
}

// TitleStatus reports the current state of one title. Lookups are not
// accesses: they do not touch the recency order.
func (l *library) TitleStatus(id BookID) (Title, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.titles[id]
	if !ok {
		return Title{}, ErrUnknownTitle
	}
	return b.view(id), nil
}

// ShelfSequence reports the shelf order, most recently touched first.
func (l *library) ShelfSequence() []BookID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shelf.FrontToBack()
}

// Snapshot captures every title and the shelf order for persistence.
func (l *library) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		Titles:     make([]Title, 0, len(l.titles)),
		ShelfOrder: l.shelf.FrontToBack(),
	}
	for id, b := range l.titles {
		snap.Titles = append(snap.Titles, b.view(id))
	}
	return snap
}

// Restore replaces the inventory with the snapshot's contents,
// rebuilding the shelf in the recorded order. The snapshot is validated
// before anything is replaced; an invalid snapshot leaves the current
// inventory untouched.
func (l *library) Restore(snap Snapshot) error {
	titles := make(map[BookID]*BookState, len(snap.Titles))
	for _, t := range snap.Titles {
		if _, ok := titles[t.ID]; ok {
			return fmt.Errorf("restore: duplicate title %q", t.ID)
		}
		switch t.Status {
		case StatusOnShelf:
			if t.Holder != "" {
				return fmt.Errorf("restore: title %q on shelf with holder", t.ID)
			}
		case StatusCheckedOut:
			if t.Holder == "" {
				return fmt.Errorf("restore: title %q checked out without holder", t.ID)
			}
		default:
			return fmt.Errorf("restore: title %q has status %q", t.ID, t.Status)
		}
		titles[t.ID] = &BookState{
			status: t.Status,
			holder: t.Holder,
			holds:  append([]MemberID(nil), t.Holds...),
		}
	}

	rebuilt := shelf.New[BookID]()
	for i := len(snap.ShelfOrder) - 1; i >= 0; i-- {
		id := snap.ShelfOrder[i]
		b, ok := titles[id]
		if !ok || b.status != StatusOnShelf {
			return fmt.Errorf("restore: shelf order lists %q which is not an on-shelf title", id)
		}
		if rebuilt.Contains(id) {
			return fmt.Errorf("restore: shelf order lists %q twice", id)
		}
		rebuilt.InsertFront(id)
	}
	for id, b := range titles {
		if b.status == StatusOnShelf && !rebuilt.Contains(id) {
			return fmt.Errorf("restore: on-shelf title %q missing from shelf order", id)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.titles = titles
	l.shelf = rebuilt
	return nil
}
