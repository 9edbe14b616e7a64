// internal/inventory/service.go
package inventory

// Service defines the interface for the inventory coordinator. All
// operations are synchronous, in-memory, and safe for concurrent use.
type Service interface {
	AddTitle(id BookID) error
	RemoveTitle(id BookID) error
	Checkout(id BookID, holder MemberID) error
	Return(id BookID, returner MemberID) error
	Reserve(id BookID, requester MemberID) error
	CancelReservation(id BookID, requester MemberID) error
	TouchAccess(id BookID) error
	LeastRecentCandidate() (BookID, error)

	TitleStatus(id BookID) (Title, error)
	ShelfSequence() []BookID
	Snapshot() Snapshot
	Restore(snap Snapshot) error
}
