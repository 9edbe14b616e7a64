// Package shelf implements the library's recency-ordered display shelf:
// a doubly linked list over opaque keys with an auxiliary lookup map,
// giving O(1) insert, touch (move-to-front), and removal by key.
//
// The front of the shelf holds the most recently touched key, the back
// the least recently touched. The shelf has no capacity and never evicts
// on its own; callers decide what to do with the back candidate.
package shelf

import "fmt"

type node[K comparable] struct {
	key  K
	prev *node[K]
	next *node[K]
}

// Shelf is not safe for concurrent use. Callers serialize access; the
// inventory coordinator holds its own lock around every shelf mutation.
//
// Preconditions (key present / absent) are the caller's responsibility.
// Violating one is a defect in the caller, not a runtime condition, so
// the mutating methods panic rather than return an error.
type Shelf[K comparable] struct {
	byKey map[K]*node[K]
	head  *node[K] // sentinel; head.next is the front
	tail  *node[K] // sentinel; tail.prev is the back
}

// New returns an empty shelf.
func New[K comparable]() *Shelf[K] {
	s := &Shelf[K]{
		byKey: make(map[K]*node[K]),
		head:  &node[K]{},
		tail:  &node[K]{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

func (s *Shelf[K]) linkFront(n *node[K]) {
	n.prev = s.head
	n.next = s.head.next
	s.head.next.prev = n
	s.head.next = n
}

func (s *Shelf[K]) unlink(n *node[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

// InsertFront places key at the front of the shelf.
// Panics if key is already present.
func (s *Shelf[K]) InsertFront(key K) {
	if _, ok := s.byKey[key]; ok {
		panic(fmt.Sprintf("shelf: insert of key already present: %v", key))
	}
	n := &node[K]{key: key}
	s.linkFront(n)
	s.byKey[key] = n
}

// Touch moves key to the front, marking it as just accessed. Touching
// the key already at the front leaves the order unchanged.
// Panics if key is not present.
func (s *Shelf[K]) Touch(key K) {
	n, ok := s.byKey[key]
	if !ok {
		panic(fmt.Sprintf("shelf: touch of key not present: %v", key))
	}
	s.unlink(n)
	s.linkFront(n)
}

// Remove takes key off the shelf.
// Panics if key is not present.
func (s *Shelf[K]) Remove(key K) {
	n, ok := s.byKey[key]
	if !ok {
		panic(fmt.Sprintf("shelf: remove of key not present: %v", key))
	}
	s.unlink(n)
	delete(s.byKey, key)
}

// PeekBack reports the least recently touched key without mutating the
// shelf. The second return is false when the shelf is empty.
func (s *Shelf[K]) PeekBack() (K, bool) {
	if s.tail.prev == s.head {
		var zero K
		return zero, false
	}
	return s.tail.prev.key, true
}

// Contains reports whether key is on the shelf.
func (s *Shelf[K]) Contains(key K) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len reports the number of keys on the shelf.
func (s *Shelf[K]) Len() int {
	return len(s.byKey)
}

// FrontToBack returns the keys from most to least recently touched.
// The slice is a snapshot; later shelf mutations do not affect it.
func (s *Shelf[K]) FrontToBack() []K {
	keys := make([]K, 0, len(s.byKey))
	for n := s.head.next; n != s.tail; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}
