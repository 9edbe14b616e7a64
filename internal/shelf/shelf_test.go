package shelf

import (
	"reflect"
	"testing"
)

func TestInsertFrontOrdering(t *testing.T) {
	s := New[string]()
	s.InsertFront("a")
	s.InsertFront("b")
	s.InsertFront("c")

	got := s.FrontToBack()
	want := []string{"c", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FrontToBack() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestTouchMovesToFront(t *testing.T) {
	s := New[string]()
	s.InsertFront("a")
	s.InsertFront("b")
	s.Touch("a")

	got := s.FrontToBack()
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FrontToBack() = %v, want %v", got, want)
	}
}

func TestTouchIsIdempotent(t *testing.T) {
	s := New[string]()
	s.InsertFront("a")
	s.InsertFront("b")
	s.InsertFront("c")

	s.Touch("b")
	once := s.FrontToBack()
	s.Touch("b")
	twice := s.FrontToBack()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second touch changed order: %v vs %v", once, twice)
	}
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(twice, want) {
		t.Fatalf("FrontToBack() = %v, want %v", twice, want)
	}
}

func TestRemove(t *testing.T) {
	s := New[string]()
	s.InsertFront("a")
	s.InsertFront("b")
	s.InsertFront("c")
	s.Remove("b")

	if s.Contains("b") {
		t.Fatal("Contains(b) = true after Remove")
	}
	if want := []string{"c", "a"}; !reflect.DeepEqual(s.FrontToBack(), want) {
		t.Fatalf("FrontToBack() = %v, want %v", s.FrontToBack(), want)
	}

	// Removing the ends must keep the sentinels linked.
	s.Remove("c")
	s.Remove("a")
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	if got := s.FrontToBack(); len(got) != 0 {
		t.Fatalf("FrontToBack() = %v, want empty", got)
	}
}

func TestPeekBack(t *testing.T) {
	s := New[string]()
	if _, ok := s.PeekBack(); ok {
		t.Fatal("PeekBack() ok = true on empty shelf")
	}

	s.InsertFront("a")
	s.InsertFront("b")
	if back, ok := s.PeekBack(); !ok || back != "a" {
		t.Fatalf("PeekBack() = %q, %v; want a, true", back, ok)
	}

	// Peek must not reorder.
	if want := []string{"b", "a"}; !reflect.DeepEqual(s.FrontToBack(), want) {
		t.Fatalf("FrontToBack() = %v, want %v", s.FrontToBack(), want)
	}
}

func TestFrontToBackIsSnapshot(t *testing.T) {
	s := New[string]()
	s.InsertFront("a")
	s.InsertFront("b")

	snap := s.FrontToBack()
	s.Remove("b")
	s.Touch("a")

	if want := []string{"b", "a"}; !reflect.DeepEqual(snap, want) {
		t.Fatalf("snapshot mutated: %v, want %v", snap, want)
	}
}

func TestLookupAndSequenceAgree(t *testing.T) {
	s := New[int]()
	for i := 0; i < 10; i++ {
		s.InsertFront(i)
	}
	s.Remove(3)
	s.Remove(7)
	s.Touch(0)
	s.Touch(9)

	seq := s.FrontToBack()
	if len(seq) != s.Len() {
		t.Fatalf("sequence length %d != Len() %d", len(seq), s.Len())
	}
	seen := make(map[int]bool, len(seq))
	for _, k := range seq {
		if seen[k] {
			t.Fatalf("duplicate key %d in sequence", k)
		}
		seen[k] = true
		if !s.Contains(k) {
			t.Fatalf("sequence key %d missing from lookup", k)
		}
	}
}

func TestMisusePanics(t *testing.T) {
	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s did not panic", name)
			}
		}()
		fn()
	}

	s := New[string]()
	s.InsertFront("a")
	mustPanic("duplicate InsertFront", func() { s.InsertFront("a") })
	mustPanic("Touch of absent key", func() { s.Touch("missing") })
	mustPanic("Remove of absent key", func() { s.Remove("missing") })
}
