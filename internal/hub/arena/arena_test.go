package arena

import "testing"

func TestAllocateGetDelete(t *testing.T) {
	a := New[string]()
	id0 := a.Allocate("zero")
	id1 := a.Allocate("one")

	if v, ok := a.Get(id0); !ok || v != "zero" {
		t.Fatalf("Get(%d) = %q, %v; want \"zero\", true", id0, v, ok)
	}
	if v, ok := a.Get(id1); !ok || v != "one" {
		t.Fatalf("Get(%d) = %q, %v; want \"one\", true", id1, v, ok)
	}

	a.Delete(id0)
	if _, ok := a.Get(id0); ok {
		t.Fatalf("Get(%d) succeeded after Delete", id0)
	}
	// second delete of the same id is a no-op.
	a.Delete(id0)
	if v, ok := a.Get(id1); !ok || v != "one" {
		t.Fatalf("unrelated slot damaged by double delete: %q, %v", v, ok)
	}
}

func TestAllocateRecyclesFreedSlots(t *testing.T) {
	a := New[int]()
	id0 := a.Allocate(10)
	a.Allocate(20)
	a.Delete(id0)

	id2 := a.Allocate(30)
	if id2 != id0 {
		t.Fatalf("Allocate after Delete = id %d, want recycled id %d", id2, id0)
	}
	if v, _ := a.Get(id2); v != 30 {
		t.Fatalf("recycled slot holds %d, want 30", v)
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
}

func TestEnumerateSkipsTombstonesInInsertionOrder(t *testing.T) {
	a := New[string]()
	a.Allocate("a")
	idB := a.Allocate("b")
	a.Allocate("c")
	a.Delete(idB)

	var got []string
	a.Enumerate(func(_ ID, v string) bool {
		got = append(got, v)
		return true
	})
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("Enumerate = %v, want [a c]", got)
	}
}

func TestMustGetPanicsOnDeletedSlot(t *testing.T) {
	a := New[int]()
	id := a.Allocate(1)
	a.Delete(id)

	defer func() {
		if recover() == nil {
			t.Fatalf("MustGet on a deleted slot did not panic")
		}
	}()
	a.MustGet(id)
}
