// Package arena implements the slot-recycling indexed storage the Hub
// uses for every node kind (monitors, workspaces, containers, windows).
// Ids are opaque, stable while a node is live, and may be recycled for
// a different node only after the node occupying the slot is deleted.
package arena

import "fmt"

// ID is an opaque, arena-relative identifier. The zero value is a
// valid id (slot 0 is the first one Allocate hands out), so callers
// distinguish "no id" with a separate bool/pointer, never by
// comparing to the zero ID.
type ID int

type slot[T any] struct {
	alive bool
	value T
}

// Arena is a typed append-and-recycle store. It is not safe for
// concurrent use; the Hub that owns it is single-threaded.
type Arena[T any] struct {
	slots []slot[T]
	free  []ID
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Allocate stores v in a freed slot if one is available, else appends
// a new slot, and returns the id it was stored at.
func (a *Arena[T]) Allocate(v T) ID {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[id] = slot[T]{alive: true, value: v}
		return id
	}
	a.slots = append(a.slots, slot[T]{alive: true, value: v})
	return ID(len(a.slots) - 1)
}

// Delete tombstones id's slot and pushes it onto the free list. A
// second delete of the same id is a no-op.
func (a *Arena[T]) Delete(id ID) {
	if !a.inRange(id) || !a.slots[id].alive {
		return
	}
	var zero T
	a.slots[id] = slot[T]{value: zero}
	a.free = append(a.free, id)
}

// Get returns the value stored at id and whether it is live.
func (a *Arena[T]) Get(id ID) (T, bool) {
	if !a.inRange(id) || !a.slots[id].alive {
		var zero T
		return zero, false
	}
	return a.slots[id].value, true
}

// MustGet returns the value stored at id, panicking with a fatal
// "not-found / deleted" error if the slot is empty. Reserved for call
// sites where getting a dead id is a programming bug, not user input.
func (a *Arena[T]) MustGet(id ID) T {
	v, ok := a.Get(id)
	if !ok {
		panic(fmt.Sprintf("arena: get on deleted or unknown slot %d", id))
	}
	return v
}

// Enumerate walks (id, value) pairs for every live slot in insertion
// order, skipping tombstones. It stops early if fn returns false.
func (a *Arena[T]) Enumerate(fn func(id ID, v T) bool) {
	for i := range a.slots {
		if !a.slots[i].alive {
			continue
		}
		if !fn(ID(i), a.slots[i].value) {
			return
		}
	}
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	n := 0
	a.Enumerate(func(ID, T) bool { n++; return true })
	return n
}

func (a *Arena[T]) inRange(id ID) bool {
	return id >= 0 && int(id) < len(a.slots)
}
