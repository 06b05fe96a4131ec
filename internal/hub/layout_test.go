package hub

import (
	"testing"

	"github.com/1broseidon/termtile/internal/hub/geom"
)

func TestArrange_TabbedContainerGivesEveryChildFullContentRect(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleContainerLayout()

	// b was focused, so it is the active tab; it gets the full
	// content rectangle below the 2px tab strip.
	r1 := rectOfWindow(t, h, w1)
	if r1.Width != 150 || r1.Height != 28 || r1.Y != 2 {
		t.Fatalf("tabbed child rect = %+v, want width=150 height=28 y=2 (below the 2px tab strip)", r1)
	}
}

// A nested container holding two freely resizable windows draws two
// shares of the parent's remaining space, not one: with three free
// leaf slots across 150px every window ends up 50 wide, even though
// two of them sit one container deeper.
func TestArrange_NestedContainerDrawsOneShareSlotPerFreeLeaf(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleSpawnDirection() // w1 now prefers vertical
	w2 := h.InsertTiling("c")
	// tree: H(w0, V(w1, w2)); flip the inner container horizontal so
	// the root holds a same-direction nested pair.
	h.ToggleDirection()

	want := map[WindowID]geom.Rect{
		w0: {X: 0, Y: 0, Width: 50, Height: 30},
		w1: {X: 50, Y: 0, Width: 50, Height: 30},
		w2: {X: 100, Y: 0, Width: 50, Height: 30},
	}
	for id, exp := range want {
		if got := h.win(id).Rect; got != exp {
			t.Fatalf("window %d rect = %+v, want %+v", id, got, exp)
		}
	}
}

func TestPlacements_FloatsEmittedAfterTiling(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("tiled")
	h.InsertFloat("floated", geom.Rect{X: 10, Y: 10, Width: 20, Height: 20})

	p := h.GetVisiblePlacements()[0]
	if len(p.Tiling) != 1 || len(p.Floats) != 1 {
		t.Fatalf("got %d tiling, %d floats, want 1 and 1", len(p.Tiling), len(p.Floats))
	}
}

func TestPlacements_ExactlyOneFocusedWindow(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("a")
	h.InsertTiling("b")
	h.InsertFloat("c", geom.Rect{X: 0, Y: 0, Width: 10, Height: 10})

	focused := 0
	p := h.GetVisiblePlacements()[0]
	for _, wp := range p.Tiling {
		if wp.IsFocused {
			focused++
		}
	}
	for _, wp := range p.Floats {
		if wp.IsFocused {
			focused++
		}
	}
	if focused != 1 {
		t.Fatalf("focused window count = %d, want exactly 1", focused)
	}
}

func TestPlacements_VisibleFrameIsIntersectionWithMonitorRect(t *testing.T) {
	h := newTestHub()
	w := h.InsertFloat("offscreen", geom.Rect{X: 140, Y: 0, Width: 50, Height: 10})

	p := h.GetVisiblePlacements()[0]
	var wp WindowPlacement
	for _, c := range p.Floats {
		if c.ID == w {
			wp = c
		}
	}
	want := wp.Frame.Intersect(geom.Rect{X: 0, Y: 0, Width: 150, Height: 30})
	if wp.VisibleFrame != want {
		t.Fatalf("visible frame = %+v, want intersection %+v", wp.VisibleFrame, want)
	}
	if wp.VisibleFrame.Width != 10 {
		t.Fatalf("visible frame width = %d, want 10 (50 wide float clipped at screen edge)", wp.VisibleFrame.Width)
	}
}
