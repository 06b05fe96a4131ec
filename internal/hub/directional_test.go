package hub

import (
	"testing"

	"github.com/1broseidon/termtile/internal/hub/geom"
)

func TestFocusDir_MovesAlongMatchingAxis(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")

	h.FocusDir(DirLeft)
	if h.focusedWS().Focus.Tiling.Window != w0 {
		t.Fatalf("focus after FocusDir(Left) = %d, want w0 %d", h.focusedWS().Focus.Tiling.Window, w0)
	}
	h.FocusDir(DirRight)
	if h.focusedWS().Focus.Tiling.Window != w1 {
		t.Fatalf("focus after FocusDir(Right) = %d, want w1 %d", h.focusedWS().Focus.Tiling.Window, w1)
	}
}

func TestFocusDir_NoSiblingIsNoop(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("only")
	before := h.focusedWS().Focus
	h.FocusDir(DirRight)
	if h.focusedWS().Focus != before {
		t.Fatalf("focus changed with no sibling in that direction")
	}
}

func TestMoveDir_SwapsWithinContainer(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.SetFocus(w1)

	h.MoveDir(DirLeft)

	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)
	if r1.X != 0 {
		t.Fatalf("w1 rect = %+v, want to now occupy x=0 after swapping left", r1)
	}
	if r0.X != 75 {
		t.Fatalf("w0 rect = %+v, want to now occupy x=75 after swapping left", r0)
	}
}

// Moving along an axis no ancestor splits on wraps the whole tree in a
// fresh root container of that axis; the old parent merges away first,
// so the wrap pairs the moved window with the promoted root.
func TestMoveDir_WrapsRootInNewAxisContainer(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.SetFocus(w0)

	h.MoveDir(DirUp)

	ws := h.focusedWS()
	if !ws.HasRoot || ws.Root.Kind != ChildContainer {
		t.Fatalf("workspace root is not a container after wrapping move")
	}
	root := h.ctr(ws.Root.Container)
	if root.Direction != Vertical {
		t.Fatalf("new root direction = %v, want Vertical", root.Direction)
	}
	if len(root.Children) != 2 {
		t.Fatalf("new root has %d children, want 2", len(root.Children))
	}

	// moved up: w0 on top (0..15), w1 below (15..30), both full width.
	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)
	if r0 != (geom.Rect{X: 0, Y: 0, Width: 150, Height: 15}) {
		t.Fatalf("w0 rect = %+v, want {0,0,150,15}", r0)
	}
	if r1 != (geom.Rect{X: 0, Y: 15, Width: 150, Height: 15}) {
		t.Fatalf("w1 rect = %+v, want {0,15,150,15}", r1)
	}
}

// Moving out of a cross-axis container inserts next to the ancestor's
// child on the path, even when the old parent collapses to a single
// child and merges away mid-move.
func TestMoveDir_EscapesToAxisAncestor(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleSpawnDirection() // w1 now prefers vertical
	w2 := h.InsertTiling("c")
	// tree: H(w0, V(w1, w2)), focus on w2.

	h.MoveDir(DirLeft)

	// V collapsed to w1; w2 sits between w0 and w1 in the root.
	want := map[WindowID]geom.Rect{
		w0: {X: 0, Y: 0, Width: 50, Height: 30},
		w2: {X: 50, Y: 0, Width: 50, Height: 30},
		w1: {X: 100, Y: 0, Width: 50, Height: 30},
	}
	for id, exp := range want {
		if got := rectOfWindow(t, h, id); got != exp {
			t.Fatalf("window %d rect = %+v, want %+v", id, got, exp)
		}
	}
	if h.focusedWS().Focus.Tiling.Window != w2 {
		t.Fatalf("focus left the moved window")
	}
}

func TestFocusParent_AtRootIsNoop(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("only")
	before := h.focusedWS().Focus
	h.FocusParent()
	if h.focusedWS().Focus != before {
		t.Fatalf("focus_parent at workspace root changed focus")
	}
}

func TestFocusNextTab_CyclesAndIsUntabbedByToggle(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleContainerLayout() // tab the two-window root container

	root := h.ctr(h.focusedWS().Root.Container)
	if !root.Tabbed {
		t.Fatalf("root container not tabbed after toggle_container_layout")
	}
	if root.ActiveTab != 1 {
		t.Fatalf("active tab = %d, want 1 (w1 was focused)", root.ActiveTab)
	}

	h.FocusNextTab()
	if h.focusedWS().Focus.Tiling.Window != w0 {
		t.Fatalf("focus_next_tab did not wrap to w0")
	}
	h.FocusPrevTab()
	if h.focusedWS().Focus.Tiling.Window != w1 {
		t.Fatalf("focus_prev_tab did not return to w1")
	}

	h.ToggleContainerLayout()
	if root.Tabbed {
		t.Fatalf("toggle_container_layout on a tabbed container did not untab it")
	}
	if len(root.Children) != 2 {
		t.Fatalf("untabbed container has %d children, want 2", len(root.Children))
	}
	_ = w0
}
