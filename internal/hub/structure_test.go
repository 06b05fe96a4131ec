package hub

import (
	"testing"

	"github.com/1broseidon/termtile/internal/hub/geom"
)

func newTestHub() *Hub {
	return New(geom.Rect{X: 0, Y: 0, Width: 150, Height: 30}, 0, 2)
}

func rectOfWindow(t *testing.T, h *Hub, id WindowID) geom.Rect {
	t.Helper()
	return h.win(id).Rect
}

// Two tiling windows split the screen in half.
func TestInsertTiling_TwoWindowsSplitEvenly(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")

	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)

	if r0 != (geom.Rect{X: 0, Y: 0, Width: 75, Height: 30}) {
		t.Fatalf("w0 rect = %+v, want {0,0,75,30}", r0)
	}
	if r1 != (geom.Rect{X: 75, Y: 0, Width: 75, Height: 30}) {
		t.Fatalf("w1 rect = %+v, want {75,0,75,30}", r1)
	}
}

// Four windows, delete the second inserted, remaining three split
// the screen into equal thirds.
func TestDeleteWindow_RemainingThreeSplitEvenly(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	w2 := h.InsertTiling("c")
	w3 := h.InsertTiling("d")

	h.DeleteWindow(w1)

	want := map[WindowID]geom.Rect{
		w0: {X: 0, Y: 0, Width: 50, Height: 30},
		w2: {X: 50, Y: 0, Width: 50, Height: 30},
		w3: {X: 100, Y: 0, Width: 50, Height: 30},
	}
	for id, exp := range want {
		if got := rectOfWindow(t, h, id); got != exp {
			t.Fatalf("window %d rect = %+v, want %+v", id, got, exp)
		}
	}
}

// Toggling W1's spawn direction to vertical while it is focused
// nests it and every subsequently-inserted window into one shared
// vertical container: each new window inherits its spawn-direction
// preference from the focused element at insertion time, so the
// preference keeps matching the nested container's direction and
// insertion keeps appending alongside. The tree is H(W0, V(W1, W2,
// W3)); see the "scenario 3" entry in DESIGN.md.
func TestToggleSpawnDirection_NestsContainer(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("w0")
	w1 := h.InsertTiling("w1")
	h.ToggleSpawnDirection() // flips W1 (currently focused) to vertical
	w2 := h.InsertTiling("w2")
	w3 := h.InsertTiling("w3")

	rw0 := rectOfWindow(t, h, w0)
	rw1 := rectOfWindow(t, h, w1)
	rw2 := rectOfWindow(t, h, w2)
	rw3 := rectOfWindow(t, h, w3)

	if rw0 != (geom.Rect{X: 0, Y: 0, Width: 75, Height: 30}) {
		t.Fatalf("w0 rect = %+v, want {0,0,75,30}", rw0)
	}
	for _, tc := range []struct {
		name string
		r    geom.Rect
		y    int
	}{
		{"w1", rw1, 0},
		{"w2", rw2, 10},
		{"w3", rw3, 20},
	} {
		if tc.r.X != 75 || tc.r.Width != 75 || tc.r.Height != 10 || tc.r.Y != tc.y {
			t.Fatalf("%s rect = %+v, want x=75 w=75 h=10 y=%d", tc.name, tc.r, tc.y)
		}
	}

	w := h.win(w1)
	if w.Parent.Kind != ParentContainer {
		t.Fatalf("w1 parent kind = %v, want ParentContainer", w.Parent.Kind)
	}
	inner := h.ctr(w.Parent.Container)
	if inner.Direction != Vertical {
		t.Fatalf("inner container direction = %v, want Vertical", inner.Direction)
	}
	if len(inner.Children) != 3 {
		t.Fatalf("inner container has %d children, want 3 (w1,w2,w3)", len(inner.Children))
	}
}

// One window with min_w=100 at screen width 150; its sibling
// absorbs the remaining 50.
func TestSetWindowConstraint_MinWidthHonored(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")

	minW := 100
	h.SetWindowConstraint(w0, &minW, nil, nil, nil)

	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)
	if r0.Width != 100 {
		t.Fatalf("w0 width = %d, want 100", r0.Width)
	}
	if r1.Width != 50 {
		t.Fatalf("w1 width = %d, want 50", r1.Width)
	}
}

// min_w=100 on both windows overflows the 150-wide
// screen; the tiling rect grows to 200 and the viewport scrolls so
// the focused (second) window's visible frame is flush to the right
// edge with a 100px visible width.
func TestSetWindowConstraint_OverflowScrollsViewport(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")

	min := 100
	h.SetWindowConstraint(w0, &min, nil, nil, nil)
	h.SetWindowConstraint(w1, &min, nil, nil, nil)
	h.SetFocus(w1)

	ws := h.focusedWS()
	if ws.TilingRect.Width != 200 {
		t.Fatalf("tiling rect width = %d, want 200", ws.TilingRect.Width)
	}
	if ws.ViewportDX != -50 {
		t.Fatalf("viewport dx = %d, want -50", ws.ViewportDX)
	}

	placements := h.GetVisiblePlacements()
	var vis geom.Rect
	found := false
	for _, wp := range placements[0].Tiling {
		if wp.ID == w1 {
			vis = wp.VisibleFrame
			found = true
		}
	}
	if !found {
		t.Fatalf("window w1 missing from placements")
	}
	if vis.Width != 100 {
		t.Fatalf("w1 visible width = %d, want 100", vis.Width)
	}
	if vis.Right() != 150 {
		t.Fatalf("w1 visible frame right edge = %d, want 150 (flush to monitor edge)", vis.Right())
	}
}

// A fullscreen overlay hides tiling windows from the
// placement projection and restores them on unset.
func TestFullscreen_OverlaysAndRestores(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")

	h.SetFullscreen(w0)
	placements := h.GetVisiblePlacements()
	if placements[0].Kind != PlacementFullscreen {
		t.Fatalf("kind = %v, want PlacementFullscreen", placements[0].Kind)
	}
	if placements[0].Fullscreen != w0 {
		t.Fatalf("fullscreen id = %d, want %d", placements[0].Fullscreen, w0)
	}

	// the fullscreened window left the tree: w1 is the bare root and
	// spans the whole screen underneath the overlay.
	ws := h.focusedWS()
	if !ws.HasRoot || ws.Root.Kind != ChildWindow || ws.Root.Window != w1 {
		t.Fatalf("root = %+v, want bare window %d", ws.Root, w1)
	}
	if got := rectOfWindow(t, h, w1); got.Width != 150 {
		t.Fatalf("remaining tiling window width = %d, want 150", got.Width)
	}

	h.UnsetFullscreen(w0)
	placements = h.GetVisiblePlacements()
	if placements[0].Kind != PlacementNormal {
		t.Fatalf("kind = %v, want PlacementNormal", placements[0].Kind)
	}
	if len(placements[0].Tiling) != 2 {
		t.Fatalf("tiling count = %d, want 2", len(placements[0].Tiling))
	}
	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)
	if r0.Width != 75 || r1.Width != 75 {
		t.Fatalf("restored widths = %d,%d, want 75,75", r0.Width, r1.Width)
	}
}

func TestDeleteWindow_UnknownIDIsNoop(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	h.DeleteWindow(WindowID(9999))
	if _, ok := h.tryWin(w0); !ok {
		t.Fatalf("unrelated window was affected by deleting an unknown id")
	}
}

func TestDeleteWindow_MergesSingleChildContainer(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleSpawnDirection()
	w2 := h.InsertTiling("c")

	// tree is now H(W0, V(W1, W2)); delete W2 so V collapses away and
	// W1 is promoted directly into the H root.
	h.DeleteWindow(w2)

	w1node := h.win(w1)
	if w1node.Parent.Kind != ParentContainer {
		t.Fatalf("w1 parent kind = %v", w1node.Parent.Kind)
	}
	root := h.ctr(w1node.Parent.Container)
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	r0 := rectOfWindow(t, h, w0)
	r1 := rectOfWindow(t, h, w1)
	if r0.Width != 75 || r1.Width != 75 {
		t.Fatalf("after merge widths = %d,%d, want 75,75", r0.Width, r1.Width)
	}
}

func TestToggleFloat_RoundTripPreservesMode(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	h.InsertTiling("b")

	h.SetFocus(w0)
	h.ToggleFloat()
	if h.win(w0).Mode != ModeFloat {
		t.Fatalf("mode = %v, want ModeFloat", h.win(w0).Mode)
	}
	floatRect := h.win(w0).Rect

	h.ToggleFloat()
	if h.win(w0).Mode != ModeTiling {
		t.Fatalf("mode = %v, want ModeTiling after round trip", h.win(w0).Mode)
	}
	if h.win(w0).Rect == floatRect {
		t.Fatalf("tiling rect unexpectedly equals the float rect")
	}
}

func TestToggleDirection_TwiceIsIdentity(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("a")
	h.InsertTiling("b")
	ws := h.focusedWS()
	root := h.ctr(ws.Root.Container)
	dirBefore := root.Direction

	h.ToggleDirection()
	h.ToggleDirection()

	if root.Direction != dirBefore {
		t.Fatalf("direction after two toggles = %v, want %v", root.Direction, dirBefore)
	}
}

func TestToggleContainerLayout_TwiceIsIdentity(t *testing.T) {
	h := newTestHub()
	h.InsertTiling("a")
	h.InsertTiling("b")
	ws := h.focusedWS()
	root := h.ctr(ws.Root.Container)

	h.ToggleContainerLayout()
	if !root.Tabbed {
		t.Fatalf("expected tabbed after first toggle")
	}
	h.ToggleContainerLayout()
	if root.Tabbed {
		t.Fatalf("expected not tabbed after second toggle")
	}
}

func TestInsertThenDelete_RestoresLayout(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	before := rectOfWindow(t, h, w0)

	w1 := h.InsertTiling("b")
	h.DeleteWindow(w1)

	after := rectOfWindow(t, h, w0)
	if before != after {
		t.Fatalf("rect before insert %+v != rect after insert+delete %+v", before, after)
	}
}
