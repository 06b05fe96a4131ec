package hub

import (
	"testing"

	"github.com/1broseidon/termtile/internal/hub/geom"
)

// A second monitor to the right receives a new window at
// its own offset; removing it with the first monitor as fallback
// migrates its workspaces and windows onto monitor 1 intact.
func TestAddRemoveMonitor_MigratesWorkspaces(t *testing.T) {
	h := newTestHub()
	mon1 := h.focusedMonitor

	mon2 := h.AddMonitor("mon2", geom.Rect{X: 150, Y: 0, Width: 150, Height: 30})
	h.FocusMonitor(MonRight)
	if h.focusedMonitor != mon2 {
		t.Fatalf("focused monitor = %d, want %d", h.focusedMonitor, mon2)
	}

	w := h.InsertTiling("on-mon2")
	r := rectOfWindow(t, h, w)
	if r.X < 150 {
		t.Fatalf("window on monitor 2 placed at x=%d, want >= 150", r.X)
	}

	h.RemoveMonitor(mon2, mon1)
	if h.focusedMonitor != mon1 {
		t.Fatalf("focused monitor after removal = %d, want fallback %d", h.focusedMonitor, mon1)
	}
	if _, ok := h.tryWin(w); !ok {
		t.Fatalf("window from removed monitor's workspace did not survive")
	}
	if _, ok := h.tryMon(mon2); ok {
		t.Fatalf("removed monitor still resolves")
	}

	wsID := h.win(w).WorkspaceID
	ws := h.ws(wsID)
	if ws.MonitorID != mon1 {
		t.Fatalf("surviving workspace's monitor = %d, want fallback %d", ws.MonitorID, mon1)
	}
}

func TestFocusMonitor_NoMonitorInDirectionIsNoop(t *testing.T) {
	h := newTestHub()
	before := h.focusedMonitor
	h.FocusMonitor(MonRight)
	if h.focusedMonitor != before {
		t.Fatalf("focus changed with no monitor to the right")
	}
}

func TestFocusWorkspace_CreatesThenReusesByName(t *testing.T) {
	h := newTestHub()
	h.FocusWorkspace("scratch")
	ws1 := h.focusedWS()
	if ws1.Name != "scratch" {
		t.Fatalf("workspace name = %q, want scratch", ws1.Name)
	}
	// a non-current workspace with no root/floats/fullscreens is
	// garbage collected on exit; give it
	// content so it survives the round trip below.
	h.InsertTiling("keepalive")

	h.FocusWorkspace("0")
	h.FocusWorkspace("scratch")
	ws2 := h.focusedWS()
	if ws2.ID != ws1.ID {
		t.Fatalf("focus_workspace allocated a second workspace for the same name")
	}
}

func TestMoveFocusedToWorkspace_TransfersWindow(t *testing.T) {
	h := newTestHub()
	w := h.InsertTiling("mover")
	h.MoveFocusedToWorkspace("other")

	if h.win(w).WorkspaceID == WorkspaceID(0) {
		t.Fatalf("window workspace id unexpectedly zero")
	}
	placements := h.GetVisiblePlacements()
	for _, p := range placements {
		for _, wp := range p.Tiling {
			if wp.ID == w {
				t.Fatalf("moved window still visible on original monitor's active workspace")
			}
		}
	}

	h.FocusWorkspace("other")
	found := false
	for _, p := range h.GetVisiblePlacements() {
		for _, wp := range p.Tiling {
			if wp.ID == w {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("moved window not visible after focusing its new workspace")
	}
}

// A focused container travels to another workspace as one subtree: its
// grouping and direction survive, and only its windows' workspace
// bindings change.
func TestMoveFocusedToWorkspace_KeepsContainerIntact(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.ToggleSpawnDirection() // w1 now prefers vertical
	w2 := h.InsertTiling("c")
	// tree: H(w0, V(w1, w2)); focus the V container itself.
	h.FocusParent()

	h.MoveFocusedToWorkspace("side")

	target := h.findWorkspaceByName("side")
	if target == nil {
		t.Fatalf("target workspace was not created")
	}
	if !target.HasRoot || target.Root.Kind != ChildContainer {
		t.Fatalf("moved container did not become the target's root")
	}
	moved := h.ctr(target.Root.Container)
	if moved.Direction != Vertical || len(moved.Children) != 2 {
		t.Fatalf("container arrived as %v with %d children, want Vertical with 2", moved.Direction, len(moved.Children))
	}
	if h.win(w1).WorkspaceID != target.ID || h.win(w2).WorkspaceID != target.ID {
		t.Fatalf("moved windows still bound to the source workspace")
	}

	// source collapsed to the remaining bare root window.
	src := h.focusedWS()
	if !src.HasRoot || src.Root.Kind != ChildWindow || src.Root.Window != w0 {
		t.Fatalf("source root = %+v, want bare window %d", src.Root, w0)
	}
}

func TestDeleteWindow_NeverLeavesIDInPlacements(t *testing.T) {
	h := newTestHub()
	w0 := h.InsertTiling("a")
	w1 := h.InsertTiling("b")
	h.DeleteWindow(w0)

	for _, p := range h.GetVisiblePlacements() {
		for _, wp := range p.Tiling {
			if wp.ID == w0 {
				t.Fatalf("deleted window %d still present in placements", w0)
			}
		}
	}
	_ = w1
}
