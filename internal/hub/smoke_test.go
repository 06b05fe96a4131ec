package hub

import (
	"math/rand"
	"testing"

	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// TestSmoke_RandomWalkPreservesInvariants drives the Hub through
// thousands of interleaved commands, checking every structural
// invariant after each one. The seed is fixed so a failure is
// reproducible.
func TestSmoke_RandomWalkPreservesInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(20260729))
	h := New(geom.Rect{X: 0, Y: 0, Width: 1000, Height: 800}, 1, 20)

	const steps = 150000
	var liveWindows []WindowID
	var monitorSeq int

	untrack := func(id WindowID) {
		for i, w := range liveWindows {
			if w == id {
				liveWindows = append(liveWindows[:i], liveWindows[i+1:]...)
				return
			}
		}
	}

	for i := 0; i < steps; i++ {
		op := rng.Intn(26)
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(*FatalError); ok {
						t.Fatalf("step %d op %d: unexpected FatalError: %v", i, op, r)
					}
					panic(r)
				}
			}()

			switch op {
			case 0, 1, 2:
				id := h.InsertTiling("w")
				liveWindows = append(liveWindows, id)
			case 3:
				w := h.focusedWS().Rect
				rect := geom.Rect{X: w.X + 10, Y: w.Y + 10, Width: 80, Height: 60}
				id := h.InsertFloat("f", rect)
				liveWindows = append(liveWindows, id)
			case 4:
				if len(liveWindows) > 0 {
					id := liveWindows[rng.Intn(len(liveWindows))]
					h.DeleteWindow(id)
					untrack(id)
				}
			case 5:
				if len(liveWindows) > 0 {
					h.SetFocus(liveWindows[rng.Intn(len(liveWindows))])
				}
			case 6:
				if len(liveWindows) > 0 {
					minW, minH := rng.Intn(40), rng.Intn(40)
					id := liveWindows[rng.Intn(len(liveWindows))]
					h.SetWindowConstraint(id, &minW, &minH, nil, nil)
				}
			case 7:
				if len(liveWindows) > 0 {
					h.SetWindowConstraint(liveWindows[rng.Intn(len(liveWindows))], nil, nil, nil, nil)
				}
			case 8:
				if len(liveWindows) > 0 {
					h.SetFullscreen(liveWindows[rng.Intn(len(liveWindows))])
				}
			case 9:
				if len(liveWindows) > 0 {
					h.UnsetFullscreen(liveWindows[rng.Intn(len(liveWindows))])
				}
			case 10:
				h.ToggleFullscreen()
			case 11:
				h.FocusDir(Dir(rng.Intn(4)))
			case 12:
				h.MoveDir(Dir(rng.Intn(4)))
			case 13:
				h.FocusParent()
			case 14:
				h.FocusNextTab()
			case 15:
				h.FocusPrevTab()
			case 16:
				h.ToggleSpawnDirection()
			case 17:
				h.ToggleDirection()
			case 18:
				h.ToggleContainerLayout()
			case 19:
				h.ToggleFloat()
			case 20:
				h.FocusWorkspace([]string{"0", "a", "b", "c"}[rng.Intn(4)])
			case 21:
				h.MoveFocusedToWorkspace([]string{"0", "a", "b", "c"}[rng.Intn(4)])
			case 22:
				h.FocusMonitor(MonDir(rng.Intn(4)))
			case 23:
				h.MoveFocusedToMonitor(MonDir(rng.Intn(4)))
			case 24:
				monitorSeq++
				x := (monitorSeq%3 + 1) * 1000
				h.AddMonitor("extra", geom.Rect{X: x, Y: 0, Width: 1000, Height: 800})
			case 25:
				var ids []MonitorID
				h.monitors.Enumerate(func(id arena.ID, _ *Monitor) bool { ids = append(ids, MonitorID(id)); return true })
				if len(ids) > 1 {
					victim := ids[rng.Intn(len(ids))]
					fallback := ids[rng.Intn(len(ids))]
					if victim != fallback {
						h.RemoveMonitor(victim, fallback)
					}
				}
			}
		}()

		checkInvariants(t, h, i)
	}
}

// checkInvariants walks every live node and asserts the structural
// invariants hold. It is deliberately read-only.
func checkInvariants(t *testing.T, h *Hub, step int) {
	t.Helper()

	focusedCount := 0
	h.monitors.Enumerate(func(id arena.ID, mon *Monitor) bool {
		if MonitorID(id) == h.focusedMonitor {
			focusedCount++
		}
		if _, ok := h.tryWs(mon.ActiveWS); !ok {
			t.Fatalf("step %d: monitor %d active workspace %d is not live", step, id, mon.ActiveWS)
		}
		found := false
		for _, wsID := range mon.Workspaces {
			if wsID == mon.ActiveWS {
				found = true
			}
		}
		if !found {
			t.Fatalf("step %d: monitor %d active workspace %d not in its workspace list", step, id, mon.ActiveWS)
		}
		return true
	})
	if focusedCount != 1 {
		t.Fatalf("step %d: exactly one monitor must be focused, found %d", step, focusedCount)
	}

	h.workspaces.Enumerate(func(id arena.ID, ws *Workspace) bool {
		if _, ok := h.tryMon(ws.MonitorID); !ok {
			t.Fatalf("step %d: workspace %d's monitor %d is not live", step, id, ws.MonitorID)
		}

		switch ws.Focus.Kind {
		case FocusTiling:
			if !childLive(h, ws.Focus.Tiling) {
				t.Fatalf("step %d: workspace %d focuses a dead tiling child", step, id)
			}
			if h.parentOf(ws.Focus.Tiling).Kind == ParentWorkspace && !isWorkspaceRoot(ws, ws.Focus.Tiling) {
				t.Fatalf("step %d: workspace %d focused child claims workspace parent but isn't root", step, id)
			}
		case FocusFloat:
			if !containsWindowID(ws.Floats, ws.Focus.ID) {
				t.Fatalf("step %d: workspace %d focuses a float %d not in its float list", step, id, ws.Focus.ID)
			}
		case FocusFullscreen:
			if !containsWindowID(ws.Fullscreens, ws.Focus.ID) {
				t.Fatalf("step %d: workspace %d focuses a fullscreen %d not in its list", step, id, ws.Focus.ID)
			}
		}

		if ws.HasRoot {
			checkChildTree(t, h, step, ws.Root, Parent{Kind: ParentWorkspace, Workspace: WorkspaceID(id)})
		}
		return true
	})

	h.containers.Enumerate(func(id arena.ID, c *Container) bool {
		if len(c.Children) < 2 {
			// a single-child container is only valid transiently
			// mid-operation; by the time control returns to the
			// smoke loop every public op has called mergeSingleChild.
			if !containerIsAnyWorkspaceRoot(h, ContainerID(id)) {
				t.Fatalf("step %d: container %d has %d children and is not a workspace root", step, id, len(c.Children))
			}
		}
		if c.Tabbed && (c.ActiveTab < 0 || c.ActiveTab >= len(c.Children)) {
			t.Fatalf("step %d: container %d active_tab %d out of range [0,%d)", step, id, c.ActiveTab, len(c.Children))
		}
		return true
	})
}

func childLive(h *Hub, c Child) bool {
	if c.Kind == ChildWindow {
		_, ok := h.tryWin(c.Window)
		return ok
	}
	_, ok := h.tryCtr(c.Container)
	return ok
}

func containsWindowID(list []WindowID, id WindowID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containerIsAnyWorkspaceRoot(h *Hub, id ContainerID) bool {
	found := false
	h.workspaces.Enumerate(func(_ arena.ID, ws *Workspace) bool {
		if ws.HasRoot && ws.Root.Kind == ChildContainer && ws.Root.Container == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// checkChildTree walks the tiling tree verifying parent back-pointers
// resolve to the claimed parent.
func checkChildTree(t *testing.T, h *Hub, step int, c Child, expectedParent Parent) {
	t.Helper()
	if c.Kind == ChildWindow {
		w, ok := h.tryWin(c.Window)
		if !ok {
			t.Fatalf("step %d: tree references dead window %d", step, c.Window)
		}
		if w.Parent != expectedParent {
			t.Fatalf("step %d: window %d parent %+v does not match tree position %+v", step, c.Window, w.Parent, expectedParent)
		}
		if w.Mode != ModeTiling {
			t.Fatalf("step %d: window %d is in the tiling tree but mode is %v", step, c.Window, w.Mode)
		}
		return
	}
	ctr, ok := h.tryCtr(c.Container)
	if !ok {
		t.Fatalf("step %d: tree references dead container %d", step, c.Container)
	}
	if ctr.Parent != expectedParent {
		t.Fatalf("step %d: container %d parent %+v does not match tree position %+v", step, c.Container, ctr.Parent, expectedParent)
	}
	for _, cc := range ctr.Children {
		checkChildTree(t, h, step, cc, Parent{Kind: ParentContainer, Container: ctr.ID})
	}
}
