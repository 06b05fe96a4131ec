package hub

import (
	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// AddMonitor implements add_monitor: a fresh monitor
// with one empty workspace, named after the monitor, bound to it.
func (h *Hub) AddMonitor(name string, rect geom.Rect) MonitorID {
	id := MonitorID(h.monitors.Allocate(&Monitor{Rect: rect, Name: name}))
	mon := h.mon(id)
	mon.ID = id

	wsID := h.newWorkspaceLocked(id, name, rect)
	mon.Workspaces = []WorkspaceID{wsID}
	mon.ActiveWS = wsID
	return id
}

// RemoveMonitor implements remove_monitor: every
// workspace bound to victim is re-homed onto fallback, taking on its
// rectangle. victim == fallback is a programmer error, never user input.
func (h *Hub) RemoveMonitor(victim, fallback MonitorID) {
	if victim == fallback {
		fatalf("RemoveMonitor", "victim and fallback monitor are the same (%d)", victim)
	}
	v := h.mon(victim)
	f := h.mon(fallback)
	wasFocused := h.focusedMonitor == victim

	for _, wsID := range v.Workspaces {
		ws := h.ws(wsID)
		ws.MonitorID = fallback
		ws.Rect = f.Rect
		f.Workspaces = append(f.Workspaces, wsID)
		h.relayout(wsID)
	}

	h.monitors.Delete(arena.ID(victim))

	if wasFocused {
		h.focusedMonitor = fallback
	}
}

// RenameMonitor rebinds a monitor's logical name. The shim uses it
// once per output, to hand the config-seeded monitor the platform's
// real output name; unknown ids are a silent no-op.
func (h *Hub) RenameMonitor(id MonitorID, name string) {
	mon, ok := h.tryMon(id)
	if !ok {
		return
	}
	mon.Name = name
}

// UpdateMonitorDimension implements update_monitor_dimension: re-binds the rectangle and re-lays-out every workspace on
// that monitor. Unknown ids are a silent no-op.
func (h *Hub) UpdateMonitorDimension(id MonitorID, rect geom.Rect) {
	mon, ok := h.tryMon(id)
	if !ok {
		return
	}
	mon.Rect = rect
	for _, wsID := range mon.Workspaces {
		h.ws(wsID).Rect = rect
		h.relayout(wsID)
	}
}

// FocusWorkspace implements focus_workspace.
func (h *Hub) FocusWorkspace(name string) {
	if found := h.findWorkspaceByName(name); found != nil {
		mon := h.mon(found.MonitorID)
		if mon.ActiveWS != found.ID {
			old := h.ws(mon.ActiveWS)
			mon.ActiveWS = found.ID
			h.gcWorkspaceIfEmpty(old)
		}
		h.focusedMonitor = mon.ID
		return
	}

	mon := h.focusedMon()
	old := h.ws(mon.ActiveWS)
	wsID := h.newWorkspaceLocked(mon.ID, name, mon.Rect)
	mon.Workspaces = append(mon.Workspaces, wsID)
	mon.ActiveWS = wsID
	h.gcWorkspaceIfEmpty(old)
}

func (h *Hub) findWorkspaceByName(name string) *Workspace {
	var found *Workspace
	h.workspaces.Enumerate(func(_ arena.ID, ws *Workspace) bool {
		if ws.Name == name {
			found = ws
			return false
		}
		return true
	})
	return found
}

// resolveWorkspaceTarget finds a workspace by name anywhere, or
// allocates one on the focused monitor without switching to it: the
// same target resolution move_focused_to_workspace uses, but without
// focus_workspace's side effect of making the workspace current.
func (h *Hub) resolveWorkspaceTarget(name string) *Workspace {
	if found := h.findWorkspaceByName(name); found != nil {
		return found
	}
	mon := h.focusedMon()
	wsID := h.newWorkspaceLocked(mon.ID, name, mon.Rect)
	mon.Workspaces = append(mon.Workspaces, wsID)
	return h.ws(wsID)
}

func rectCenter(r geom.Rect) (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func inHalfPlane(dir MonDir, ccx, ccy, cx, cy int) bool {
	switch dir {
	case MonLeft:
		return cx < ccx
	case MonRight:
		return cx > ccx
	case MonUp:
		return cy < ccy
	case MonDown:
		return cy > ccy
	}
	return false
}

// monitorInDirection implements the half-plane-then-closest rule
// shared by focus_monitor and move_focused_to_monitor.
func (h *Hub) monitorInDirection(dir MonDir) (MonitorID, bool) {
	cur := h.focusedMon()
	ccx, ccy := rectCenter(cur.Rect)

	var best MonitorID
	bestDist := 0
	found := false
	h.monitors.Enumerate(func(id arena.ID, mon *Monitor) bool {
		if MonitorID(id) == h.focusedMonitor {
			return true
		}
		cx, cy := rectCenter(mon.Rect)
		if !inHalfPlane(dir, ccx, ccy, cx, cy) {
			return true
		}
		dx, dy := cx-ccx, cy-ccy
		dist := dx*dx + dy*dy
		if !found || dist < bestDist {
			found = true
			bestDist = dist
			best = MonitorID(id)
		}
		return true
	})
	return best, found
}

// FocusMonitor implements focus_monitor.
func (h *Hub) FocusMonitor(dir MonDir) {
	id, ok := h.monitorInDirection(dir)
	if !ok {
		return
	}
	h.focusedMonitor = id
}

// moveFocusedInto relocates the source workspace's focused element
// into target. A focused container moves as one subtree: its grouping,
// directions, and tab state survive the trip, and it lands exactly
// where insert_tiling would have placed a new window on target.
func (h *Hub) moveFocusedInto(ws, target *Workspace) {
	if target.ID == ws.ID {
		return
	}

	switch ws.Focus.Kind {
	case FocusTiling:
		child := ws.Focus.Tiling

		next, haveNext := h.siblingFocusTarget(child)
		h.detachChild(ws, child)
		if haveNext {
			ws.Focus = tilingFocus(next)
		} else {
			ws.Focus = noFocus()
		}

		h.insertTilingChild(target, child, h.insertionSpawnDir(target))
		var windows []WindowID
		h.collectWindows(child, &windows)
		for _, id := range windows {
			h.win(id).WorkspaceID = target.ID
		}
		target.Focus = tilingFocus(child)

	case FocusFloat:
		id := ws.Focus.ID
		ws.Floats = removeWindowID(ws.Floats, id)
		h.refocusAfterOverlayRemoval(ws)
		w := h.win(id)
		w.WorkspaceID = target.ID
		w.Parent = workspaceParent(target.ID)
		target.Floats = append(target.Floats, id)
		target.Focus = floatFocus(id)

	case FocusFullscreen:
		// Fullscreen mode survives the move; see DESIGN.md.
		id := ws.Focus.ID
		ws.Fullscreens = removeWindowID(ws.Fullscreens, id)
		h.refocusAfterOverlayRemoval(ws)
		w := h.win(id)
		w.WorkspaceID = target.ID
		w.Parent = workspaceParent(target.ID)
		target.Fullscreens = append(target.Fullscreens, id)
		target.Focus = fullFocus(id)

	default:
		return
	}

	wsID, targetID := ws.ID, target.ID
	h.gcWorkspaceIfEmpty(ws)
	if survivor, ok := h.tryWs(wsID); ok {
		h.relayout(survivor.ID)
	}
	h.relayout(targetID)
}

// MoveFocusedToWorkspace implements move_focused_to_workspace.
func (h *Hub) MoveFocusedToWorkspace(name string) {
	ws := h.focusedWS()
	if ws.Focus.Kind == FocusNone {
		return
	}
	h.moveFocusedInto(ws, h.resolveWorkspaceTarget(name))
}

// MoveFocusedToMonitor implements move_focused_to_monitor: no-op if no monitor lies in that direction.
func (h *Hub) MoveFocusedToMonitor(dir MonDir) {
	ws := h.focusedWS()
	if ws.Focus.Kind == FocusNone {
		return
	}
	monID, ok := h.monitorInDirection(dir)
	if !ok {
		return
	}
	target := h.ws(h.mon(monID).ActiveWS)
	h.moveFocusedInto(ws, target)
}
