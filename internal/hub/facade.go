package hub

import "github.com/1broseidon/termtile/internal/hub/arena"

// SetFocus implements set_focus. It only acts within the
// currently focused workspace; an id from another workspace, or an
// unknown id, is meaningless input and a silent no-op — moving focus across workspaces is the job of
// focus_workspace/focus_monitor, not set_focus.
func (h *Hub) SetFocus(id WindowID) {
	w, ok := h.tryWin(id)
	if !ok {
		return
	}
	ws := h.focusedWS()
	if w.WorkspaceID != ws.ID {
		return
	}

	switch w.Mode {
	case ModeTiling:
		ws.Focus = tilingFocus(windowChild(id))
	case ModeFloat:
		ws.Focus = floatFocus(id)
	case ModeFullscreen:
		ws.Focus = fullFocus(id)
	}
	h.relayout(ws.ID)
}

// HasWindow reports whether id refers to a live window. Read-only;
// the daemon's reconciler uses it to decide whether a persisted
// platform-window binding still names anything.
func (h *Hub) HasWindow(id WindowID) bool {
	_, ok := h.tryWin(id)
	return ok
}

// SetWindowConstraint implements set_window_constraint:
// each argument is optional and a nil pointer clears that constraint.
// Unknown ids are a silent no-op.
func (h *Hub) SetWindowConstraint(id WindowID, minW, minH, maxW, maxH *int) {
	w, ok := h.tryWin(id)
	if !ok {
		return
	}
	w.MinW, w.MinH, w.MaxW, w.MaxH = minW, minH, maxW, maxH
	h.relayout(h.ws(w.WorkspaceID).ID)
}

// SetFullscreen implements set_fullscreen: the window
// leaves its tiling slot or float list (the fullscreen stack is the
// only thing referencing it now) and is overlaid at the
// workspace's usable rectangle at render time. Its pre-fullscreen
// rectangle stays on the node untouched. Unknown ids, or a window
// already fullscreen, are a silent no-op.
func (h *Hub) SetFullscreen(id WindowID) {
	w, ok := h.tryWin(id)
	if !ok || w.Mode == ModeFullscreen {
		return
	}
	ws := h.ws(w.WorkspaceID)

	switch w.Mode {
	case ModeTiling:
		child := windowChild(id)
		if w.Parent.Kind == ParentWorkspace {
			ws.HasRoot = false
			ws.Root = Child{}
		} else {
			wasFocused := ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Equal(child)
			var next Child
			haveNext := false
			if wasFocused {
				next, haveNext = h.siblingFocusTarget(child)
			}
			h.detachChild(ws, child)
			if wasFocused && haveNext {
				ws.Focus = tilingFocus(next)
			}
		}
	case ModeFloat:
		ws.Floats = removeWindowID(ws.Floats, id)
	}

	w.PrevMode = w.Mode
	w.Mode = ModeFullscreen
	w.Parent = workspaceParent(ws.ID)
	ws.Fullscreens = append(ws.Fullscreens, id)
	ws.Focus = fullFocus(id)
	h.relayout(ws.ID)
}

// UnsetFullscreen implements unset_fullscreen: the window returns to
// its pre-fullscreen mode — a float rejoins the float list with its
// remembered rectangle, a tiling window is reinserted at the
// workspace's current insertion target. Unknown ids, or a window that
// isn't currently fullscreen, are a silent no-op.
func (h *Hub) UnsetFullscreen(id WindowID) {
	w, ok := h.tryWin(id)
	if !ok || w.Mode != ModeFullscreen {
		return
	}
	ws := h.ws(w.WorkspaceID)
	ws.Fullscreens = removeWindowID(ws.Fullscreens, id)
	wasFocused := ws.Focus.Kind == FocusFullscreen && ws.Focus.ID == id
	if wasFocused {
		// clear the stale pointer before the reinsert below consults it.
		h.refocusAfterOverlayRemoval(ws)
	}

	w.Mode = w.PrevMode
	// the window reclaims focus in its restored mode unless another
	// fullscreen window still overlays the workspace.
	reclaim := wasFocused && ws.Focus.Kind != FocusFullscreen
	switch w.Mode {
	case ModeFloat:
		w.Parent = workspaceParent(ws.ID)
		ws.Floats = append(ws.Floats, id)
		if reclaim {
			ws.Focus = floatFocus(id)
		}
	default:
		w.Mode = ModeTiling
		h.insertTilingChild(ws, windowChild(id), h.insertionSpawnDir(ws))
		if reclaim {
			ws.Focus = tilingFocus(windowChild(id))
		}
	}
	h.relayout(ws.ID)
}

// ToggleFullscreen implements toggle_fullscreen: it acts on the
// focused element. Focus on a container (rather than a single window)
// has no fullscreen meaning and is a no-op.
func (h *Hub) ToggleFullscreen() {
	ws := h.focusedWS()
	switch ws.Focus.Kind {
	case FocusFullscreen:
		h.UnsetFullscreen(ws.Focus.ID)
	case FocusTiling:
		if ws.Focus.Tiling.Kind == ChildWindow {
			h.SetFullscreen(ws.Focus.Tiling.Window)
		}
	case FocusFloat:
		h.SetFullscreen(ws.Focus.ID)
	}
}

// WindowAt implements window_at: searches every monitor
// whose rectangle contains (x, y), then that monitor's active
// workspace in the same priority order as get_visible_placements
// (fullscreen, then floats top-down, then tiling windows).
func (h *Hub) WindowAt(x, y int) (WindowID, bool) {
	var found WindowID
	hit := false

	h.monitors.Enumerate(func(_ arena.ID, mon *Monitor) bool {
		if !mon.Rect.Contains(x, y) {
			return true
		}
		ws := h.ws(mon.ActiveWS)

		if n := len(ws.Fullscreens); n > 0 {
			found, hit = ws.Fullscreens[n-1], true
			return false
		}

		for i := len(ws.Floats) - 1; i >= 0; i-- {
			w := h.win(ws.Floats[i])
			if w.Rect.Offset(ws.ViewportDX, ws.ViewportDY).Contains(x, y) {
				found, hit = w.ID, true
				return false
			}
		}

		if ws.HasRoot {
			var windows []WindowID
			h.collectWindows(ws.Root, &windows)
			for _, wid := range windows {
				w := h.win(wid)
				if w.Rect.Offset(ws.ViewportDX, ws.ViewportDY).Contains(x, y) {
					found, hit = wid, true
					return false
				}
			}
		}
		return false
	})

	return found, hit
}
