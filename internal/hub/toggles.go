package hub

import (
	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

func flip(a Axis) Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// focusTargetContainer resolves "the focused container, or the parent
// of the focused window", used by both toggle_direction
// and toggle_container_layout.
func (h *Hub) focusTargetContainer(ws *Workspace) (*Container, bool) {
	if ws.Focus.Kind != FocusTiling {
		return nil, false
	}
	f := ws.Focus.Tiling
	if f.Kind == ChildContainer {
		return h.ctr(f.Container), true
	}
	w := h.win(f.Window)
	if w.Parent.Kind != ParentContainer {
		return nil, false
	}
	return h.ctr(w.Parent.Container), true
}

// ToggleSpawnDirection flips the spawn-direction preference of the
// currently focused tiling element.
func (h *Hub) ToggleSpawnDirection() {
	ws := h.focusedWS()
	if ws.Focus.Kind != FocusTiling {
		return
	}
	cur := h.spawnDirOf(ws.Focus.Tiling)
	h.setSpawnDirOf(ws.Focus.Tiling, flip(cur))
}

// ToggleDirection flips the split direction of the focused container
// (or the focused window's parent) and re-lays-out.
func (h *Hub) ToggleDirection() {
	ws := h.focusedWS()
	c, ok := h.focusTargetContainer(ws)
	if !ok {
		return
	}
	c.Direction = flip(c.Direction)
	if isWorkspaceRoot(ws, containerChild(c.ID)) {
		ws.RootDir = c.Direction
	}
	h.relayout(ws.ID)
}

// ToggleContainerLayout flips the tabbed flag of the focused container
// (or the focused window's parent). Turning tabbed on sets active_tab
// to the currently-focused child's index.
func (h *Hub) ToggleContainerLayout() {
	ws := h.focusedWS()
	c, ok := h.focusTargetContainer(ws)
	if !ok {
		return
	}
	if c.Tabbed {
		c.Tabbed = false
		h.relayout(ws.ID)
		return
	}

	c.Tabbed = true
	idx := 0
	if ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Kind == ChildWindow {
		w := h.win(ws.Focus.Tiling.Window)
		if w.Parent.Kind == ParentContainer && w.Parent.Container == c.ID {
			if i := childIndex(c.Children, ws.Focus.Tiling); i >= 0 {
				idx = i
			}
		}
	}
	c.ActiveTab = idx
	h.relayout(ws.ID)
}

// defaultFloatRect returns the half-screen, centered rectangle new
// floats appear at.
func defaultFloatRect(ws *Workspace) geom.Rect {
	w := ws.Rect.Width / 2
	hh := ws.Rect.Height / 2
	return geom.Rect{
		X:      ws.Rect.X + (ws.Rect.Width-w)/2,
		Y:      ws.Rect.Y + (ws.Rect.Height-hh)/2,
		Width:  w,
		Height: hh,
	}
}

// collectWindows gathers every window under child, depth-first,
// entering every child of a container regardless of tab state (a
// flattened container floats all of its windows, not just the active
// tab).
func (h *Hub) collectWindows(child Child, out *[]WindowID) {
	if child.Kind == ChildWindow {
		*out = append(*out, child.Window)
		return
	}
	c := h.ctr(child.Container)
	for _, cc := range c.Children {
		h.collectWindows(cc, out)
	}
}

// freeSubtreeContainers deletes every container in child's subtree.
// Callers have already detached the subtree and rehomed (or deleted)
// the windows it held.
func (h *Hub) freeSubtreeContainers(child Child) {
	if child.Kind == ChildWindow {
		return
	}
	c := h.ctr(child.Container)
	for _, cc := range c.Children {
		h.freeSubtreeContainers(cc)
	}
	h.containers.Delete(arena.ID(c.ID))
}

// ToggleFloat implements the tile<->float transitions.
func (h *Hub) ToggleFloat() {
	ws := h.focusedWS()
	switch ws.Focus.Kind {
	case FocusTiling:
		target := ws.Focus.Tiling
		if target.Kind == ChildWindow {
			w := h.win(target.Window)
			h.detachChild(ws, target)
			w.Mode = ModeFloat
			w.Rect = defaultFloatRect(ws)
			w.Parent = workspaceParent(ws.ID)
			ws.Floats = append(ws.Floats, w.ID)
			ws.Focus = floatFocus(w.ID)
		} else {
			var windows []WindowID
			h.collectWindows(target, &windows)
			h.detachChild(ws, target)
			h.freeSubtreeContainers(target)
			for _, wid := range windows {
				w := h.win(wid)
				w.Mode = ModeFloat
				w.Rect = defaultFloatRect(ws)
				w.Parent = workspaceParent(ws.ID)
				ws.Floats = append(ws.Floats, wid)
			}
			if len(windows) > 0 {
				ws.Focus = floatFocus(windows[0])
			} else {
				ws.Focus = noFocus()
			}
		}
	case FocusFloat:
		id := ws.Focus.ID
		w := h.win(id)
		ws.Floats = removeWindowID(ws.Floats, id)
		w.Mode = ModeTiling
		spawnDir := h.insertionSpawnDir(ws)
		w.SpawnDir = spawnDir
		h.insertTilingChild(ws, windowChild(id), spawnDir)
		ws.Focus = tilingFocus(windowChild(id))
	default:
		return
	}
	h.relayout(ws.ID)
}
