package hub

import (
	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// newContainer allocates a container under the given parent.
func (h *Hub) newContainer(direction Axis, parent Parent) *Container {
	id := ContainerID(h.containers.Allocate(&Container{Direction: direction, Parent: parent}))
	c := h.ctr(id)
	c.ID = id
	return c
}

// InsertTiling implements insert_tiling: the new window
// becomes focused and the workspace is re-laid-out.
func (h *Hub) InsertTiling(title string) WindowID {
	ws := h.focusedWS()
	spawnDir := h.insertionSpawnDir(ws)

	w := &Window{Mode: ModeTiling, Title: title, SpawnDir: spawnDir, WorkspaceID: ws.ID}
	id := WindowID(h.windows.Allocate(w))
	w.ID = id

	h.insertTilingChild(ws, windowChild(id), spawnDir)
	ws.Focus = tilingFocus(windowChild(id))
	h.relayout(ws.ID)
	return id
}

// insertionSpawnDir resolves the spawn-direction preference a new
// window inherits from the focused element at insertion time. When
// focus is not on a tiling element (none, float, or fullscreen), the
// existing tiling root's preference is used so a float/fullscreen
// focus never disturbs the tiling tree's own insertion point, falling
// back to the workspace's implicit root direction when the workspace
// has no tiling content at all. See DESIGN.md.
func (h *Hub) insertionSpawnDir(ws *Workspace) Axis {
	if ws.Focus.Kind == FocusTiling {
		return h.spawnDirOf(ws.Focus.Tiling)
	}
	if ws.HasRoot {
		return h.spawnDirOf(ws.Root)
	}
	return ws.RootDir
}

// insertionTarget resolves the nominal focused tiling element used to
// place a new window, per the same fallback rule as insertionSpawnDir.
func (h *Hub) insertionTarget(ws *Workspace) (Child, bool) {
	if ws.Focus.Kind == FocusTiling {
		return ws.Focus.Tiling, true
	}
	if ws.HasRoot {
		return ws.Root, true
	}
	return Child{}, false
}

// insertTilingChild implements the six insertion placement cases.
// newChild is usually a fresh window, but
// move_focused_to_workspace/monitor route whole subtrees through the
// same placement logic so a moved container lands exactly where a new
// window would.
func (h *Hub) insertTilingChild(ws *Workspace, newChild Child, spawnDir Axis) {
	target, ok := h.insertionTarget(ws)
	if !ok {
		// Case 1: nothing tiled yet; the new child becomes the root.
		ws.HasRoot = true
		ws.Root = newChild
		ws.RootDir = spawnDir
		h.setParentOf(newChild, workspaceParent(ws.ID))
		return
	}

	if target.Kind == ChildWindow {
		w := h.win(target.Window)
		parent := w.Parent

		if parent.Kind == ParentWorkspace {
			// Case 4: W is the bare root window. There is no parent
			// container to compare directions against, so the root is
			// always promoted into a fresh container of the new
			// child's preferred direction.
			nc := h.newContainer(spawnDir, workspaceParent(ws.ID))
			nc.SpawnDir = spawnDir
			nc.Children = []Child{target, newChild}
			w.Parent = containerParent(nc.ID)
			h.setParentOf(newChild, containerParent(nc.ID))
			ws.Root = containerChild(nc.ID)
			ws.RootDir = spawnDir
			return
		}

		c := h.ctr(parent.Container)
		if c.Direction == spawnDir {
			// Case 2: insert immediately after W in C.
			idx := childIndex(c.Children, target)
			c.Children = insertChildAt(c.Children, idx+1, newChild)
			h.setParentOf(newChild, containerParent(c.ID))
			return
		}

		// Case 3: wrap W in a fresh container of the new direction.
		nc := h.newContainer(spawnDir, parent)
		nc.SpawnDir = spawnDir
		nc.Children = []Child{target, newChild}
		h.replaceInParent(parent, target, containerChild(nc.ID))
		w.Parent = containerParent(nc.ID)
		h.setParentOf(newChild, containerParent(nc.ID))
		return
	}

	// target.Kind == ChildContainer
	k := h.ctr(target.Container)
	if k.Direction == k.SpawnDir {
		// Case 5: append to K.
		k.Children = append(k.Children, newChild)
		h.setParentOf(newChild, containerParent(k.ID))
		return
	}

	// Case 6: append to K's parent after K (or wrap K if it is root).
	if k.Parent.Kind == ParentWorkspace {
		nc := h.newContainer(k.SpawnDir, workspaceParent(ws.ID))
		nc.SpawnDir = k.SpawnDir
		nc.Children = []Child{target, newChild}
		k.Parent = containerParent(nc.ID)
		h.setParentOf(newChild, containerParent(nc.ID))
		ws.Root = containerChild(nc.ID)
		ws.RootDir = k.SpawnDir
		return
	}
	parentCtr := h.ctr(k.Parent.Container)
	idx := childIndex(parentCtr.Children, target)
	parentCtr.Children = insertChildAt(parentCtr.Children, idx+1, newChild)
	h.setParentOf(newChild, containerParent(parentCtr.ID))
}

// InsertFloat implements insert_float: the window is appended directly
// to the workspace's float list at the given rectangle and becomes
// focused.
func (h *Hub) InsertFloat(title string, rect geom.Rect) WindowID {
	ws := h.focusedWS()
	w := &Window{Mode: ModeFloat, Title: title, Rect: rect, WorkspaceID: ws.ID}
	id := WindowID(h.windows.Allocate(w))
	w.ID = id
	w.Parent = workspaceParent(ws.ID)
	ws.Floats = append(ws.Floats, id)
	ws.Focus = floatFocus(id)
	h.relayout(ws.ID)
	return id
}

// detachChild removes child from whatever container or root slot
// currently holds it, applying merge-single-child cleanup. It does not touch the focus pointer — callers that
// need a refocus decision make it before or after, using the still
// (or newly) consistent tree.
func (h *Hub) detachChild(ws *Workspace, child Child) {
	parent := h.parentOf(child)
	switch parent.Kind {
	case ParentWorkspace:
		if !isWorkspaceRoot(ws, child) {
			fatalf("detachChild", "workspace %d parent mismatch", ws.ID)
		}
		ws.HasRoot = false
		ws.Root = Child{}
	case ParentContainer:
		c := h.ctr(parent.Container)
		idx := childIndex(c.Children, child)
		if idx < 0 {
			fatalf("detachChild", "container %d does not list child being detached", c.ID)
		}
		c.Children = removeChildAt(c.Children, idx)
		if c.Tabbed && (idx < c.ActiveTab || c.ActiveTab >= len(c.Children)) {
			c.ActiveTab--
		}
		if len(c.Children) == 1 {
			h.mergeSingleChild(ws, c)
		}
	}
}

// removeFromContainer removes child from the named container, merging
// the container away if exactly one child remains. Unlike detachChild
// it does not consult child's own parent pointer, so callers may have
// already re-pointed it at the child's destination.
func (h *Hub) removeFromContainer(ws *Workspace, cid ContainerID, child Child) {
	c := h.ctr(cid)
	idx := childIndex(c.Children, child)
	if idx < 0 {
		fatalf("removeFromContainer", "container %d does not list child being removed", cid)
	}
	c.Children = removeChildAt(c.Children, idx)
	if c.Tabbed && (idx < c.ActiveTab || c.ActiveTab >= len(c.Children)) {
		c.ActiveTab--
	}
	if len(c.Children) == 1 {
		h.mergeSingleChild(ws, c)
	}
}

// mergeSingleChild implements merge-single-child cleanup:
// a container left with one child is removed and that child is
// promoted into its place.
func (h *Hub) mergeSingleChild(ws *Workspace, c *Container) {
	remaining := c.Children[0]
	parent := c.Parent
	wasFocused := ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Equal(containerChild(c.ID))

	h.replaceInParent(parent, containerChild(c.ID), remaining)
	h.containers.Delete(arena.ID(c.ID))

	if wasFocused {
		ws.Focus = tilingFocus(remaining)
	}
}

// siblingFocusTarget picks the refocus target for a removed tiling
// window: prefer the preceding sibling (descending into
// its last window), else the following sibling (descending into its
// first window).
func (h *Hub) siblingFocusTarget(child Child) (Child, bool) {
	parent := h.parentOf(child)
	if parent.Kind != ParentContainer {
		return Child{}, false
	}
	c := h.ctr(parent.Container)
	idx := childIndex(c.Children, child)
	if idx < 0 {
		return Child{}, false
	}

	if idx-1 >= 0 {
		leaf := h.descendWindow(c.Children[idx-1], false)
		return windowChild(leaf), true
	}
	if idx+1 < len(c.Children) {
		leaf := h.descendWindow(c.Children[idx+1], true)
		return windowChild(leaf), true
	}
	return Child{}, false
}

// DeleteWindow implements delete_window. Deleting an id
// that never existed is idempotent: a silent
// no-op.
func (h *Hub) DeleteWindow(id WindowID) {
	w, ok := h.tryWin(id)
	if !ok {
		return
	}
	ws := h.ws(w.WorkspaceID)

	switch w.Mode {
	case ModeFloat:
		ws.Floats = removeWindowID(ws.Floats, id)
		if ws.Focus.Kind == FocusFloat && ws.Focus.ID == id {
			h.refocusAfterOverlayRemoval(ws)
		}
	case ModeFullscreen:
		ws.Fullscreens = removeWindowID(ws.Fullscreens, id)
		if ws.Focus.Kind == FocusFullscreen && ws.Focus.ID == id {
			h.refocusAfterOverlayRemoval(ws)
		}
	case ModeTiling:
		child := windowChild(id)
		wasFocused := ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Equal(child)

		if w.Parent.Kind == ParentWorkspace {
			ws.HasRoot = false
			ws.Root = Child{}
			if wasFocused {
				ws.Focus = noFocus()
			}
		} else {
			var next Child
			haveNext := false
			if wasFocused {
				next, haveNext = h.siblingFocusTarget(child)
			}
			h.detachChild(ws, child)
			if wasFocused {
				if haveNext {
					ws.Focus = tilingFocus(next)
				} else {
					ws.Focus = noFocus()
				}
			}
		}
	}

	h.windows.Delete(arena.ID(id))

	if h.gcWorkspaceIfEmpty(ws) {
		return
	}
	h.relayout(ws.ID)
}

// refocusAfterOverlayRemoval implements the float/fullscreen refocus
// priority: remaining fullscreen top, then a
// descendant of the tiling tree, then the last remaining float, then
// none. The "container's remembered focus in the tiling subtree" is
// regenerated lazily rather than tracked as
// persistent state: it descends the root to its first window.
func (h *Hub) refocusAfterOverlayRemoval(ws *Workspace) {
	if n := len(ws.Fullscreens); n > 0 {
		ws.Focus = fullFocus(ws.Fullscreens[n-1])
		return
	}
	if ws.HasRoot {
		leaf := h.descendWindow(ws.Root, true)
		ws.Focus = tilingFocus(windowChild(leaf))
		return
	}
	if n := len(ws.Floats); n > 0 {
		ws.Focus = floatFocus(ws.Floats[n-1])
		return
	}
	ws.Focus = noFocus()
}

// gcWorkspaceIfEmpty collects abandoned workspaces: a non-current workspace
// with no tiling root, floats, or fullscreen windows is garbage
// collected. Reports whether it collected ws.
func (h *Hub) gcWorkspaceIfEmpty(ws *Workspace) bool {
	mon := h.mon(ws.MonitorID)
	if mon.ActiveWS == ws.ID {
		return false
	}
	if ws.HasRoot || len(ws.Floats) > 0 || len(ws.Fullscreens) > 0 {
		return false
	}

	for i, id := range mon.Workspaces {
		if id == ws.ID {
			mon.Workspaces = append(mon.Workspaces[:i:i], mon.Workspaces[i+1:]...)
			break
		}
	}
	h.workspaces.Delete(arena.ID(ws.ID))
	return true
}

func removeWindowID(list []WindowID, id WindowID) []WindowID {
	idx := -1
	for i, v := range list {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}
	out := make([]WindowID, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out
}
