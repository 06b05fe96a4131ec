package hub

// Small helpers shared by the structural, directional and toggle
// operations for reading and rewriting the tagged Child/Parent
// references that make up the tiling tree.

func windowChild(id WindowID) Child       { return Child{Kind: ChildWindow, Window: id} }
func containerChild(id ContainerID) Child { return Child{Kind: ChildContainer, Container: id} }

func containerParent(id ContainerID) Parent { return Parent{Kind: ParentContainer, Container: id} }
func workspaceParent(id WorkspaceID) Parent { return Parent{Kind: ParentWorkspace, Workspace: id} }

// parentOf returns the current parent of a tiling child.
func (h *Hub) parentOf(c Child) Parent {
	if c.Kind == ChildWindow {
		return h.win(c.Window).Parent
	}
	return h.ctr(c.Container).Parent
}

// setParentOf rewrites the parent pointer stored on a tiling child.
func (h *Hub) setParentOf(c Child, p Parent) {
	if c.Kind == ChildWindow {
		h.win(c.Window).Parent = p
		return
	}
	h.ctr(c.Container).Parent = p
}

// spawnDirOf returns a child's spawn-direction preference.
func (h *Hub) spawnDirOf(c Child) Axis {
	if c.Kind == ChildWindow {
		return h.win(c.Window).SpawnDir
	}
	return h.ctr(c.Container).SpawnDir
}

func (h *Hub) setSpawnDirOf(c Child, axis Axis) {
	if c.Kind == ChildWindow {
		h.win(c.Window).SpawnDir = axis
		return
	}
	h.ctr(c.Container).SpawnDir = axis
}

// childIndex returns the index of target within children, or -1.
func childIndex(children []Child, target Child) int {
	for i, c := range children {
		if c.Equal(target) {
			return i
		}
	}
	return -1
}

// removeChildAt removes the element at idx, preserving order.
func removeChildAt(children []Child, idx int) []Child {
	out := make([]Child, 0, len(children)-1)
	out = append(out, children[:idx]...)
	out = append(out, children[idx+1:]...)
	return out
}

// insertChildAt inserts c at idx, preserving order.
func insertChildAt(children []Child, idx int, c Child) []Child {
	out := make([]Child, 0, len(children)+1)
	out = append(out, children[:idx]...)
	out = append(out, c)
	out = append(out, children[idx:]...)
	return out
}

// replaceInParent rewrites old's slot (in whatever parent it lived in)
// to instead hold newChild, and updates newChild's parent pointer to
// match. It is used whenever a container is collapsed or wrapped: the
// thing that used to occupy one slot is swapped for another.
func (h *Hub) replaceInParent(parent Parent, old, newChild Child) {
	switch parent.Kind {
	case ParentWorkspace:
		ws := h.ws(parent.Workspace)
		if !ws.HasRoot || !ws.Root.Equal(old) {
			fatalf("replaceInParent", "workspace %d root does not match expected child", parent.Workspace)
		}
		ws.Root = newChild
	case ParentContainer:
		c := h.ctr(parent.Container)
		idx := childIndex(c.Children, old)
		if idx < 0 {
			fatalf("replaceInParent", "container %d does not list expected child", parent.Container)
		}
		c.Children[idx] = newChild
	}
	h.setParentOf(newChild, parent)
}

// descendWindow walks down from c to a leaf window, entering tabbed
// containers at their ActiveTab and any other container at its first
// (forward) or last (!forward) child.
func (h *Hub) descendWindow(c Child, forward bool) WindowID {
	for {
		if c.Kind == ChildWindow {
			return c.Window
		}
		ctr := h.ctr(c.Container)
		if len(ctr.Children) == 0 {
			fatalf("descendWindow", "container %d has no children", ctr.ID)
		}
		if ctr.Tabbed {
			c = ctr.Children[ctr.ActiveTab]
			continue
		}
		if forward {
			c = ctr.Children[0]
		} else {
			c = ctr.Children[len(ctr.Children)-1]
		}
	}
}

// isWorkspaceRoot reports whether child is exactly the workspace's
// tiling root (as opposed to merely living somewhere inside it).
func isWorkspaceRoot(ws *Workspace, child Child) bool {
	return ws.HasRoot && ws.Root.Equal(child)
}
