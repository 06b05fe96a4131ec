package hub

import "log"

// maxTraversal bounds focus/move/tab walks: on a
// well-formed tree these always terminate in a handful of steps, so
// exceeding it means a bug introduced a cycle in the parent chain.
const maxTraversal = 1000

// FocusDir implements focus_left/right/up/down.
func (h *Hub) FocusDir(d Dir) {
	ws := h.focusedWS()
	if ws.Focus.Kind != FocusTiling {
		return
	}
	axis := d.Axis()
	forward := d.Forward()
	child := ws.Focus.Tiling

	for i := 0; ; i++ {
		if i > maxTraversal {
			fatalf("FocusDir", "traversal exceeded %d iterations; likely a parent-chain cycle", maxTraversal)
		}
		parent := h.parentOf(child)
		if parent.Kind == ParentWorkspace {
			return
		}
		c := h.ctr(parent.Container)
		if c.Direction == axis {
			idx := childIndex(c.Children, child)
			target := idx + 1
			if !forward {
				target = idx - 1
			}
			if target >= 0 && target < len(c.Children) {
				leaf := h.descendWindow(c.Children[target], forward)
				ws.Focus = tilingFocus(windowChild(leaf))
				h.relayout(ws.ID)
				return
			}
		}
		child = containerChild(c.ID)
	}
}

// MoveDir implements move_left/right/up/down. The
// focused element first tries an intra-container swap with its
// neighbor; at a container edge it escapes upward to the nearest
// ancestor of the matching axis, and past the root it wraps the whole
// tree in a fresh root container of that axis.
func (h *Hub) MoveDir(d Dir) {
	ws := h.focusedWS()
	if ws.Focus.Kind != FocusTiling {
		return
	}
	F := ws.Focus.Tiling
	parent := h.parentOf(F)
	if parent.Kind == ParentWorkspace {
		// a bare root has nothing to move against.
		return
	}

	axis := d.Axis()
	forward := d.Forward()
	oldParent := h.ctr(parent.Container)

	if oldParent.Direction == axis {
		idx := childIndex(oldParent.Children, F)
		target := idx + 1
		if !forward {
			target = idx - 1
		}
		if target >= 0 && target < len(oldParent.Children) {
			oldParent.Children[idx], oldParent.Children[target] = oldParent.Children[target], oldParent.Children[idx]
			h.relayout(ws.ID)
			return
		}
		// at the edge; escape to an ancestor below.
	}

	// Walk up from F's parent. The anchor is the child of each visited
	// ancestor that lies on F's path; F is inserted adjacent to it. The
	// insert happens before the detach so the anchor's index is taken
	// from an intact tree (the detach may merge F's old parent away).
	anchor := containerChild(oldParent.ID)
	for i := 0; ; i++ {
		if i > maxTraversal {
			fatalf("MoveDir", "traversal exceeded %d iterations; likely a parent-chain cycle", maxTraversal)
		}
		p := h.parentOf(anchor)

		if p.Kind == ParentWorkspace {
			// No axis-matching ancestor: detach first (merging may
			// promote a new root), then wrap whatever root remains
			// together with F in a fresh root container.
			h.removeFromContainer(ws, oldParent.ID, F)
			root := ws.Root
			nc := h.newContainer(axis, workspaceParent(ws.ID))
			nc.SpawnDir = axis
			if forward {
				nc.Children = []Child{root, F}
			} else {
				nc.Children = []Child{F, root}
			}
			h.setParentOf(root, containerParent(nc.ID))
			h.setParentOf(F, containerParent(nc.ID))
			ws.Root = containerChild(nc.ID)
			ws.RootDir = axis
			break
		}

		A := h.ctr(p.Container)
		if A.Direction == axis {
			idx := childIndex(A.Children, anchor)
			insertAt := idx
			if forward {
				insertAt = idx + 1
			}
			A.Children = insertChildAt(A.Children, insertAt, F)
			h.setParentOf(F, containerParent(A.ID))
			h.removeFromContainer(ws, oldParent.ID, F)
			break
		}
		anchor = containerChild(A.ID)
	}

	h.relayout(ws.ID)
}

// FocusParent moves focus to the focused tiling element's immediate
// ancestor container. When focus is already at the workspace root
// there is no higher level to select; the call logs and returns
// without changing state.
func (h *Hub) FocusParent() {
	ws := h.focusedWS()
	if ws.Focus.Kind != FocusTiling {
		return
	}
	child := ws.Focus.Tiling
	parent := h.parentOf(child)
	if parent.Kind == ParentWorkspace {
		log.Printf("hub: focus_parent: already at workspace %d root, no-op", ws.ID)
		return
	}
	ws.Focus = tilingFocus(containerChild(parent.Container))
	h.relayout(ws.ID)
}

// focusTab implements focus_next_tab/focus_prev_tab:
// search upward for the nearest tabbed ancestor, advance its
// active_tab, and descend depth-first into the new tab.
func (h *Hub) focusTab(delta int) {
	ws := h.focusedWS()
	if ws.Focus.Kind != FocusTiling {
		return
	}
	child := ws.Focus.Tiling

	for i := 0; ; i++ {
		if i > maxTraversal {
			fatalf("focusTab", "traversal exceeded %d iterations; likely a parent-chain cycle", maxTraversal)
		}
		parent := h.parentOf(child)
		if parent.Kind == ParentWorkspace {
			return
		}
		c := h.ctr(parent.Container)
		if c.Tabbed {
			n := len(c.Children)
			c.ActiveTab = ((c.ActiveTab+delta)%n + n) % n
			leaf := h.descendWindow(c.Children[c.ActiveTab], true)
			ws.Focus = tilingFocus(windowChild(leaf))
			h.relayout(ws.ID)
			return
		}
		child = containerChild(c.ID)
	}
}

// FocusNextTab implements focus_next_tab.
func (h *Hub) FocusNextTab() { h.focusTab(1) }

// FocusPrevTab implements focus_prev_tab.
func (h *Hub) FocusPrevTab() { h.focusTab(-1) }
