package hub

import "github.com/1broseidon/termtile/internal/hub/geom"

// effectiveMinW/H resolve a window's own min constraint, falling back
// to the Hub's configured default when the window declares none.
func (h *Hub) effectiveMinW(w *Window) int {
	if w.MinW != nil {
		return *w.MinW
	}
	return h.defaultMinW
}

func (h *Hub) effectiveMinH(w *Window) int {
	if w.MinH != nil {
		return *w.MinH
	}
	return h.defaultMinH
}

// measure is one node's result from the measure pass:
// aggregated min sizes plus the counts of freely resizable leaf slots
// along each axis.
type measure struct {
	minW, minH   int
	freeH, freeV int
}

// measureTree implements the measure pass bottom-up: min_w/min_h sum
// along a container's own direction and max across it; free slot
// counts sum along the direction and max across it. A tabbed container
// contributes as one logical slot (max over children, not sum) and
// adds the tab-strip height to its min height, since only one tab is
// ever visible at a time but every tab must still fit the rectangle.
// Container results are cached on the node for the arrange pass.
func (h *Hub) measureTree(child Child) measure {
	if child.Kind == ChildWindow {
		w := h.win(child.Window)
		m := measure{minW: h.effectiveMinW(w), minH: h.effectiveMinH(w)}
		if m.minW == 0 {
			m.freeH = 1
		}
		if m.minH == 0 {
			m.freeV = 1
		}
		return m
	}

	c := h.ctr(child.Container)
	var m measure
	if c.Tabbed {
		for _, cc := range c.Children {
			cm := h.measureTree(cc)
			m.minW = max(m.minW, cm.minW)
			m.minH = max(m.minH, cm.minH)
			m.freeH = max(m.freeH, cm.freeH)
			m.freeV = max(m.freeV, cm.freeV)
		}
		m.minH += h.tabStripHeight
	} else if c.Direction == Horizontal {
		for _, cc := range c.Children {
			cm := h.measureTree(cc)
			m.minW += cm.minW
			m.minH = max(m.minH, cm.minH)
			m.freeH += cm.freeH
			m.freeV = max(m.freeV, cm.freeV)
		}
	} else {
		for _, cc := range c.Children {
			cm := h.measureTree(cc)
			m.minW = max(m.minW, cm.minW)
			m.minH += cm.minH
			m.freeH = max(m.freeH, cm.freeH)
			m.freeV += cm.freeV
		}
	}

	c.minW, c.minH = m.minW, m.minH
	c.freeH, c.freeV = m.freeH, m.freeV
	return m
}

// measured returns a child's measure-pass result: recomputed cheaply
// for leaf windows, read back from the cache for containers (the
// arrange pass always runs after measureTree has filled it in).
func (h *Hub) measured(child Child) measure {
	if child.Kind == ChildWindow {
		return h.measureTree(child)
	}
	c := h.ctr(child.Container)
	return measure{minW: c.minW, minH: c.minH, freeH: c.freeH, freeV: c.freeV}
}

// applyBorder shrinks a window's final rectangle by the configured
// border thickness on every side.
func (h *Hub) applyBorder(rect geom.Rect) geom.Rect {
	b := h.borderThickness
	rect.X += b
	rect.Y += b
	rect.Width -= 2 * b
	rect.Height -= 2 * b
	if rect.Width < 0 {
		rect.Width = 0
	}
	if rect.Height < 0 {
		rect.Height = 0
	}
	return rect
}

// applyCrossAxisMin honors a window's min on the axis perpendicular to
// its container's direction: it otherwise inherits the full
// cross-axis extent.
func (h *Hub) applyCrossAxisMin(ch Child, rect geom.Rect, axis Axis) geom.Rect {
	if ch.Kind != ChildWindow {
		return rect
	}
	w := h.win(ch.Window)
	if axis == Horizontal {
		if w.MinH != nil && *w.MinH > rect.Height {
			rect.Height = *w.MinH
		}
	} else {
		if w.MinW != nil && *w.MinW > rect.Width {
			rect.Width = *w.MinW
		}
	}
	return rect
}

// arrangeChild dispatches to a leaf window or recurses into a
// container.
func (h *Hub) arrangeChild(child Child, rect geom.Rect) {
	if child.Kind == ChildWindow {
		w := h.win(child.Window)
		w.Rect = h.applyBorder(rect)
		return
	}
	h.arrangeContainer(h.ctr(child.Container), rect)
}

// arrangeContainer implements the arrange pass for one container
//: windows with a non-zero min (their own constraint or the
// configured default) get exactly that size,
// the rest split the remainder equally; a tabbed container gives every
// child the full content rectangle below the tab strip.
func (h *Hub) arrangeContainer(c *Container, rect geom.Rect) {
	c.Rect = rect

	if c.Tabbed {
		content := rect
		content.Y += h.tabStripHeight
		content.Height -= h.tabStripHeight
		if content.Height < 0 {
			content.Height = 0
		}
		for _, ch := range c.Children {
			h.arrangeChild(ch, content)
		}
		return
	}

	n := len(c.Children)
	if n == 0 {
		return
	}

	// Space distribution: every child is owed its
	// aggregated min along the split axis; what's left over is divided
	// by the free-slot counts, so a nested container holding three
	// freely resizable windows draws three shares, not one.
	mins := make([]int, n)
	frees := make([]int, n)
	sumMin, totalFree := 0, 0
	for i, ch := range c.Children {
		m := h.measured(ch)
		if c.Direction == Horizontal {
			mins[i], frees[i] = m.minW, m.freeH
		} else {
			mins[i], frees[i] = m.minH, m.freeV
		}
		sumMin += mins[i]
		totalFree += frees[i]
	}

	totalSpace := rect.Width
	if c.Direction == Vertical {
		totalSpace = rect.Height
	}
	remaining := totalSpace - sumMin
	if remaining < 0 {
		remaining = 0
	}

	sizes := make([]int, n)
	copy(sizes, mins)
	if totalFree > 0 {
		share := remaining / totalFree
		extra := remaining % totalFree
		slot := 0
		for i := range c.Children {
			if frees[i] == 0 {
				continue
			}
			add := share * frees[i]
			for k := 0; k < frees[i]; k++ {
				if slot < extra {
					add++
				}
				slot++
			}
			sizes[i] += add
		}
	}

	// Clamp window children to max_w/max_h, absorbing
	// the slack into the other free siblings in the same round.
	slack := 0
	clamped := make(map[int]bool, n)
	for i, ch := range c.Children {
		if ch.Kind != ChildWindow {
			continue
		}
		w := h.win(ch.Window)
		var maxPtr *int
		if c.Direction == Horizontal {
			maxPtr = w.MaxW
		} else {
			maxPtr = w.MaxH
		}
		if maxPtr != nil && sizes[i] > *maxPtr {
			slack += sizes[i] - *maxPtr
			sizes[i] = *maxPtr
			clamped[i] = true
		}
	}
	if slack > 0 {
		var redistribute []int
		for i := range c.Children {
			if frees[i] > 0 && !clamped[i] {
				redistribute = append(redistribute, i)
			}
		}
		if len(redistribute) > 0 {
			share := slack / len(redistribute)
			extra := slack % len(redistribute)
			for k, i := range redistribute {
				add := share
				if k < extra {
					add++
				}
				sizes[i] += add
			}
		}
	}

	pos := rect.X
	if c.Direction == Vertical {
		pos = rect.Y
	}
	for i, ch := range c.Children {
		var childRect geom.Rect
		if c.Direction == Horizontal {
			childRect = geom.Rect{X: pos, Y: rect.Y, Width: sizes[i], Height: rect.Height}
		} else {
			childRect = geom.Rect{X: rect.X, Y: pos, Width: rect.Width, Height: sizes[i]}
		}
		childRect = h.applyCrossAxisMin(ch, childRect, c.Direction)
		h.arrangeChild(ch, childRect)
		pos += sizes[i]
	}
}

// relayout re-measures and re-arranges a workspace's tiling tree and
// re-runs scroll-to-focus. The Hub calls this unconditionally at the
// end of every public command that could have changed layout or focus
//. Fullscreen windows need no arranging:
// the placement projection renders them at the usable rectangle.
func (h *Hub) relayout(id WorkspaceID) {
	ws := h.ws(id)

	if ws.HasRoot {
		m := h.measureTree(ws.Root)
		tilingRect := ws.Rect
		if m.minW > tilingRect.Width {
			tilingRect.Width = m.minW
		}
		if m.minH > tilingRect.Height {
			tilingRect.Height = m.minH
		}
		ws.TilingRect = tilingRect
		h.arrangeChild(ws.Root, tilingRect)
	} else {
		ws.TilingRect = ws.Rect
	}

	h.scrollToFocus(ws)
}
