package hub

import "github.com/1broseidon/termtile/internal/hub/geom"

// rectOf returns a tiling child's current (un-offset) rectangle, as
// filled in by the most recent arrange pass.
func (h *Hub) rectOf(c Child) geom.Rect {
	if c.Kind == ChildWindow {
		return h.win(c.Window).Rect
	}
	return h.ctr(c.Container).Rect
}

// scrollToFocus runs after any operation that changes layout or
// focus: it recomputes each axis of the workspace's viewport offset
// so the focused tiling element stays visible, with minimal scroll,
// inside the usable rectangle.
func (h *Hub) scrollToFocus(ws *Workspace) {
	var fx, fy, fw, fh int
	haveFocus := false
	if ws.Focus.Kind == FocusTiling {
		r := h.rectOf(ws.Focus.Tiling)
		fx, fy, fw, fh = r.X, r.Y, r.Width, r.Height
		haveFocus = true
	}

	ws.ViewportDX = scrollAxis(ws.ViewportDX, ws.Rect.X, ws.Rect.Width, ws.TilingRect.X, ws.TilingRect.Width, fx, fw, haveFocus)
	ws.ViewportDY = scrollAxis(ws.ViewportDY, ws.Rect.Y, ws.Rect.Height, ws.TilingRect.Y, ws.TilingRect.Height, fy, fh, haveFocus)
}

// scrollAxis computes one axis of the viewport offset: 0 when the
// tiling rect already fits, otherwise the minimal shift that brings
// the focused element's protruding edge back into view, clamped so
// the tiling rect always fully covers the usable rect.
func scrollAxis(cur, usablePos, usableSize, tilingPos, tilingSize, focusPos, focusSize int, haveFocus bool) int {
	if tilingSize <= usableSize {
		return 0
	}

	if haveFocus {
		visPos := focusPos + cur
		visEnd := visPos + focusSize
		if visPos < usablePos {
			cur += usablePos - visPos
		} else if visEnd > usablePos+usableSize {
			cur -= visEnd - (usablePos + usableSize)
		}
	}

	upper := usablePos - tilingPos
	lower := usablePos + usableSize - tilingPos - tilingSize
	if cur > upper {
		cur = upper
	}
	if cur < lower {
		cur = lower
	}
	return cur
}
