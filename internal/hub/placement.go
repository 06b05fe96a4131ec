package hub

import (
	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// PlacementKind tags a MonitorPlacement's layout variant.
type PlacementKind int

const (
	PlacementFullscreen PlacementKind = iota
	PlacementNormal
)

// WindowPlacement is one window's projected geometry.
type WindowPlacement struct {
	ID           WindowID
	Frame        geom.Rect
	VisibleFrame geom.Rect
	IsFocused    bool
	Title        string
}

// MonitorPlacement is one monitor's rendering instructions: either a
// single fullscreen window, or the tiling windows plus floats of its
// active workspace.
type MonitorPlacement struct {
	MonitorID  MonitorID
	Kind       PlacementKind
	Fullscreen WindowID
	Tiling     []WindowPlacement
	Floats     []WindowPlacement
}

func (h *Hub) placeWindow(id WindowID, ws *Workspace, mon *Monitor, focused bool) WindowPlacement {
	w := h.win(id)
	frame := w.Rect.Offset(ws.ViewportDX, ws.ViewportDY)
	return WindowPlacement{
		ID:           id,
		Frame:        frame,
		VisibleFrame: frame.Intersect(mon.Rect),
		IsFocused:    focused,
		Title:        w.Title,
	}
}

// GetVisiblePlacements implements get_visible_placements: the only read-side contract the platform shim consumes.
func (h *Hub) GetVisiblePlacements() []MonitorPlacement {
	var out []MonitorPlacement

	h.monitors.Enumerate(func(_ arena.ID, mon *Monitor) bool {
		ws := h.ws(mon.ActiveWS)

		if n := len(ws.Fullscreens); n > 0 {
			out = append(out, MonitorPlacement{
				MonitorID:  mon.ID,
				Kind:       PlacementFullscreen,
				Fullscreen: ws.Fullscreens[n-1],
			})
			return true
		}

		mp := MonitorPlacement{MonitorID: mon.ID, Kind: PlacementNormal}

		if ws.HasRoot {
			var windows []WindowID
			h.collectWindows(ws.Root, &windows)
			for _, wid := range windows {
				focused := ws.Focus.Kind == FocusTiling &&
					ws.Focus.Tiling.Kind == ChildWindow &&
					ws.Focus.Tiling.Window == wid
				mp.Tiling = append(mp.Tiling, h.placeWindow(wid, ws, mon, focused))
			}
		}

		// Floats are emitted after tiling windows (later-in-list =
		// above); see DESIGN.md for the float/tiling
		// stacking order formally unstated.
		for _, fid := range ws.Floats {
			focused := ws.Focus.Kind == FocusFloat && ws.Focus.ID == fid
			mp.Floats = append(mp.Floats, h.placeWindow(fid, ws, mon, focused))
		}

		out = append(out, mp)
		return true
	})

	return out
}
