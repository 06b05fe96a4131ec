package hub

import (
	"fmt"

	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// MonitorSummary is the read model behind the GET_MONITORS IPC command
// and the `termtile monitors` subcommand: one row per live monitor.
type MonitorSummary struct {
	ID             MonitorID `json:"id"`
	Name           string    `json:"name"`
	Rect           geom.Rect `json:"rect"`
	WorkspaceCount int       `json:"workspace_count"`
	WindowCount    int       `json:"window_count"`
	Focused        bool      `json:"focused"`
}

// Monitors enumerates every live monitor with its workspace and window
// counts. Read-only.
func (h *Hub) Monitors() []MonitorSummary {
	var out []MonitorSummary
	h.monitors.Enumerate(func(id arena.ID, mon *Monitor) bool {
		s := MonitorSummary{
			ID:             MonitorID(id),
			Name:           mon.Name,
			Rect:           mon.Rect,
			WorkspaceCount: len(mon.Workspaces),
			Focused:        MonitorID(id) == h.focusedMonitor,
		}
		for _, wsID := range mon.Workspaces {
			ws := h.ws(wsID)
			if ws.HasRoot {
				var windows []WindowID
				h.collectWindows(ws.Root, &windows)
				s.WindowCount += len(windows)
			}
			s.WindowCount += len(ws.Floats) + len(ws.Fullscreens)
		}
		out = append(out, s)
		return true
	})
	return out
}

// TreeNode is one node of the DumpTree snapshot: a JSON-friendly,
// fully-resolved copy of the scene graph with no arena ids left to
// chase. The inspector TUI renders it verbatim.
type TreeNode struct {
	Kind     string     `json:"kind"` // monitor | workspace | container | window
	ID       int        `json:"id"`
	Label    string     `json:"label"`
	Rect     geom.Rect  `json:"rect"`
	Focused  bool       `json:"focused"`
	Children []TreeNode `json:"children,omitempty"`
}

// DumpTree snapshots the whole scene graph: one root node per monitor,
// its workspaces below, then each workspace's tiling tree, floats and
// fullscreen stack. Debug/observability only; it never mutates state.
func (h *Hub) DumpTree() []TreeNode {
	var out []TreeNode
	h.monitors.Enumerate(func(id arena.ID, mon *Monitor) bool {
		mn := TreeNode{
			Kind:    "monitor",
			ID:      int(id),
			Label:   mon.Name,
			Rect:    mon.Rect,
			Focused: MonitorID(id) == h.focusedMonitor,
		}
		for _, wsID := range mon.Workspaces {
			ws := h.ws(wsID)
			wn := TreeNode{
				Kind:    "workspace",
				ID:      int(wsID),
				Label:   fmt.Sprintf("workspace %q", ws.Name),
				Rect:    ws.Rect,
				Focused: mon.ActiveWS == wsID && mn.Focused,
			}
			if ws.HasRoot {
				wn.Children = append(wn.Children, h.dumpChild(ws, ws.Root))
			}
			for _, fid := range ws.Floats {
				w := h.win(fid)
				wn.Children = append(wn.Children, TreeNode{
					Kind:    "window",
					ID:      int(fid),
					Label:   fmt.Sprintf("float %q", w.Title),
					Rect:    w.Rect,
					Focused: ws.Focus.Kind == FocusFloat && ws.Focus.ID == fid,
				})
			}
			for _, fid := range ws.Fullscreens {
				w := h.win(fid)
				wn.Children = append(wn.Children, TreeNode{
					Kind:    "window",
					ID:      int(fid),
					Label:   fmt.Sprintf("fullscreen %q", w.Title),
					Rect:    w.Rect,
					Focused: ws.Focus.Kind == FocusFullscreen && ws.Focus.ID == fid,
				})
			}
			mn.Children = append(mn.Children, wn)
		}
		out = append(out, mn)
		return true
	})
	return out
}

func (h *Hub) dumpChild(ws *Workspace, c Child) TreeNode {
	if c.Kind == ChildWindow {
		w := h.win(c.Window)
		return TreeNode{
			Kind:    "window",
			ID:      int(c.Window),
			Label:   fmt.Sprintf("window %q", w.Title),
			Rect:    w.Rect,
			Focused: ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Equal(c),
		}
	}

	ctr := h.ctr(c.Container)
	label := ctr.Direction.String()
	if ctr.Tabbed {
		label = fmt.Sprintf("tabbed (tab %d/%d)", ctr.ActiveTab+1, len(ctr.Children))
	}
	n := TreeNode{
		Kind:    "container",
		ID:      int(c.Container),
		Label:   label,
		Rect:    ctr.Rect,
		Focused: ws.Focus.Kind == FocusTiling && ws.Focus.Tiling.Equal(c),
	}
	for _, cc := range ctr.Children {
		n.Children = append(n.Children, h.dumpChild(ws, cc))
	}
	return n
}
