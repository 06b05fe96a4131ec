// Package hub implements the Hub: the in-memory tiling scene graph
// and the algorithms that edit, balance, scroll and project it. It is
// the engine core — single-threaded, synchronous, and
// free of any I/O. Platform shims (internal/x11, internal/platform)
// are the only code allowed to turn its output into real window moves.
package hub

import (
	"strconv"

	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// Hub is the public facade: every exported method corresponds to one
// inbound engine operation. No method blocks, suspends, or
// performs I/O; every call completes synchronously and leaves the
// arenas in an invariant-preserving state (or panics with a
// *FatalError if a bug broke that promise).
type Hub struct {
	monitors   *arena.Arena[*Monitor]
	workspaces *arena.Arena[*Workspace]
	containers *arena.Arena[*Container]
	windows    *arena.Arena[*Window]

	focusedMonitor MonitorID

	borderThickness int
	tabStripHeight  int
	defaultMinW     int
	defaultMinH     int

	wsNameSeq int
}

// New constructs a Hub with one monitor covering initialRect,
// hosting one workspace named "0" (the reserved initial name).
// borderThickness is subtracted from every tiling window's final
// rectangle on all four sides; tabStripHeight is the fixed height of
// a tabbed container's tab strip.
func New(initialRect geom.Rect, borderThickness, tabStripHeight int) *Hub {
	h := &Hub{
		monitors:        arena.New[*Monitor](),
		workspaces:      arena.New[*Workspace](),
		containers:      arena.New[*Container](),
		windows:         arena.New[*Window](),
		borderThickness: borderThickness,
		tabStripHeight:  tabStripHeight,
	}

	monID := MonitorID(h.monitors.Allocate(&Monitor{Rect: initialRect}))
	ws := h.newWorkspaceLocked(monID, "0", initialRect)
	mon := h.mon(monID)
	mon.ID = monID
	mon.Name = "monitor-0"
	mon.Workspaces = []WorkspaceID{ws}
	mon.ActiveWS = ws

	h.focusedMonitor = monID
	return h
}

// sync_config: live-updates geometry-affecting config and
// re-lays-out every workspace on every monitor.
func (h *Hub) SyncConfig(border, tabStrip, defaultMinW, defaultMinH int) {
	h.borderThickness = border
	h.tabStripHeight = tabStrip
	h.defaultMinW = defaultMinW
	h.defaultMinH = defaultMinH

	h.monitors.Enumerate(func(_ arena.ID, mon *Monitor) bool {
		for _, wsID := range mon.Workspaces {
			h.relayout(wsID)
		}
		return true
	})
}

// --- typed accessors -------------------------------------------------
//
// Each getter panics with a *FatalError if the id
// is unknown or has been deleted: resolving a dangling id is always a
// programming bug inside the Hub, never user input.

func (h *Hub) mon(id MonitorID) *Monitor {
	m, ok := h.monitors.Get(arena.ID(id))
	if !ok {
		fatalf("mon", "unknown or deleted monitor %d", id)
	}
	return m
}

func (h *Hub) ws(id WorkspaceID) *Workspace {
	w, ok := h.workspaces.Get(arena.ID(id))
	if !ok {
		fatalf("ws", "unknown or deleted workspace %d", id)
	}
	return w
}

func (h *Hub) ctr(id ContainerID) *Container {
	c, ok := h.containers.Get(arena.ID(id))
	if !ok {
		fatalf("ctr", "unknown or deleted container %d", id)
	}
	return c
}

func (h *Hub) win(id WindowID) *Window {
	w, ok := h.windows.Get(arena.ID(id))
	if !ok {
		fatalf("win", "unknown or deleted window %d", id)
	}
	return w
}

func (h *Hub) tryWin(id WindowID) (*Window, bool) { return h.windows.Get(arena.ID(id)) }
func (h *Hub) tryCtr(id ContainerID) (*Container, bool) { return h.containers.Get(arena.ID(id)) }
func (h *Hub) tryWs(id WorkspaceID) (*Workspace, bool)  { return h.workspaces.Get(arena.ID(id)) }
func (h *Hub) tryMon(id MonitorID) (*Monitor, bool)     { return h.monitors.Get(arena.ID(id)) }

// focusedMon/focusedWS resolve the current monitor/workspace.
func (h *Hub) focusedMon() *Monitor { return h.mon(h.focusedMonitor) }

func (h *Hub) focusedWS() *Workspace {
	mon := h.focusedMon()
	return h.ws(mon.ActiveWS)
}

func (h *Hub) newWorkspaceLocked(monID MonitorID, name string, rect geom.Rect) WorkspaceID {
	id := WorkspaceID(h.workspaces.Allocate(&Workspace{
		MonitorID: monID,
		Name:      name,
		Rect:      rect,
		RootDir:   Horizontal,
	}))
	w := h.ws(id)
	w.ID = id
	return id
}

func (h *Hub) nextWorkspaceName() string {
	h.wsNameSeq++
	return strconv.Itoa(h.wsNameSeq)
}
