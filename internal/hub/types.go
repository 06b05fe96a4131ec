package hub

import (
	"github.com/1broseidon/termtile/internal/hub/arena"
	"github.com/1broseidon/termtile/internal/hub/geom"
)

// MonitorID, WorkspaceID, ContainerID and WindowID are opaque handles
// into their respective arenas. They are distinct types so the
// compiler catches a window id passed where a container id belongs.
type (
	MonitorID   arena.ID
	WorkspaceID arena.ID
	ContainerID arena.ID
	WindowID    arena.ID
)

// Axis is a split direction: windows in a Horizontal container sit
// side by side: windows in a Vertical one stack top to bottom.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Dir is a directional-command argument: focus_left, move_up, etc.
type Dir int

const (
	DirLeft Dir = iota
	DirRight
	DirUp
	DirDown
)

// Axis returns the split axis a Dir moves along.
func (d Dir) Axis() Axis {
	if d == DirLeft || d == DirRight {
		return Horizontal
	}
	return Vertical
}

// Forward reports whether d moves toward higher indices in a
// container's child list (Right or Down).
func (d Dir) Forward() bool {
	return d == DirRight || d == DirDown
}

// MonDir is a focus_monitor/move_focused_to_monitor argument.
type MonDir int

const (
	MonUp MonDir = iota
	MonDown
	MonLeft
	MonRight
)

// ChildKind tags whether a Child is a window or a container.
type ChildKind int

const (
	ChildWindow ChildKind = iota
	ChildContainer
)

// Child is a tagged reference to one of a container's (or a
// workspace's tiling root's) children.
type Child struct {
	Kind      ChildKind
	Window    WindowID
	Container ContainerID
}

// Equal reports whether c and other reference the same node.
func (c Child) Equal(other Child) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == ChildWindow {
		return c.Window == other.Window
	}
	return c.Container == other.Container
}

// ParentKind tags whether a Parent is a container or a workspace.
type ParentKind int

const (
	ParentContainer ParentKind = iota
	ParentWorkspace
)

// Parent is a tagged reference to a container's or a tiling root
// window's parent.
type Parent struct {
	Kind      ParentKind
	Container ContainerID
	Workspace WorkspaceID
}

// FocusKind tags what kind of node a workspace's Focus points at.
type FocusKind int

const (
	FocusNone FocusKind = iota
	FocusTiling
	FocusFloat
	FocusFullscreen
)

// Focus is a workspace's single focused-element pointer: a tiling
// child, a float window id, or a fullscreen window id.
type Focus struct {
	Kind   FocusKind
	Tiling Child
	ID     WindowID
}

func tilingFocus(c Child) Focus       { return Focus{Kind: FocusTiling, Tiling: c} }
func floatFocus(id WindowID) Focus    { return Focus{Kind: FocusFloat, ID: id} }
func fullFocus(id WindowID) Focus     { return Focus{Kind: FocusFullscreen, ID: id} }
func noFocus() Focus                  { return Focus{Kind: FocusNone} }
func (f Focus) isTiling() bool        { return f.Kind == FocusTiling }

// DisplayMode is a window's current presentation mode.
type DisplayMode int

const (
	ModeTiling DisplayMode = iota
	ModeFloat
	ModeFullscreen
)

// Monitor is a physical output: an id, a stable logical name, a usable
// rectangle in global coordinates, and the workspaces it hosts.
type Monitor struct {
	ID         MonitorID
	Name       string
	Rect       geom.Rect
	Workspaces []WorkspaceID
	ActiveWS   WorkspaceID
}

// Workspace is a per-monitor tiling scene: a tree root, a float list,
// a fullscreen stack, the focused element, and the viewport offset
// that lets an oversized tree scroll into view.
type Workspace struct {
	ID        WorkspaceID
	Name      string
	MonitorID MonitorID
	Rect      geom.Rect // hosting monitor's usable rect, global coordinates

	HasRoot bool
	Root    Child
	// RootDir is the implicit split direction used when the root is a
	// single bare window (no container yet exists to carry a
	// Direction of its own). Insertions and moves that create a root
	// container, and ToggleDirection on the root, set it to that
	// container's Direction; a merge that promotes a different
	// container to root leaves it unchanged. See DESIGN.md for why
	// deleting the last container makes tracking this explicitly
	// necessary.
	RootDir Axis

	Focus Focus

	Floats      []WindowID
	Fullscreens []WindowID

	ViewportDX int
	ViewportDY int

	// TilingRect is the arranged tiling tree's bounding rect, filled
	// in by the layout engine's arrange pass (may exceed Rect).
	TilingRect geom.Rect
}

// Container is an interior tiling-tree node: a non-empty ordered list
// of children, a split direction, optional tab mode, and a spawn
// direction preference used by insert_tiling.
type Container struct {
	ID       ContainerID
	Parent   Parent
	Children []Child

	Direction Axis
	SpawnDir  Axis

	Tabbed    bool
	ActiveTab int

	Rect geom.Rect

	// measure-pass cache, recomputed at the start of every arrange.
	minW, minH     int
	freeH, freeV   int
}

// Window is a leaf node: a display mode, a parent reference, an
// arranged rectangle, optional size constraints, and a title.
type Window struct {
	ID          WindowID
	Mode        DisplayMode
	Parent      Parent
	WorkspaceID WorkspaceID

	Rect geom.Rect

	SpawnDir Axis

	// PrevMode records the mode a window had before set_fullscreen
	// overlaid it, so unset_fullscreen knows whether to restore it as
	// tiling or float.
	PrevMode DisplayMode

	MinW, MinH *int
	MaxW, MaxH *int

	Title string
}
