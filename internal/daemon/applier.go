package daemon

import (
	"log/slog"

	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/platform"
)

// Applier translates the Hub's placement projection into real window
// moves. It is the downstream half of the shim boundary: the Hub
// computes, the applier executes, and nothing flows back.
type Applier struct {
	backend  platform.Backend
	registry *WindowRegistry
	logger   *slog.Logger

	// last remembers each window's most recently applied frame so a
	// burst of commands that doesn't move a window costs no X round
	// trips for it.
	last map[int]platform.Rect
}

// NewApplier creates an applier bound to a backend and registry.
func NewApplier(backend platform.Backend, registry *WindowRegistry, logger *slog.Logger) *Applier {
	return &Applier{
		backend:  backend,
		registry: registry,
		logger:   logger,
		last:     make(map[int]platform.Rect),
	}
}

// Apply pushes one placement projection out to the platform. monitors
// supplies each monitor's usable rectangle, which is what a fullscreen
// window is rendered at.
func (a *Applier) Apply(placements []hub.MonitorPlacement, monitors []hub.MonitorSummary) {
	if a.backend == nil {
		return
	}
	rects := make(map[hub.MonitorID]platform.Rect, len(monitors))
	for _, m := range monitors {
		rects[m.ID] = platform.Rect{X: m.Rect.X, Y: m.Rect.Y, Width: m.Rect.Width, Height: m.Rect.Height}
	}
	for _, mp := range placements {
		if mp.Kind == hub.PlacementFullscreen {
			a.applyOne(int(mp.Fullscreen), rects[mp.MonitorID])
			continue
		}
		for _, wp := range mp.Tiling {
			a.applyOne(int(wp.ID), platform.Rect{X: wp.Frame.X, Y: wp.Frame.Y, Width: wp.Frame.Width, Height: wp.Frame.Height})
		}
		for _, wp := range mp.Floats {
			a.applyOne(int(wp.ID), platform.Rect{X: wp.Frame.X, Y: wp.Frame.Y, Width: wp.Frame.Width, Height: wp.Frame.Height})
		}
	}
}

func (a *Applier) applyOne(hubID int, rect platform.Rect) {
	platformID, ok := a.registry.PlatformID(hubID)
	if !ok {
		// windows created over IPC without a real backing window (the
		// smoke path) simply have nothing to move.
		return
	}
	if prev, ok := a.last[hubID]; ok && prev == rect {
		return
	}
	if err := a.backend.MoveResize(platform.WindowID(platformID), rect); err != nil {
		a.logger.Warn("move_resize failed", "platform_id", platformID, "error", err)
		return
	}
	a.last[hubID] = rect
}
