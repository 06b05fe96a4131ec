// Package daemon wires the Hub, the X11 shim and the IPC server into
// one process. The Hub itself is strictly single-threaded; everything
// that wants to mutate it (IPC connections, X11 events, hotkeys, the
// reconciler) posts a closure onto one command channel that a single
// goroutine drains. That channel is the serialization point the core's
// concurrency model requires.
package daemon

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/termtile/internal/config"
	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/hub/geom"
	"github.com/1broseidon/termtile/internal/platform"
)

// command is one unit of work for the run loop: a mutation (or read)
// of the Hub plus a done channel the poster can wait on.
type command struct {
	fn   func(h *hub.Hub)
	done chan struct{}
}

// Daemon owns the Hub and the single goroutine allowed to touch it.
type Daemon struct {
	cfg      *config.Config
	hub      *hub.Hub
	backend  platform.Backend
	registry *WindowRegistry
	applier  *Applier
	logger   *slog.Logger

	commands chan command
	fatal    chan error
}

// New assembles a daemon around a freshly constructed Hub seeded from
// the configured initial monitor rectangle.
func New(cfg *config.Config, backend platform.Backend, logger *slog.Logger) *Daemon {
	h := hub.New(geom.Rect{
		X:      cfg.InitialMonitorRect.X,
		Y:      cfg.InitialMonitorRect.Y,
		Width:  cfg.InitialMonitorRect.Width,
		Height: cfg.InitialMonitorRect.Height,
	}, cfg.BorderThickness, cfg.TabStripHeight)
	h.SyncConfig(cfg.BorderThickness, cfg.TabStripHeight, cfg.DefaultMinWidth, cfg.DefaultMinHeight)

	registry := NewWindowRegistry()
	d := &Daemon{
		cfg:      cfg,
		hub:      h,
		backend:  backend,
		registry: registry,
		applier:  NewApplier(backend, registry, logger),
		logger:   logger,
		commands: make(chan command, 64),
		fatal:    make(chan error, 1),
	}
	return d
}

// Registry exposes the platform-window binding table to the listener
// and reconciler.
func (d *Daemon) Registry() *WindowRegistry { return d.registry }

// Exec runs fn against the Hub on the run-loop goroutine and blocks
// until it has finished. Every external caller — IPC handlers, X11
// event callbacks, hotkeys, the reconciler — goes through here; no
// other code path may touch the Hub.
func (d *Daemon) Exec(fn func(h *hub.Hub)) {
	cmd := command{fn: fn, done: make(chan struct{})}
	d.commands <- cmd
	<-cmd.done
}

// Run drains the command channel until ctx is cancelled, re-applying
// placements after every command. A *hub.FatalError escaping a command
// is the documented invariant-violation exit path: it is reported and
// the daemon shuts down with a non-zero status via Fatal().
func (d *Daemon) Run(ctx context.Context) {
	d.logger.Info("hub run loop started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("hub run loop stopped")
			return
		case cmd := <-d.commands:
			d.runOne(cmd)
		}
	}
}

func (d *Daemon) runOne(cmd command) {
	defer close(cmd.done)
	defer func() {
		if r := recover(); r != nil {
			if ferr, ok := r.(*hub.FatalError); ok {
				d.logger.Error("hub invariant violation", "error", ferr)
				select {
				case d.fatal <- ferr:
				default:
				}
				return
			}
			panic(r)
		}
	}()

	cmd.fn(d.hub)
	d.applier.Apply(d.hub.GetVisiblePlacements(), d.hub.Monitors())
}

// Fatal delivers the first invariant violation observed by the run
// loop; the process turns it into a non-zero exit code.
func (d *Daemon) Fatal() <-chan error { return d.fatal }

// SyncMonitors reconciles the Hub's monitor list against what the
// platform currently reports: new outputs are added, known ones get
// their rectangle refreshed, vanished ones are removed with their
// workspaces migrated to the configured fallback monitor.
func (d *Daemon) SyncMonitors() {
	displays, err := d.backend.Displays()
	if err != nil {
		d.logger.Warn("monitor sync: display enumeration failed", "error", err)
		return
	}
	if len(displays) == 0 {
		return
	}

	d.Exec(func(h *hub.Hub) {
		reported := make(map[string]bool, len(displays))
		for _, disp := range displays {
			reported[disp.Name] = true
		}

		// the config-seeded monitor adopts the first real output's name
		// the first time the platform reports geometry.
		mons := h.Monitors()
		if len(mons) == 1 && !reported[mons[0].Name] {
			h.RenameMonitor(mons[0].ID, displays[0].Name)
			d.logger.Info("seed monitor bound to output", "name", displays[0].Name)
		}

		known := make(map[string]hub.MonitorID)
		for _, m := range h.Monitors() {
			known[m.Name] = m.ID
		}

		for _, disp := range displays {
			rect := geom.Rect{X: disp.Usable.X, Y: disp.Usable.Y, Width: disp.Usable.Width, Height: disp.Usable.Height}
			if id, ok := known[disp.Name]; ok {
				h.UpdateMonitorDimension(id, rect)
				continue
			}
			id := h.AddMonitor(disp.Name, rect)
			known[disp.Name] = id
			d.logger.Info("monitor added", "name", disp.Name, "id", int(id))
		}

		for name, id := range known {
			if reported[name] {
				continue
			}
			fallback, ok := d.fallbackMonitor(h, id)
			if !ok {
				continue
			}
			h.RemoveMonitor(id, fallback)
			d.logger.Info("monitor removed", "name", name, "fallback", int(fallback))
		}
	})
}

// fallbackMonitor picks the recipient for a vanished monitor's
// workspaces: the configured fallback_monitor_name when that monitor
// is alive, else any other surviving monitor.
func (d *Daemon) fallbackMonitor(h *hub.Hub, not hub.MonitorID) (hub.MonitorID, bool) {
	monitors := h.Monitors()
	for _, m := range monitors {
		if m.ID != not && m.Name == d.cfg.FallbackMonitorName {
			return m.ID, true
		}
	}
	for _, m := range monitors {
		if m.ID != not {
			return m.ID, true
		}
	}
	return 0, false
}

// AdoptExistingWindows inserts every normal window the platform
// already has into the Hub, so a daemon started on a busy desktop
// begins managing what's there instead of only what maps afterwards.
func (d *Daemon) AdoptExistingWindows() {
	displays, err := d.backend.Displays()
	if err != nil {
		d.logger.Warn("adopt: display enumeration failed", "error", err)
		return
	}
	for _, disp := range displays {
		windows, err := d.backend.ListWindowsOnDisplay(disp.ID)
		if err != nil {
			d.logger.Warn("adopt: window enumeration failed", "display", disp.Name, "error", err)
			continue
		}
		for _, win := range windows {
			platformID := uint32(win.ID)
			if hubID, tracked := d.registry.HubID(platformID); tracked {
				live := false
				d.Exec(func(h *hub.Hub) { live = h.HasWindow(hub.WindowID(hubID)) })
				if live {
					continue
				}
				// a binding restored from a previous daemon lifecycle:
				// the platform window exists but the Hub id is stale.
				d.registry.Unbind(platformID)
			}
			title := win.Title
			d.Exec(func(h *hub.Hub) {
				id := h.InsertTiling(title)
				d.registry.Bind(platformID, int(id))
			})
			d.logger.Info("adopted window", "platform_id", platformID, "title", title)
		}
	}
}

// RunReconciler periodically repairs drift between the platform's
// window list and the Hub's. Blocks until ctx is cancelled.
func (d *Daemon) RunReconciler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Info("reconciler started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			d.Reconcile()
		}
	}
}

// Reconcile performs a single drift-repair pass: windows the platform
// no longer has are deleted from the Hub; unmanaged platform windows
// are adopted; monitors are re-synced.
func (d *Daemon) Reconcile() {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("reconciler panic recovered", "error", r)
		}
	}()

	d.SyncMonitors()

	actual := make(map[uint32]bool)
	displays, err := d.backend.Displays()
	if err != nil {
		d.logger.Warn("reconciler: display enumeration failed", "error", err)
		return
	}
	for _, disp := range displays {
		windows, err := d.backend.ListWindowsOnDisplay(disp.ID)
		if err != nil {
			continue
		}
		for _, win := range windows {
			actual[uint32(win.ID)] = true
		}
	}

	for _, platformID := range d.registry.TrackedPlatformIDs() {
		if actual[platformID] {
			continue
		}
		hubID, ok := d.registry.HubID(platformID)
		if !ok {
			continue
		}
		d.logger.Info("reconciler: window vanished", "platform_id", platformID, "hub_id", hubID)
		d.Exec(func(h *hub.Hub) {
			h.DeleteWindow(hub.WindowID(hubID))
		})
		d.registry.Unbind(platformID)
	}

	d.AdoptExistingWindows()
}

// SaveRegistry persists the window binding table so the next daemon
// lifecycle knows which platform windows were under management.
func (d *Daemon) SaveRegistry() {
	if err := d.registry.Save(); err != nil {
		d.logger.Warn("registry save failed", "error", err)
	}
}

// LoadRegistry restores a previously saved binding table as-is; it
// does not check the entries. AdoptExistingWindows rebinds entries
// whose Hub id is stale, and the next reconcile pass drops entries
// whose platform windows no longer exist.
func (d *Daemon) LoadRegistry() {
	if err := d.registry.Load(); err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn("registry load failed", "error", err)
		}
	}
}
