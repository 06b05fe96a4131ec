package daemon

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// x11Accessor is the optional interface backends expose when they sit
// on a real X11 connection.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Listener subscribes to the root window's substructure and property
// events and turns them into Hub commands posted onto the daemon's run
// loop. It is the upstream half of the shim boundary: X11 events in,
// Hub commands out, never the reverse.
type Listener struct {
	d      *Daemon
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	activeWindowAtom xproto.Atom
}

// NewListener creates a listener for backend's X11 connection.
func NewListener(d *Daemon, backend platform.Backend, logger *slog.Logger) *Listener {
	l := &Listener{d: d, logger: logger}
	if acc, ok := backend.(x11Accessor); ok {
		l.xu = acc.XUtil()
		l.root = acc.RootWindow()
	}
	return l
}

// Start registers the event callbacks. The events are delivered on the
// backend's event loop goroutine; every callback immediately re-posts
// onto the daemon's command channel, so the Hub still sees one command
// at a time.
func (l *Listener) Start() error {
	if l.xu == nil {
		return fmt.Errorf("backend does not expose an X11 connection")
	}

	if err := xwindow.New(l.xu, l.root).Listen(
		xproto.EventMaskSubstructureNotify | xproto.EventMaskPropertyChange,
	); err != nil {
		return fmt.Errorf("failed to select root window events: %w", err)
	}

	reply, err := xproto.InternAtom(l.xu.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}
	l.activeWindowAtom = reply.Atom

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		l.onMap(ev.Window)
	}).Connect(l.xu, l.root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		l.onDestroy(ev.Window)
	}).Connect(l.xu, l.root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window == l.root {
			// root geometry changed: outputs were added, removed or
			// rearranged.
			l.d.SyncMonitors()
		}
	}).Connect(l.xu, l.root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == l.activeWindowAtom {
			l.onActiveWindowChanged()
		}
	}).Connect(l.xu, l.root)

	l.logger.Info("x11 listener started", "root", uint32(l.root))
	return nil
}

func (l *Listener) onMap(win xproto.Window) {
	if !l.isManageable(win) {
		return
	}
	platformID := uint32(win)
	if _, tracked := l.d.Registry().HubID(platformID); tracked {
		return
	}
	title := l.windowTitle(win)
	l.d.Exec(func(h *hub.Hub) {
		id := h.InsertTiling(title)
		l.d.Registry().Bind(platformID, int(id))
	})
	l.logger.Info("window mapped", "platform_id", platformID, "title", title)
}

func (l *Listener) onDestroy(win xproto.Window) {
	platformID := uint32(win)
	hubID, tracked := l.d.Registry().HubID(platformID)
	if !tracked {
		return
	}
	l.d.Exec(func(h *hub.Hub) {
		h.DeleteWindow(hub.WindowID(hubID))
	})
	l.d.Registry().Unbind(platformID)
	l.logger.Info("window destroyed", "platform_id", platformID, "hub_id", hubID)
}

func (l *Listener) onActiveWindowChanged() {
	active, err := ewmh.ActiveWindowGet(l.xu)
	if err != nil || active == 0 {
		return
	}
	hubID, tracked := l.d.Registry().HubID(uint32(active))
	if !tracked {
		return
	}
	l.d.Exec(func(h *hub.Hub) {
		h.SetFocus(hub.WindowID(hubID))
	})
}

// isManageable filters out docks, splashes, notifications and other
// windows a tiler must leave alone.
func (l *Listener) isManageable(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(l.xu, win)
	if err != nil || len(types) == 0 {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLTIP":
			return false
		}
	}
	return true
}

func (l *Listener) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(l.xu, win); err == nil && title != "" {
		return title
	}
	if title, err := icccm.WmNameGet(l.xu, win); err == nil && title != "" {
		return title
	}
	return ""
}
