package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/termtile/internal/config"
	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/hub/geom"
	"github.com/1broseidon/termtile/internal/runtimepath"
)

// Executor serializes access to the Hub: Exec runs fn on the single
// goroutine allowed to touch it and blocks until fn returns. The
// daemon's run loop implements it; connection goroutines here never
// see the Hub outside an Exec callback.
type Executor interface {
	Exec(fn func(h *hub.Hub))
}

// Server handles IPC requests from clients, dispatching them onto the Hub.
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	exec         Executor
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex

	// ExitFunc, when set, is invoked after an EXIT command has been
	// acknowledged; the daemon installs its shutdown trigger here.
	ExitFunc func()
}

// NewServer creates a new IPC server dispatching onto exec.
func NewServer(cfg *config.Config, exec Executor, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		exec:       exec,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand dispatches one request onto the Hub via the executor.
// A FatalError surfacing from the Hub means an internal invariant was
// violated; it is not caught here but by the daemon's run-loop
// recover, which turns it into the process's failure exit.
func (s *Server) handleCommand(req *Request) *Response {
	var resp *Response
	s.exec.Exec(func(h *hub.Hub) {
		resp = s.dispatch(h, req)
	})
	if resp == nil {
		return NewErrorResponse("command aborted")
	}
	return resp
}

func (s *Server) dispatch(h *hub.Hub, req *Request) *Response {
	arg := func(i int) string {
		if i < len(req.Args) {
			return req.Args[i]
		}
		return ""
	}

	switch req.Command {
	case CommandFocus:
		return s.handleFocus(h, arg(0), req.Args)
	case CommandFocusWorkspace:
		h.FocusWorkspace(arg(0))
		return ok(nil)
	case CommandFocusMonitor:
		dir, err := parseMonDir(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.FocusMonitor(dir)
		return ok(nil)
	case CommandMove:
		return s.handleMove(h, arg(0))
	case CommandMoveWorkspace:
		h.MoveFocusedToWorkspace(arg(0))
		return ok(nil)
	case CommandMoveMonitor:
		dir, err := parseMonDir(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.MoveFocusedToMonitor(dir)
		return ok(nil)
	case CommandToggle:
		return s.handleToggle(h, arg(0))
	case CommandInsertTiling:
		id := h.InsertTiling(arg(0))
		return ok(int(id))
	case CommandInsertFloat:
		return s.handleInsertFloat(h, req.Payload)
	case CommandDeleteWindow:
		id, err := parseWindowID(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.DeleteWindow(id)
		return ok(nil)
	case CommandSetFocus:
		id, err := parseWindowID(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.SetFocus(id)
		return ok(nil)
	case CommandSetWindowConstraint:
		return s.handleSetWindowConstraint(h, req.Payload)
	case CommandSetFullscreen:
		id, err := parseWindowID(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.SetFullscreen(id)
		return ok(nil)
	case CommandUnsetFullscreen:
		id, err := parseWindowID(arg(0))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		h.UnsetFullscreen(id)
		return ok(nil)
	case CommandToggleFullscreen:
		h.ToggleFullscreen()
		return ok(nil)
	case CommandAddMonitor:
		return s.handleAddMonitor(h, req.Payload)
	case CommandRemoveMonitor:
		return s.handleRemoveMonitor(h, req.Payload)
	case CommandUpdateMonitorRect:
		return s.handleUpdateMonitorDimension(h, req.Payload)
	case CommandWindowAt:
		return s.handleWindowAt(h, req.Args)
	case CommandSyncConfig:
		return s.handleSyncConfig(h, req.Payload)
	case CommandGetVisiblePlacements:
		resp, _ := NewOKResponse(h.GetVisiblePlacements())
		return resp
	case CommandGetStatus:
		return s.handleGetStatus(h)
	case CommandGetMonitors:
		return s.handleGetMonitors(h)
	case CommandGetTree:
		resp, _ := NewOKResponse(h.DumpTree())
		return resp
	case CommandExit:
		log.Printf("IPC exit requested")
		if s.ExitFunc != nil {
			go s.ExitFunc()
		}
		resp, _ := NewOKResponse(nil)
		return resp
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleFocus(h *hub.Hub, sub string, args []string) *Response {
	switch sub {
	case "up", "down", "left", "right":
		d, _ := parseDir(sub)
		h.FocusDir(d)
	case "parent":
		h.FocusParent()
	case "next_tab":
		h.FocusNextTab()
	case "prev_tab":
		h.FocusPrevTab()
	case "workspace":
		if len(args) < 2 {
			return NewErrorResponse("focus workspace requires a name")
		}
		h.FocusWorkspace(args[1])
	default:
		return NewErrorResponse(fmt.Sprintf("unknown focus target %q", sub))
	}
	return ok(nil)
}

func (s *Server) handleMove(h *hub.Hub, sub string) *Response {
	d, err := parseDir(sub)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	h.MoveDir(d)
	return ok(nil)
}

func (s *Server) handleToggle(h *hub.Hub, sub string) *Response {
	switch sub {
	case "spawn_direction":
		h.ToggleSpawnDirection()
	case "direction":
		h.ToggleDirection()
	case "layout":
		h.ToggleContainerLayout()
	case "float":
		h.ToggleFloat()
	default:
		return NewErrorResponse(fmt.Sprintf("unknown toggle target %q", sub))
	}
	return ok(nil)
}

func (s *Server) handleInsertFloat(h *hub.Hub, payload json.RawMessage) *Response {
	var p InsertFloatPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid insert_float payload: %v", err))
	}
	id := h.InsertFloat(p.Title, geom.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	return ok(int(id))
}

func (s *Server) handleSetWindowConstraint(h *hub.Hub, payload json.RawMessage) *Response {
	var p SetWindowConstraintPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid set_window_constraint payload: %v", err))
	}
	h.SetWindowConstraint(hub.WindowID(p.WindowID), p.MinW, p.MinH, p.MaxW, p.MaxH)
	return ok(nil)
}

func (s *Server) handleAddMonitor(h *hub.Hub, payload json.RawMessage) *Response {
	var p AddMonitorPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid add_monitor payload: %v", err))
	}
	id := h.AddMonitor(p.Name, geom.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	return ok(int(id))
}

func (s *Server) handleRemoveMonitor(h *hub.Hub, payload json.RawMessage) *Response {
	var p struct {
		Victim   int `json:"victim"`
		Fallback int `json:"fallback"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid remove_monitor payload: %v", err))
	}
	h.RemoveMonitor(hub.MonitorID(p.Victim), hub.MonitorID(p.Fallback))
	return ok(nil)
}

func (s *Server) handleUpdateMonitorDimension(h *hub.Hub, payload json.RawMessage) *Response {
	var p UpdateMonitorDimensionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid update_monitor_dimension payload: %v", err))
	}
	h.UpdateMonitorDimension(hub.MonitorID(p.MonitorID), geom.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	return ok(nil)
}

func (s *Server) handleWindowAt(h *hub.Hub, args []string) *Response {
	if len(args) < 2 {
		return NewErrorResponse("window_at requires x and y")
	}
	var x, y int
	if _, err := fmt.Sscanf(args[0], "%d", &x); err != nil {
		return NewErrorResponse("invalid x")
	}
	if _, err := fmt.Sscanf(args[1], "%d", &y); err != nil {
		return NewErrorResponse("invalid y")
	}
	id, found := h.WindowAt(x, y)
	if !found {
		resp, _ := NewOKResponse(nil)
		return resp
	}
	return ok(int(id))
}

func (s *Server) handleSyncConfig(h *hub.Hub, payload json.RawMessage) *Response {
	var p SyncConfigPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid sync_config payload: %v", err))
	}
	h.SyncConfig(p.BorderThickness, p.TabStripHeight, p.DefaultMinWidth, p.DefaultMinHeight)

	s.cfgMu.Lock()
	s.cfg.BorderThickness = p.BorderThickness
	s.cfg.TabStripHeight = p.TabStripHeight
	s.cfg.DefaultMinWidth = p.DefaultMinWidth
	s.cfg.DefaultMinHeight = p.DefaultMinHeight
	s.cfgMu.Unlock()

	select {
	case s.reloadChan <- struct{}{}:
	default:
	}
	return ok(nil)
}

func (s *Server) handleGetStatus(h *hub.Hub) *Response {
	status := StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	for _, m := range h.Monitors() {
		status.Monitors = append(status.Monitors, MonitorStatusEntry{
			MonitorID:      int(m.ID),
			Name:           m.Name,
			WorkspaceCount: m.WorkspaceCount,
			WindowCount:    m.WindowCount,
			Focused:        m.Focused,
		})
	}
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetMonitors(h *hub.Hub) *Response {
	var infos []MonitorInfo
	for _, m := range h.Monitors() {
		infos = append(infos, MonitorInfo{
			ID:     int(m.ID),
			Name:   m.Name,
			X:      m.Rect.X,
			Y:      m.Rect.Y,
			Width:  m.Rect.Width,
			Height: m.Rect.Height,
		})
	}
	resp, _ := NewOKResponse(MonitorsData{Monitors: infos})
	return resp
}

func parseDir(s string) (hub.Dir, error) {
	switch s {
	case "left":
		return hub.DirLeft, nil
	case "right":
		return hub.DirRight, nil
	case "up":
		return hub.DirUp, nil
	case "down":
		return hub.DirDown, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseMonDir(s string) (hub.MonDir, error) {
	switch s {
	case "up":
		return hub.MonUp, nil
	case "down":
		return hub.MonDown, nil
	case "left":
		return hub.MonLeft, nil
	case "right":
		return hub.MonRight, nil
	default:
		return 0, fmt.Errorf("unknown monitor direction %q", s)
	}
}

func parseWindowID(s string) (hub.WindowID, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return hub.WindowID(n), nil
}

func ok(data interface{}) *Response {
	resp, _ := NewOKResponse(data)
	return resp
}

// sendError sends an error response.
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe).
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe).
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
