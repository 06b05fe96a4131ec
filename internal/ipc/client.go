package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/runtimepath"
)

// Client handles IPC communication with the daemon.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		socketPath = ""
	}
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// Command sends one of the daemon's text commands (`focus left`,
// `toggle float`, ...) split into its command name and arguments.
func (c *Client) Command(cmd CommandType, args ...string) error {
	_, err := c.sendRequest(&Request{Command: cmd, Args: args})
	return err
}

// InsertTiling inserts a new tiling window, returning its id.
func (c *Client) InsertTiling(title string) (int, error) {
	resp, err := c.sendRequest(&Request{Command: CommandInsertTiling, Args: []string{title}})
	if err != nil {
		return 0, err
	}
	var id int
	if err := json.Unmarshal(resp.Data, &id); err != nil {
		return 0, fmt.Errorf("failed to parse window id: %w", err)
	}
	return id, nil
}

// SetWindowConstraint sends a min/max geometry constraint; nil clears a bound.
func (c *Client) SetWindowConstraint(p SetWindowConstraintPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal constraint payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandSetWindowConstraint, Payload: payload})
	return err
}

// GetStatus retrieves daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetMonitors retrieves monitor information.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}
	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}
	return &monitors, nil
}

// GetVisiblePlacements retrieves the live placement projection, the same
// data the platform shim consumes to position real windows.
func (c *Client) GetVisiblePlacements() ([]hub.MonitorPlacement, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetVisiblePlacements})
	if err != nil {
		return nil, err
	}
	var placements []hub.MonitorPlacement
	if err := json.Unmarshal(resp.Data, &placements); err != nil {
		return nil, fmt.Errorf("failed to parse placements: %w", err)
	}
	return placements, nil
}

// GetTree retrieves the full scene-graph snapshot the inspector renders.
func (c *Client) GetTree() ([]hub.TreeNode, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetTree})
	if err != nil {
		return nil, err
	}
	var tree []hub.TreeNode
	if err := json.Unmarshal(resp.Data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse tree data: %w", err)
	}
	return tree, nil
}

// Ping checks if the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
