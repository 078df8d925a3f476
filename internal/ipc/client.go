package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/chromesync/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
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

func (c *Client) statusRequest(req *Request) (*StatusData, error) {
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return c.statusRequest(&Request{Command: CommandGetStatus})
}

// SetFlag toggles one decoration flag. Native failures are reported in the
// returned status's Warnings.
func (c *Client) SetFlag(flag string, enabled bool) (*StatusData, error) {
	payload, err := json.Marshal(SetFlagPayload{Flag: flag, Enabled: enabled})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal set flag payload: %w", err)
	}
	return c.statusRequest(&Request{Command: CommandSetFlag, Payload: payload})
}

// Center centers the managed window on its monitor.
func (c *Client) Center() (*StatusData, error) {
	return c.statusRequest(&Request{Command: CommandCenter})
}

// Recreate destroys and recreates the managed window, replacing its handle.
func (c *Client) Recreate() (*StatusData, error) {
	return c.statusRequest(&Request{Command: CommandRecreate})
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() (*StatusData, error) {
	return c.statusRequest(&Request{Command: CommandReload})
}

// SaveDefaults stores the current flags as the configured defaults and
// returns the config file path.
func (c *Client) SaveDefaults() (string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandSaveDefaults})
	if err != nil {
		return "", err
	}
	var data SaveDefaultsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse save data: %w", err)
	}
	return data.Path, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
