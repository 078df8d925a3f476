package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/chromesync/internal/decoration"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandSetFlag      CommandType = "SET_FLAG"
	CommandCenter       CommandType = "CENTER"
	CommandRecreate     CommandType = "RECREATE"
	CommandSaveDefaults CommandType = "SAVE_DEFAULTS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ConfigData is the decoration flags of the managed window.
type ConfigData struct {
	NativeTitleBar bool `json:"native_title_bar"`
	PreserveFrame  bool `json:"preserve_frame"`
	Blur           bool `json:"blur"`
	Resizable      bool `json:"resizable"`
}

// NewConfigData converts decoration flags for the wire.
func NewConfigData(c decoration.Config) ConfigData {
	return ConfigData{
		NativeTitleBar: c.UseNativeTitleBar,
		PreserveFrame:  c.PreserveFrame,
		Blur:           c.BlurEnabled,
		Resizable:      c.Resizable,
	}
}

// Decoration converts the wire flags back.
func (c ConfigData) Decoration() decoration.Config {
	return decoration.Config{
		UseNativeTitleBar: c.NativeTitleBar,
		PreserveFrame:     c.PreserveFrame,
		BlurEnabled:       c.Blur,
		Resizable:         c.Resizable,
	}
}

// ChromeData is what the custom chrome currently shows.
type ChromeData struct {
	TitleBarVisible bool   `json:"title_bar_visible"`
	Background      string `json:"background"`
	Translucent     bool   `json:"translucent"`
	Glyph           string `json:"glyph"`
	CenterEnabled   bool   `json:"center_enabled"`
	WindowState     string `json:"window_state"`
}

// StatusData represents the data returned by GET_STATUS and by every command
// that changes the window.
type StatusData struct {
	Config         ConfigData      `json:"config"`
	Chrome         ChromeData      `json:"chrome"`
	Handle         uint32          `json:"handle"`
	TopLevel       bool            `json:"top_level"`
	PersistedFlags map[string]bool `json:"persisted_flags,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	DaemonRunning  bool            `json:"daemon_running"`
}

// SetFlagPayload represents the payload for SET_FLAG
type SetFlagPayload struct {
	Flag    string `json:"flag"`
	Enabled bool   `json:"enabled"`
}

// SaveDefaultsData is returned by SAVE_DEFAULTS.
type SaveDefaultsData struct {
	Path string `json:"path"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
