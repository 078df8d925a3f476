//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/chromesync/internal/x11"
)

// Open connects to display, or to $DISPLAY when display is empty.
func Open(display string) (*x11.Connection, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return conn, nil
}
