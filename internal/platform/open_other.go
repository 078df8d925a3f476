//go:build !linux

package platform

import "github.com/1broseidon/chromesync/internal/x11"

// Open is unavailable outside linux.
func Open(display string) (*x11.Connection, error) {
	return nil, ErrUnsupported
}
