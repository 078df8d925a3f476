package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
)

// CurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// WorkArea returns the _NET_WORKAREA rectangle of the current desktop, i.e.
// the root area minus panels and docks.
func (c *Connection) WorkArea() (Rect, error) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return Rect{}, fmt.Errorf("failed to get work area: %w", err)
	}
	if len(areas) == 0 {
		return Rect{}, fmt.Errorf("window manager reports no work area")
	}

	index := 0
	if current, err := c.CurrentDesktop(); err == nil && current >= 0 && current < len(areas) {
		index = current
	}

	wa := areas[index]
	return Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}, nil
}
