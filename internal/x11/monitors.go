package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Rect is a rectangle in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlap of r and o and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// Center returns the point at the middle of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// CenterIn returns the top-left position that centers a w×h box inside r.
// A box larger than r is pinned to r's top-left corner so the title bar
// stays reachable.
func (r Rect) CenterIn(w, h int) (int, int) {
	x := r.X + (r.Width-w)/2
	y := r.Y + (r.Height-h)/2
	if x < r.X {
		x = r.X
	}
	if y < r.Y {
		y = r.Y
	}
	return x, y
}

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds Rect
}

// Monitors retrieves all active monitors using XRandR
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return monitors, nil
}

// UsableArea returns the part of win's monitor that is free of panels and
// docks. The monitor is the one containing the window's center, falling back
// to the one under the pointer and then the first monitor. Without RandR the
// desktop work area is used as is.
func (c *Connection) UsableArea(win xproto.Window) (Rect, error) {
	workArea, waErr := c.WorkArea()

	monitors, err := c.Monitors()
	if err != nil || len(monitors) == 0 {
		if waErr != nil {
			return Rect{}, fmt.Errorf("no monitors and no work area: %w", waErr)
		}
		return workArea, nil
	}

	geom, err := c.Geometry(win)
	mon := chooseMonitor(monitors, geom, err == nil, func() (Monitor, bool) {
		return c.monitorUnderPointer(monitors)
	})

	return usableArea(mon, workArea, waErr == nil), nil
}

// chooseMonitor returns the bounds of the monitor containing the center of
// geom, then the one reported by underPointer, then the first monitor.
// monitors must not be empty.
func chooseMonitor(monitors []Monitor, geom Rect, haveGeom bool, underPointer func() (Monitor, bool)) Rect {
	if !haveGeom {
		return monitors[0].Bounds
	}
	cx, cy := geom.Center()
	if m, ok := monitorAt(monitors, cx, cy); ok {
		return m.Bounds
	}
	if m, ok := underPointer(); ok {
		return m.Bounds
	}
	return monitors[0].Bounds
}

// usableArea clips the monitor bounds to the desktop work area when the two
// overlap.
func usableArea(mon, workArea Rect, haveWorkArea bool) Rect {
	if !haveWorkArea {
		return mon
	}
	if r, ok := mon.Intersect(workArea); ok {
		return r
	}
	return mon
}

func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		if m.Bounds.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}

func (c *Connection) monitorUnderPointer(monitors []Monitor) (Monitor, bool) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return Monitor{}, false
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}
