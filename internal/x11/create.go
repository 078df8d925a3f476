package x11

import (
	"fmt"
	"image/color"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// TopLevelEvents are the events a managed top-level window selects.
const TopLevelEvents = xproto.EventMaskPropertyChange |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskExposure

// PanelEvents are the events a child panel selects.
const PanelEvents = xproto.EventMaskButtonPress | xproto.EventMaskExposure

// Pixel converts c to a 24-bit TrueColor pixel value.
func Pixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// CreateTopLevel creates an unmapped top-level window with the given title
// and WM_CLASS.
func (c *Connection) CreateTopLevel(title, class string, width, height int, background color.RGBA) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("generate window id: %w", err)
	}
	if err := win.CreateChecked(c.Root, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		Pixel(background), TopLevelEvents); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	if err := ewmh.WmNameSet(c.XUtil, win.Id, title); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win.Id, title); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set WM_NAME: %w", err)
	}
	if err := icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: class, Class: class}); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("set WM_CLASS: %w", err)
	}
	return win, nil
}

// CreatePanel creates an unmapped child window spanning the parent's width.
func (c *Connection) CreatePanel(parent xproto.Window, width, height int, background color.RGBA) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("generate panel id: %w", err)
	}
	if err := win.CreateChecked(parent, 0, 0, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		Pixel(background), PanelEvents); err != nil {
		return nil, fmt.Errorf("create panel: %w", err)
	}
	return win, nil
}

// SetBackground changes the background pixel of win and repaints it.
func (c *Connection) SetBackground(win xproto.Window, background color.RGBA) {
	w := xwindow.New(c.XUtil, win)
	w.Change(xproto.CwBackPixel, Pixel(background))
	w.ClearAll()
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY. Fully opaque windows drop the
// property.
func (c *Connection) SetOpacity(win xproto.Window, alpha uint8) error {
	if alpha == 0xff {
		return c.deleteProp(win, "_NET_WM_WINDOW_OPACITY")
	}
	if err := ewmh.WmWindowOpacitySet(c.XUtil, win, float64(alpha)/255); err != nil {
		return fmt.Errorf("set opacity on 0x%x: %w", win, err)
	}
	return nil
}

// ToggleMaximized asks the window manager to flip both maximized states.
func (c *Connection) ToggleMaximized(win xproto.Window) error {
	return ewmh.WmStateReqExtra(c.XUtil, win, ewmh.StateToggle,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1)
}

// Iconify asks the window manager to minimize win.
func (c *Connection) Iconify(win xproto.Window) error {
	return ewmh.ClientEvent(c.XUtil, win, "WM_CHANGE_STATE", icccm.StateIconic)
}
