package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Geometry returns the window's outer position in root coordinates and its
// size.
func (c *Connection) Geometry(win xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("get geometry of 0x%x: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("translate coordinates of 0x%x: %w", win, err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// MoveWindow moves a window, preferring the EWMH request so the window
// manager accounts for its frame.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, win, x, y); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, win).Move(x, y)
	}
	return nil
}

// Extents are the decoration sizes the window manager draws around a client.
type Extents struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// FrameExtents returns the window decoration sizes. A window the manager has
// not framed yet reports zero extents.
func (c *Connection) FrameExtents(win xproto.Window) (Extents, error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return Extents{}, nil
	}

	return Extents{
		Left:   extents.Left,
		Right:  extents.Right,
		Top:    extents.Top,
		Bottom: extents.Bottom,
	}, nil
}

// ActiveWindow returns the window the window manager reports as focused.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// StartMove hands an interactive move of win to the window manager, as if the
// user had dragged its title bar from the given root position.
func (c *Connection) StartMove(win xproto.Window, rootX, rootY, button int) error {
	return ewmh.WmMoveresizeExtra(c.XUtil, win, ewmh.Move, rootX, rootY, button, 1)
}

// Repaint clears win to its background so the owner redraws the content.
func (c *Connection) Repaint(win xproto.Window) {
	xwindow.New(c.XUtil, win).ClearAll()
}
