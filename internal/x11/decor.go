package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
)

// FrameMode selects which native decorations the window manager draws.
type FrameMode int

const (
	// FrameNative keeps the full native frame including the title bar.
	FrameNative FrameMode = iota
	// FrameBorder keeps the resize border and shadow but no title bar.
	FrameBorder
	// FrameNone removes every native decoration.
	FrameNone
)

func (m FrameMode) String() string {
	switch m {
	case FrameNative:
		return "native"
	case FrameBorder:
		return "border"
	case FrameNone:
		return "none"
	default:
		return "unknown"
	}
}

// MotifHints returns the _MOTIF_WM_HINTS value for mode. All window
// functions stay available in every mode.
func MotifHints(mode FrameMode) *motif.Hints {
	hints := &motif.Hints{
		Flags:    motif.HintFunctions | motif.HintDecorations,
		Function: motif.FunctionAll,
	}
	switch mode {
	case FrameNative:
		hints.Decoration = motif.DecorationAll
	case FrameBorder:
		hints.Decoration = motif.DecorationBorder | motif.DecorationResizeH
	default:
		hints.Decoration = motif.DecorationNone
	}
	return hints
}

// SetFrame writes the motif hints for mode. Window managers re-read the
// property and redecorate the window.
func (c *Connection) SetFrame(win xproto.Window, mode FrameMode) error {
	if err := motif.WmHintsSet(c.XUtil, win, MotifHints(mode)); err != nil {
		return fmt.Errorf("set motif hints on 0x%x: %w", win, err)
	}
	return nil
}

// SetFixedSize pins the window to width×height through WM_NORMAL_HINTS, or
// clears the constraint when fixed is false.
func (c *Connection) SetFixedSize(win xproto.Window, fixed bool, width, height int) error {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil || hints == nil {
		hints = &icccm.NormalHints{}
	}

	hints.Flags &^= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
	hints.MinWidth, hints.MinHeight = 0, 0
	hints.MaxWidth, hints.MaxHeight = 0, 0
	if fixed && width > 0 && height > 0 {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(width), uint(width)
		hints.MinHeight, hints.MaxHeight = uint(height), uint(height)
	}

	if err := icccm.WmNormalHintsSet(c.XUtil, win, hints); err != nil {
		return fmt.Errorf("set normal hints on 0x%x: %w", win, err)
	}
	return nil
}

// BlurBehindAtom is the property KWin and compatible compositors read to blur
// the area behind a window.
const BlurBehindAtom = "_KDE_NET_WM_BLUR_BEHIND_REGION"

// SetBlurBehind requests or cancels compositor blur behind the whole window.
// An empty region means the entire window.
func (c *Connection) SetBlurBehind(win xproto.Window, enabled bool) error {
	if enabled {
		if err := xprop.ChangeProp32(c.XUtil, win, BlurBehindAtom, "CARDINAL"); err != nil {
			return fmt.Errorf("set %s on 0x%x: %w", BlurBehindAtom, win, err)
		}
		return nil
	}

	return c.deleteProp(win, BlurBehindAtom)
}

func (c *Connection) deleteProp(win xproto.Window, name string) error {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return fmt.Errorf("intern %s: %w", name, err)
	}
	if err := xproto.DeletePropertyChecked(c.XUtil.Conn(), win, atom).Check(); err != nil {
		return fmt.Errorf("delete %s on 0x%x: %w", name, win, err)
	}
	return nil
}

// States is the decoded _NET_WM_STATE of a window.
type States struct {
	Maximized  bool
	FullScreen bool
	Minimized  bool
}

// ParseStates decodes _NET_WM_STATE atom names. A window counts as maximized
// only when both axes are maximized.
func ParseStates(names []string) States {
	var s States
	var horz, vert bool
	for _, name := range names {
		switch name {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		case "_NET_WM_STATE_FULLSCREEN":
			s.FullScreen = true
		case "_NET_WM_STATE_HIDDEN":
			s.Minimized = true
		}
	}
	s.Maximized = horz && vert
	return s
}

// WindowStates reads and decodes _NET_WM_STATE. A window without the property
// is in the normal state; failing requests, such as on a destroyed window,
// return an error.
func (c *Connection) WindowStates(win xproto.Window) (States, error) {
	atom, err := xprop.Atm(c.XUtil, "_NET_WM_STATE")
	if err != nil {
		return States{}, err
	}
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return States{}, fmt.Errorf("read _NET_WM_STATE of 0x%x: %w", uint32(win), err)
	}
	return statesFromProperty(reply, func(r *xproto.GetPropertyReply) ([]string, error) {
		return xprop.PropValAtoms(c.XUtil, r, nil)
	})
}

// statesFromProperty decodes a _NET_WM_STATE reply. Format 0 means the
// property is not set.
func statesFromProperty(reply *xproto.GetPropertyReply, atomNames func(*xproto.GetPropertyReply) ([]string, error)) (States, error) {
	if reply == nil || reply.Format == 0 {
		return States{}, nil
	}
	names, err := atomNames(reply)
	if err != nil {
		return States{}, err
	}
	return ParseStates(names), nil
}

// CenterWindow moves win, frame included, to the middle of the usable area
// of its monitor.
func (c *Connection) CenterWindow(win xproto.Window) error {
	area, err := c.UsableArea(win)
	if err != nil {
		return err
	}

	geom, err := c.Geometry(win)
	if err != nil {
		return err
	}
	ext, _ := c.FrameExtents(win)

	outerW := geom.Width + ext.Left + ext.Right
	outerH := geom.Height + ext.Top + ext.Bottom
	x, y := area.CenterIn(outerW, outerH)

	return c.MoveWindow(win, x, y)
}
