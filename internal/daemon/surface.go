package daemon

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/x11"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// SurfaceOptions describes the managed window and its custom chrome.
type SurfaceOptions struct {
	Title          string
	Class          string
	Width          int
	Height         int
	TitleBarHeight int
	TitleBarColor  color.RGBA
	Ignore         decoration.IgnoreRegions
	// OnControl is called on the UI thread when an ignored control is
	// clicked.
	OnControl func(decoration.Control)
	Logger    *slog.Logger
}

// ChromeState is what the custom chrome currently shows.
type ChromeState struct {
	TitleBarVisible bool
	Background      decoration.Palette
	Glyph           decoration.Glyph
	CenterEnabled   bool
}

// Surface is the managed top-level window. It implements decoration.Widget
// and decoration.Chrome. All methods must run on the UI thread.
type Surface struct {
	conn   *x11.Connection
	opts   SurfaceOptions
	win    *xwindow.Window
	panel  *xwindow.Window
	chrome ChromeState
	logger *slog.Logger
}

var (
	_ decoration.Widget = (*Surface)(nil)
	_ decoration.Chrome = (*Surface)(nil)
)

// NewSurface prepares a surface. No window exists until Realize.
func NewSurface(conn *x11.Connection, opts SurfaceOptions) *Surface {
	return &Surface{
		conn: conn,
		opts: opts,
		chrome: ChromeState{
			TitleBarVisible: true,
			Background:      decoration.DefaultPalettes().For(false),
			CenterEnabled:   true,
		},
		logger: opts.Logger,
	}
}

// IsTopLevel reports whether the window exists.
func (s *Surface) IsTopLevel() bool { return s.win != nil }

// NativeWindow returns the current X window, or 0 before Realize.
func (s *Surface) NativeWindow() decoration.Handle {
	if s.win == nil {
		return 0
	}
	return decoration.Handle(s.win.Id)
}

// Chrome returns the chrome state.
func (s *Surface) Chrome() ChromeState { return s.chrome }

// Realize creates and maps the window and its title-bar panel, then paints
// the recorded chrome state onto them.
func (s *Surface) Realize() error {
	if s.win != nil {
		return errors.New("surface already realized")
	}

	win, err := s.conn.CreateTopLevel(s.opts.Title, s.opts.Class, s.opts.Width, s.opts.Height, s.chrome.Background.Color)
	if err != nil {
		return err
	}
	panel, err := s.conn.CreatePanel(win.Id, s.opts.Width, s.opts.TitleBarHeight, s.opts.TitleBarColor)
	if err != nil {
		win.Destroy()
		return err
	}
	s.win, s.panel = win, panel

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if s.panel != nil && s.panel.Id == panel.Id {
			s.panel.Resize(int(ev.Width), s.opts.TitleBarHeight)
		}
	}).Connect(s.conn.XUtil, win.Id)
	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		s.pressed(int(ev.EventX), int(ev.RootX), int(ev.RootY), int(ev.Detail))
	}).Connect(s.conn.XUtil, panel.Id)

	win.Map()
	s.SetTitleBarVisible(s.chrome.TitleBarVisible)
	s.SetBackground(s.chrome.Background)

	s.logger.Info("surface realized", "window", fmt.Sprintf("0x%x", uint32(win.Id)))
	return nil
}

// Recreate destroys the window and creates a new one. The handle changes.
func (s *Surface) Recreate() error {
	s.Close()
	return s.Realize()
}

// Close destroys the window. Its callbacks are detached.
func (s *Surface) Close() {
	if s.win == nil {
		return
	}
	s.logger.Info("surface destroyed", "window", fmt.Sprintf("0x%x", uint32(s.win.Id)))
	s.panel.Destroy()
	s.win.Destroy()
	s.win, s.panel = nil, nil
}

// Forget drops a window that was destroyed behind our back.
func (s *Surface) Forget() {
	if s.win != nil {
		xevent.Detach(s.conn.XUtil, s.win.Id)
		xevent.Detach(s.conn.XUtil, s.panel.Id)
	}
	s.win, s.panel = nil, nil
}

// SetTitleBarVisible maps or unmaps the custom title-bar panel.
func (s *Surface) SetTitleBarVisible(visible bool) {
	s.chrome.TitleBarVisible = visible
	if s.panel == nil {
		return
	}
	if visible {
		s.panel.Map()
	} else {
		s.panel.Unmap()
	}
}

// SetBackground repaints the window background and sets its opacity from
// the palette alpha.
func (s *Surface) SetBackground(p decoration.Palette) {
	s.chrome.Background = p
	if s.win == nil {
		return
	}
	s.conn.SetBackground(s.win.Id, p.Color)
	if err := s.conn.SetOpacity(s.win.Id, p.Color.A); err != nil {
		s.logger.Warn("failed to set window opacity", "error", err)
	}
}

// SetMaximizeGlyph records the glyph and redraws the title bar.
func (s *Surface) SetMaximizeGlyph(g decoration.Glyph) {
	s.chrome.Glyph = g
	if s.panel != nil {
		s.panel.ClearAll()
	}
}

// SetCenterEnabled enables or disables the center control.
func (s *Surface) SetCenterEnabled(enabled bool) {
	s.chrome.CenterEnabled = enabled
}

// pressed dispatches a button press on the title-bar panel. Controls in the
// ignore set act as buttons; everything else drags the window.
func (s *Surface) pressed(x, rootX, rootY, button int) {
	if s.win == nil {
		return
	}
	width := s.opts.Width
	if geom, err := s.conn.Geometry(s.win.Id); err == nil {
		width = geom.Width
	}

	if c, ok := controlAt(x, width, s.opts.TitleBarHeight); ok && s.opts.Ignore.Contains(c) {
		if c == decoration.ControlCenter && !s.chrome.CenterEnabled {
			return
		}
		if s.opts.OnControl != nil {
			s.opts.OnControl(c)
		}
		return
	}

	if err := s.conn.StartMove(s.win.Id, rootX, rootY, button); err != nil {
		s.logger.Warn("failed to start window move", "error", err)
	}
}

// controlAt maps an x offset in a title bar of the given width to a control.
// Controls are square buttons of the bar's height: center on the left edge,
// then close, maximize and minimize from the right edge inwards.
func controlAt(x, width, size int) (decoration.Control, bool) {
	if size <= 0 || x < 0 || x >= width {
		return "", false
	}
	if x < size {
		return decoration.ControlCenter, true
	}
	switch (width - 1 - x) / size {
	case 0:
		return decoration.ControlClose, true
	case 1:
		return decoration.ControlMaximize, true
	case 2:
		return decoration.ControlMinimize, true
	}
	return "", false
}
