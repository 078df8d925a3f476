// Package platform implements the native side of window decoration on top of
// an X11 connection.
package platform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrUnsupported is returned on platforms without an X11 backend.
var ErrUnsupported = errors.New("platform: native window decoration is only supported on linux/X11")

// WindowSystem is the part of the X11 connection the bridge drives.
type WindowSystem interface {
	Exists(win xproto.Window) bool
	Geometry(win xproto.Window) (x11.Rect, error)
	FrameExtents(win xproto.Window) (x11.Extents, error)
	SetFrame(win xproto.Window, mode x11.FrameMode) error
	SetFixedSize(win xproto.Window, fixed bool, width, height int) error
	SetBlurBehind(win xproto.Window, enabled bool) error
	CenterWindow(win xproto.Window) error
	Repaint(win xproto.Window)
}

var _ WindowSystem = (*x11.Connection)(nil)

// BridgeOptions configures an X11Bridge.
type BridgeOptions struct {
	// TitleBarHeight and ResizeBorder are reported when the window manager
	// has not published frame extents yet.
	TitleBarHeight int
	ResizeBorder   int
	Logger         *slog.Logger
}

// X11Bridge implements decoration.Bridge with motif hints, normal hints and
// compositor properties.
type X11Bridge struct {
	ws      WindowSystem
	opts    BridgeOptions
	windows map[decoration.Handle]*decoration.WindowData
	logger  *slog.Logger

	// Decoration of the last refresh, applied to newly registered windows
	// until their first refresh.
	nativeTitleBar bool
	preserveFrame  bool
}

var _ decoration.Bridge = (*X11Bridge)(nil)

// NewBridge builds a bridge over ws.
func NewBridge(ws WindowSystem, opts BridgeOptions) *X11Bridge {
	if opts.TitleBarHeight <= 0 {
		opts.TitleBarHeight = 28
	}
	if opts.ResizeBorder <= 0 {
		opts.ResizeBorder = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := decoration.DefaultConfig()
	return &X11Bridge{
		ws:             ws,
		opts:           opts,
		windows:        make(map[decoration.Handle]*decoration.WindowData),
		logger:         logger,
		nativeTitleBar: d.UseNativeTitleBar,
		preserveFrame:  d.PreserveFrame,
	}
}

// RawHandle returns the widget's window if it is top-level and still alive.
func (b *X11Bridge) RawHandle(w decoration.Widget) (decoration.Handle, bool) {
	if !w.IsTopLevel() {
		return 0, false
	}
	h := w.NativeWindow()
	if !b.ws.Exists(xproto.Window(h)) {
		return 0, false
	}
	return h, true
}

// RegisterFrameless removes the native caption from the widget's current
// window and records its window data. Registrations of destroyed windows are
// dropped.
func (b *X11Bridge) RegisterFrameless(w decoration.Widget, ignore decoration.IgnoreRegions) error {
	h, ok := b.RawHandle(w)
	if !ok {
		return fmt.Errorf("register window 0x%x: %w", w.NativeWindow(), decoration.ErrNotTopLevel)
	}
	b.prune()

	data, ok := b.windows[h]
	if !ok {
		data = &decoration.WindowData{NativeTitleBar: b.nativeTitleBar}
		b.windows[h] = data
	}
	data.IgnoreRegions = ignore

	mode := frameMode(data.NativeTitleBar, b.preserveFrame)
	b.logger.Debug("registering frameless window", "handle", fmt.Sprintf("0x%x", uint32(h)), "frame", mode)
	return b.ws.SetFrame(xproto.Window(h), mode)
}

// Refresh re-applies frame hints and size constraints to a registered
// window. preserveContent=false also repaints it.
func (b *X11Bridge) Refresh(h decoration.Handle, preserveContent, preserveFrame bool) error {
	win := xproto.Window(h)
	data, ok := b.windows[h]
	if !ok {
		return fmt.Errorf("window 0x%x is not registered", uint32(h))
	}

	b.nativeTitleBar, b.preserveFrame = data.NativeTitleBar, preserveFrame

	var errs []error
	if err := b.ws.SetFrame(win, frameMode(data.NativeTitleBar, preserveFrame)); err != nil {
		errs = append(errs, err)
	}

	width, height := 0, 0
	if data.FixedSize {
		geom, err := b.ws.Geometry(win)
		if err != nil {
			errs = append(errs, err)
		} else {
			width, height = geom.Width, geom.Height
		}
	}
	if err := b.ws.SetFixedSize(win, data.FixedSize, width, height); err != nil {
		errs = append(errs, err)
	}

	if !preserveContent {
		b.ws.Repaint(win)
	}
	return errors.Join(errs...)
}

// SystemMetric reads a frame metric from _NET_FRAME_EXTENTS, falling back to
// the configured size when the window manager has not framed the window.
func (b *X11Bridge) SystemMetric(h decoration.Handle, kind decoration.MetricKind) (int, error) {
	ext, err := b.ws.FrameExtents(xproto.Window(h))
	if err != nil {
		return 0, err
	}
	return metricFromExtents(ext, kind, b.opts.TitleBarHeight, b.opts.ResizeBorder)
}

// SetBlur requests or cancels compositor blur behind the window.
func (b *X11Bridge) SetBlur(h decoration.Handle, enabled bool) error {
	return b.ws.SetBlurBehind(xproto.Window(h), enabled)
}

// CenterOnDesktop centers the window on the usable area of its monitor.
func (b *X11Bridge) CenterOnDesktop(h decoration.Handle) error {
	return b.ws.CenterWindow(xproto.Window(h))
}

// WindowData returns the registration of the widget's current window. Data
// of a destroyed window is never returned.
func (b *X11Bridge) WindowData(w decoration.Widget) (*decoration.WindowData, bool) {
	h := w.NativeWindow()
	data, ok := b.windows[h]
	if !ok {
		return nil, false
	}
	if !b.ws.Exists(xproto.Window(h)) {
		delete(b.windows, h)
		return nil, false
	}
	return data, true
}

// registered lists the handles with live registrations.
func (b *X11Bridge) registered() []decoration.Handle {
	out := make([]decoration.Handle, 0, len(b.windows))
	for h := range b.windows {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *X11Bridge) prune() {
	for h := range b.windows {
		if !b.ws.Exists(xproto.Window(h)) {
			delete(b.windows, h)
		}
	}
}

// frameMode maps the title-bar choice and the preserve-frame flag to the
// decorations the window manager should draw.
func frameMode(nativeTitleBar, preserveFrame bool) x11.FrameMode {
	if nativeTitleBar {
		return x11.FrameNative
	}
	if preserveFrame {
		return x11.FrameBorder
	}
	return x11.FrameNone
}

func metricFromExtents(ext x11.Extents, kind decoration.MetricKind, titleBar, border int) (int, error) {
	switch kind {
	case decoration.MetricTitleBarHeight:
		// A framed window has a top extent larger than its bottom border.
		if ext.Top > ext.Bottom {
			return ext.Top, nil
		}
		return titleBar, nil
	case decoration.MetricResizeBorder:
		if ext.Left > 0 {
			return ext.Left, nil
		}
		return border, nil
	default:
		return 0, fmt.Errorf("unknown metric %v", kind)
	}
}

// SnapshotFromStates converts decoded _NET_WM_STATE bits.
func SnapshotFromStates(s x11.States) decoration.Snapshot {
	return decoration.Snapshot{
		Maximized:  s.Maximized,
		FullScreen: s.FullScreen,
		Minimized:  s.Minimized,
	}
}
