package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

type fakeWindowSystem struct {
	alive    map[xproto.Window]x11.Rect
	extents  x11.Extents
	frames   map[xproto.Window]x11.FrameMode
	fixed    map[xproto.Window][2]int
	blur     map[xproto.Window]bool
	centered []xproto.Window
	repaints int
	errFrame error
}

func newFakeWindowSystem(wins ...xproto.Window) *fakeWindowSystem {
	ws := &fakeWindowSystem{
		alive:  make(map[xproto.Window]x11.Rect),
		frames: make(map[xproto.Window]x11.FrameMode),
		fixed:  make(map[xproto.Window][2]int),
		blur:   make(map[xproto.Window]bool),
	}
	for _, w := range wins {
		ws.alive[w] = x11.Rect{Width: 640, Height: 480}
	}
	return ws
}

func (f *fakeWindowSystem) Exists(win xproto.Window) bool {
	_, ok := f.alive[win]
	return ok
}

func (f *fakeWindowSystem) Geometry(win xproto.Window) (x11.Rect, error) {
	r, ok := f.alive[win]
	if !ok {
		return x11.Rect{}, errors.New("bad window")
	}
	return r, nil
}

func (f *fakeWindowSystem) FrameExtents(xproto.Window) (x11.Extents, error) {
	return f.extents, nil
}

func (f *fakeWindowSystem) SetFrame(win xproto.Window, mode x11.FrameMode) error {
	if f.errFrame != nil {
		return f.errFrame
	}
	f.frames[win] = mode
	return nil
}

func (f *fakeWindowSystem) SetFixedSize(win xproto.Window, fixed bool, width, height int) error {
	if fixed {
		f.fixed[win] = [2]int{width, height}
	} else {
		delete(f.fixed, win)
	}
	return nil
}

func (f *fakeWindowSystem) SetBlurBehind(win xproto.Window, enabled bool) error {
	f.blur[win] = enabled
	return nil
}

func (f *fakeWindowSystem) CenterWindow(win xproto.Window) error {
	f.centered = append(f.centered, win)
	return nil
}

func (f *fakeWindowSystem) Repaint(xproto.Window) { f.repaints++ }

type widget struct {
	topLevel bool
	handle   decoration.Handle
}

func (w *widget) IsTopLevel() bool                { return w.topLevel }
func (w *widget) NativeWindow() decoration.Handle { return w.handle }

func newTestBridge(ws *fakeWindowSystem) *X11Bridge {
	return NewBridge(ws, BridgeOptions{})
}

func TestBridge_RawHandle(t *testing.T) {
	ws := newFakeWindowSystem(0x10)
	b := newTestBridge(ws)

	tests := []struct {
		name string
		w    *widget
		ok   bool
	}{
		{"top level", &widget{topLevel: true, handle: 0x10}, true},
		{"child widget", &widget{topLevel: false, handle: 0x10}, false},
		{"destroyed window", &widget{topLevel: true, handle: 0x20}, false},
		{"no window", &widget{topLevel: true}, false},
	}
	for _, tt := range tests {
		if _, ok := b.RawHandle(tt.w); ok != tt.ok {
			t.Errorf("%s: RawHandle ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}

func TestBridge_RegisterNotTopLevel(t *testing.T) {
	b := newTestBridge(newFakeWindowSystem())
	err := b.RegisterFrameless(&widget{topLevel: true, handle: 0x30}, decoration.DefaultIgnoreRegions())
	if !errors.Is(err, decoration.ErrNotTopLevel) {
		t.Fatalf("err = %v, want ErrNotTopLevel", err)
	}
}

func TestBridge_FrameModeFollowsWindowData(t *testing.T) {
	tests := []struct {
		name          string
		native        bool
		preserveFrame bool
		want          x11.FrameMode
	}{
		{"native title bar", true, true, x11.FrameNative},
		{"native title bar ignores frame flag", true, false, x11.FrameNative},
		{"custom title bar with frame", false, true, x11.FrameBorder},
		{"custom title bar frameless", false, false, x11.FrameNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newFakeWindowSystem(0x10)
			b := newTestBridge(ws)
			w := &widget{topLevel: true, handle: 0x10}
			if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
				t.Fatal(err)
			}
			data, _ := b.WindowData(w)
			data.NativeTitleBar = tt.native
			if err := b.Refresh(0x10, true, tt.preserveFrame); err != nil {
				t.Fatal(err)
			}
			if got := ws.frames[0x10]; got != tt.want {
				t.Errorf("frame = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBridge_RefreshAppliesFixedSize(t *testing.T) {
	ws := newFakeWindowSystem(0x10)
	b := newTestBridge(ws)
	w := &widget{topLevel: true, handle: 0x10}
	if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
		t.Fatal(err)
	}

	data, ok := b.WindowData(w)
	if !ok {
		t.Fatal("window data missing after registration")
	}
	data.FixedSize = true
	if err := b.Refresh(0x10, false, true); err != nil {
		t.Fatal(err)
	}
	if got := ws.fixed[0x10]; got != [2]int{640, 480} {
		t.Errorf("fixed size = %v, want 640x480", got)
	}
	if ws.repaints != 1 {
		t.Errorf("repaints = %d, want 1", ws.repaints)
	}

	data.FixedSize = false
	if err := b.Refresh(0x10, true, true); err != nil {
		t.Fatal(err)
	}
	if _, ok := ws.fixed[0x10]; ok {
		t.Error("fixed size should be cleared")
	}
}

func TestBridge_RefreshUnregistered(t *testing.T) {
	b := newTestBridge(newFakeWindowSystem(0x10))
	if err := b.Refresh(0x10, true, true); err == nil {
		t.Fatal("Refresh of an unregistered window should fail")
	}
}

func TestBridge_StaleWindowData(t *testing.T) {
	ws := newFakeWindowSystem(0x10)
	b := newTestBridge(ws)
	w := &widget{topLevel: true, handle: 0x10}
	if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
		t.Fatal(err)
	}

	delete(ws.alive, 0x10)
	if _, ok := b.WindowData(w); ok {
		t.Fatal("data of a destroyed window must not be returned")
	}
	if len(b.registered()) != 0 {
		t.Errorf("registered() = %v, want none", b.registered())
	}
}

func TestBridge_RegisterPrunesDeadWindows(t *testing.T) {
	ws := newFakeWindowSystem(0x10, 0x20)
	b := newTestBridge(ws)
	w := &widget{topLevel: true, handle: 0x10}
	_ = b.RegisterFrameless(w, decoration.DefaultIgnoreRegions())

	delete(ws.alive, 0x10)
	w.handle = 0x20
	if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
		t.Fatal(err)
	}
	got := b.registered()
	if len(got) != 1 || got[0] != 0x20 {
		t.Errorf("registered() = %v, want [0x20]", got)
	}
}

func TestMetricFromExtents(t *testing.T) {
	tests := []struct {
		name string
		ext  x11.Extents
		kind decoration.MetricKind
		want int
	}{
		{"framed title bar", x11.Extents{Left: 2, Right: 2, Top: 30, Bottom: 2}, decoration.MetricTitleBarHeight, 30},
		{"unframed", x11.Extents{}, decoration.MetricTitleBarHeight, 28},
		{"border only", x11.Extents{Left: 3, Right: 3, Top: 3, Bottom: 3}, decoration.MetricTitleBarHeight, 28},
		{"resize border", x11.Extents{Left: 3}, decoration.MetricResizeBorder, 3},
		{"resize border fallback", x11.Extents{}, decoration.MetricResizeBorder, 4},
	}
	for _, tt := range tests {
		got, err := metricFromExtents(tt.ext, tt.kind, 28, 4)
		if err != nil || got != tt.want {
			t.Errorf("%s: got %d, %v; want %d", tt.name, got, err, tt.want)
		}
	}
}

// The bridge drives the full synchronizer: toggles land on the native window.
func TestBridge_WithSynchronizer(t *testing.T) {
	ws := newFakeWindowSystem(0x10)
	store := decoration.NewMemoryStore()
	b := newTestBridge(ws)
	w := &widget{topLevel: true, handle: 0x10}

	s, err := decoration.New(decoration.Options{
		Widget:        w,
		Chrome:        nopChrome{},
		Bridge:        b,
		Store:         store,
		IgnoreRegions: decoration.DefaultIgnoreRegions(),
	})
	if err != nil {
		t.Fatal(err)
	}
	s.FilterEvent(decoration.HandleChanged{})

	if got := ws.frames[0x10]; got != x11.FrameBorder {
		t.Fatalf("default frame = %v, want border", got)
	}
	if err := s.Toggle(decoration.FlagNativeTitleBar, true); err != nil {
		t.Fatal(err)
	}
	if got := ws.frames[0x10]; got != x11.FrameNative {
		t.Errorf("frame after enabling native title bar = %v", got)
	}
	if err := s.Toggle(decoration.FlagBlur, true); err != nil {
		t.Fatal(err)
	}
	if !ws.blur[0x10] {
		t.Error("blur not requested")
	}
	if err := s.Toggle(decoration.FlagResizable, false); err != nil {
		t.Fatal(err)
	}
	if _, ok := ws.fixed[0x10]; !ok {
		t.Error("window should be fixed size")
	}
	if err := s.CenterOnDesktop(); err != nil {
		t.Fatal(err)
	}
	if len(ws.centered) != 1 {
		t.Errorf("centered = %v", ws.centered)
	}
}

// Frame hints follow the flags even when they are not persisted anywhere.
func TestBridge_UnpersistedFlagsStillReachWindow(t *testing.T) {
	tests := []struct {
		name  string
		names decoration.FlagNames
	}{
		{"no title bar flag", decoration.FlagNames{NoPreserveFrame: "CHROMESYNC_NO_PRESERVE_FRAME"}},
		{"no flags at all", decoration.FlagNames{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newFakeWindowSystem(0x10)
			store := decoration.NewMemoryStore()
			b := newTestBridge(ws)
			w := &widget{topLevel: true, handle: 0x10}
			names := tt.names

			s, err := decoration.New(decoration.Options{
				Widget:        w,
				Chrome:        nopChrome{},
				Bridge:        b,
				Store:         store,
				FlagNames:     &names,
				IgnoreRegions: decoration.DefaultIgnoreRegions(),
			})
			if err != nil {
				t.Fatal(err)
			}
			if err := s.HandleChanged(); err != nil {
				t.Fatal(err)
			}

			steps := []struct {
				flag    decoration.Flag
				enabled bool
				want    x11.FrameMode
			}{
				{decoration.FlagNativeTitleBar, true, x11.FrameNative},
				{decoration.FlagNativeTitleBar, false, x11.FrameBorder},
				{decoration.FlagPreserveFrame, false, x11.FrameNone},
				{decoration.FlagPreserveFrame, true, x11.FrameBorder},
			}
			for _, step := range steps {
				if err := s.Toggle(step.flag, step.enabled); err != nil {
					t.Fatal(err)
				}
				if got := ws.frames[0x10]; got != step.want {
					t.Errorf("%v=%v: frame = %v, want %v", step.flag, step.enabled, got, step.want)
				}
			}
			if _, ok := store.LookupFlag(decoration.DefaultFlagNames().NoNativeTitleBar); ok {
				t.Error("title bar flag persisted under the default name")
			}
		})
	}
}

// A window registered after a handle change starts with the decoration of
// the previous window until it is refreshed.
func TestBridge_NewHandleInheritsLastFrame(t *testing.T) {
	ws := newFakeWindowSystem(0x10, 0x20)
	b := newTestBridge(ws)
	w := &widget{topLevel: true, handle: 0x10}
	if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
		t.Fatal(err)
	}
	data, _ := b.WindowData(w)
	data.NativeTitleBar = true
	if err := b.Refresh(0x10, true, false); err != nil {
		t.Fatal(err)
	}

	w.handle = 0x20
	if err := b.RegisterFrameless(w, decoration.DefaultIgnoreRegions()); err != nil {
		t.Fatal(err)
	}
	if got := ws.frames[0x20]; got != x11.FrameNative {
		t.Errorf("new handle frame = %v, want native", got)
	}
}

type nopChrome struct{}

func (nopChrome) SetTitleBarVisible(bool)           {}
func (nopChrome) SetBackground(decoration.Palette)  {}
func (nopChrome) SetMaximizeGlyph(decoration.Glyph) {}
func (nopChrome) SetCenterEnabled(bool)             {}

func TestSnapshotFromStates(t *testing.T) {
	got := SnapshotFromStates(x11.ParseStates([]string{
		"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT",
	}))
	if got.State() != decoration.StateMaximized {
		t.Errorf("State() = %v, want maximized", got.State())
	}
}
