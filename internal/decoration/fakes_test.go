package decoration

import (
	"errors"
	"fmt"
)

type fakeWidget struct {
	topLevel bool
	handle   Handle
}

func (w *fakeWidget) IsTopLevel() bool     { return w.topLevel }
func (w *fakeWidget) NativeWindow() Handle { return w.handle }

type fakeChrome struct {
	titleBarVisible bool
	palette         Palette
	glyphs          []Glyph
	center          []bool
}

func (c *fakeChrome) SetTitleBarVisible(visible bool) { c.titleBarVisible = visible }
func (c *fakeChrome) SetBackground(p Palette)         { c.palette = p }
func (c *fakeChrome) SetMaximizeGlyph(g Glyph)        { c.glyphs = append(c.glyphs, g) }
func (c *fakeChrome) SetCenterEnabled(enabled bool)   { c.center = append(c.center, enabled) }

func (c *fakeChrome) glyph() Glyph {
	if len(c.glyphs) == 0 {
		return GlyphMaximize
	}
	return c.glyphs[len(c.glyphs)-1]
}

func (c *fakeChrome) centerEnabled() bool {
	if len(c.center) == 0 {
		return true
	}
	return c.center[len(c.center)-1]
}

type bridgeCall struct {
	op     string
	handle Handle
	args   string
}

type fakeBridge struct {
	calls      []bridgeCall
	registered map[Handle]*WindowData
	metric     int

	errRefresh  error
	errBlur     error
	errMetric   error
	errRegister error
	errCenter   error
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{registered: make(map[Handle]*WindowData), metric: 28}
}

func (b *fakeBridge) record(op string, h Handle, args string) {
	b.calls = append(b.calls, bridgeCall{op: op, handle: h, args: args})
}

func (b *fakeBridge) RawHandle(w Widget) (Handle, bool) {
	h := w.NativeWindow()
	return h, h != 0
}

func (b *fakeBridge) RegisterFrameless(w Widget, ignore IgnoreRegions) error {
	h := w.NativeWindow()
	if h == 0 {
		return fmt.Errorf("register: %w", ErrNotTopLevel)
	}
	b.record("register", h, fmt.Sprint(ignore.Controls()))
	if b.errRegister != nil {
		return b.errRegister
	}
	if _, ok := b.registered[h]; !ok {
		b.registered[h] = &WindowData{IgnoreRegions: ignore}
	}
	return nil
}

func (b *fakeBridge) Refresh(h Handle, preserveContent, preserveFrame bool) error {
	b.record("refresh", h, fmt.Sprintf("content=%v frame=%v", preserveContent, preserveFrame))
	return b.errRefresh
}

func (b *fakeBridge) SystemMetric(h Handle, kind MetricKind) (int, error) {
	b.record("metric", h, kind.String())
	if b.errMetric != nil {
		return 0, b.errMetric
	}
	return b.metric, nil
}

func (b *fakeBridge) SetBlur(h Handle, enabled bool) error {
	b.record("blur", h, fmt.Sprint(enabled))
	return b.errBlur
}

func (b *fakeBridge) CenterOnDesktop(h Handle) error {
	b.record("center", h, "")
	return b.errCenter
}

func (b *fakeBridge) WindowData(w Widget) (*WindowData, bool) {
	d, ok := b.registered[w.NativeWindow()]
	return d, ok
}

func (b *fakeBridge) last() (bridgeCall, bool) {
	if len(b.calls) == 0 {
		return bridgeCall{}, false
	}
	return b.calls[len(b.calls)-1], true
}

func (b *fakeBridge) callsOf(op string) []bridgeCall {
	var out []bridgeCall
	for _, c := range b.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

var errBoom = errors.New("boom")

type fixture struct {
	widget *fakeWidget
	chrome *fakeChrome
	bridge *fakeBridge
	store  *MemoryStore
	sync   *Synchronizer
}

// newFixture builds a synchronizer for a top-level window with handle h (0
// means not top-level) and registers it when h is set.
func newFixture(h Handle, cfg Config) *fixture {
	f := &fixture{
		widget: &fakeWidget{topLevel: h != 0, handle: h},
		chrome: &fakeChrome{},
		bridge: newFakeBridge(),
		store:  NewMemoryStore(),
	}
	s, err := New(Options{
		Widget:        f.widget,
		Chrome:        f.chrome,
		Bridge:        f.bridge,
		Store:         f.store,
		IgnoreRegions: DefaultIgnoreRegions(),
		Config:        &cfg,
	})
	if err != nil {
		panic(err)
	}
	f.sync = s
	if h != 0 {
		s.FilterEvent(HandleChanged{})
	}
	f.bridge.calls = nil
	return f
}

func (f *fixture) flagSet(name string) bool {
	_, ok := f.store.LookupFlag(name)
	return ok
}
