package decoration

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New() with no widget should fail")
	}
	if _, err := New(Options{Widget: &fakeWidget{}}); err == nil {
		t.Fatal("New() with no chrome should fail")
	}
	if _, err := New(Options{Widget: &fakeWidget{}, Chrome: &fakeChrome{}}); err == nil {
		t.Fatal("New() with no bridge should fail")
	}
}

func TestNew_LogsInitialApplyWarnings(t *testing.T) {
	var buf bytes.Buffer
	bridge := newFakeBridge()
	bridge.errRefresh = errBoom

	_, err := New(Options{
		Widget: &fakeWidget{topLevel: true, handle: 0x42},
		Chrome: &fakeChrome{},
		Bridge: bridge,
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v, want warnings logged only", err)
	}
	if len(bridge.callsOf("refresh")) == 0 {
		t.Fatal("initial apply should refresh the frame")
	}
	out := buf.String()
	if !strings.Contains(out, "initial decoration applied with warnings") {
		t.Errorf("log = %q, want initial apply warning", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("log = %q, want underlying error", out)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	chrome := &fakeChrome{}
	store := NewMemoryStore()
	s, err := New(Options{
		Widget: &fakeWidget{},
		Chrome: chrome,
		Bridge: newFakeBridge(),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", s.Config())
	}
	if !chrome.titleBarVisible {
		t.Error("custom title bar should be visible by default")
	}
	if chrome.palette != DefaultPalettes().For(false) {
		t.Errorf("palette = %+v, want opaque default", chrome.palette)
	}
	if _, ok := store.LookupFlag(DefaultFlagNames().NoNativeTitleBar); !ok {
		t.Error("default config should persist the no-native-title-bar flag")
	}
}

func TestFilterEvent_AlwaysContinues(t *testing.T) {
	f := newFixture(0x42, DefaultConfig())
	f.bridge.errRegister = errBoom

	events := []Event{
		StateChangedTo(StateMaximized),
		HandleChanged{},
		StateChangedTo(StateMinimized),
	}
	for _, ev := range events {
		if !f.sync.FilterEvent(ev) {
			t.Errorf("FilterEvent(%T) = false, want true", ev)
		}
	}
}

func TestHandleChanged_ReregistersNewHandle(t *testing.T) {
	f := newFixture(0x10, DefaultConfig())

	f.widget.handle = 0x20
	f.sync.FilterEvent(HandleChanged{})
	if _, ok := f.bridge.registered[0x20]; !ok {
		t.Fatal("new handle was not registered")
	}

	f.bridge.calls = nil
	if err := f.sync.Toggle(FlagBlur, true); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if len(f.bridge.calls) == 0 {
		t.Fatal("expected native calls after toggle")
	}
	for _, c := range f.bridge.calls {
		if c.handle != 0x20 {
			t.Errorf("call %+v used stale handle", c)
		}
	}
}

func TestHandleChanged_ReappliesNativeState(t *testing.T) {
	cfg := Config{UseNativeTitleBar: false, PreserveFrame: false, BlurEnabled: true, Resizable: false}
	f := newFixture(0x10, cfg)

	f.widget.handle = 0x20
	f.sync.FilterEvent(HandleChanged{})

	data := f.bridge.registered[0x20]
	if data == nil || !data.FixedSize {
		t.Fatalf("window data for new handle = %+v, want fixed size", data)
	}
	if !data.IgnoreRegions.Contains(ControlClose) {
		t.Error("ignore regions not passed to registration")
	}
	blur := f.bridge.callsOf("blur")
	if len(blur) != 1 || blur[0].handle != 0x20 || blur[0].args != "true" {
		t.Errorf("blur calls = %+v, want one on 0x20", blur)
	}
	refresh := f.bridge.callsOf("refresh")
	if len(refresh) != 1 || refresh[0].args != "content=true frame=false" {
		t.Errorf("refresh calls = %+v", refresh)
	}
}

func TestHandleChanged_Idempotent(t *testing.T) {
	f := newFixture(0x10, DefaultConfig())
	data := f.bridge.registered[0x10]

	for i := 0; i < 3; i++ {
		f.sync.FilterEvent(HandleChanged{})
	}
	if f.bridge.registered[0x10] != data {
		t.Error("re-registering the same handle must keep its window data")
	}
	if n := len(f.bridge.callsOf("register")); n != 3 {
		t.Errorf("register calls = %d, want 3", n)
	}
}

func TestHandleChanged_NotTopLevel(t *testing.T) {
	f := newFixture(0, DefaultConfig())
	m := NewHandleManager(f.widget, f.bridge, DefaultIgnoreRegions(), f.sync.Controller(), nil)

	if err := m.HandleChanged(); err != nil {
		t.Fatalf("HandleChanged() error = %v, want nil", err)
	}
	if len(f.bridge.calls) != 0 {
		t.Errorf("calls = %+v, want none", f.bridge.calls)
	}
}

func TestHandleChanged_RegisterFailure(t *testing.T) {
	f := newFixture(0x10, DefaultConfig())
	f.bridge.errRegister = errBoom
	m := NewHandleManager(f.widget, f.bridge, DefaultIgnoreRegions(), f.sync.Controller(), nil)

	err := m.HandleChanged()
	if !IsWarning(err) || !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want warning wrapping boom", err)
	}
}

func TestSynchronizer_CenterOnDesktop(t *testing.T) {
	f := newFixture(0x42, DefaultConfig())

	if err := f.sync.CenterOnDesktop(); err != nil {
		t.Fatalf("CenterOnDesktop() error = %v", err)
	}
	if n := len(f.bridge.callsOf("center")); n != 1 {
		t.Fatalf("center calls = %d, want 1", n)
	}

	f.sync.FilterEvent(StateChangedTo(StateMaximized))
	if err := f.sync.CenterOnDesktop(); !errors.Is(err, ErrCenterUnavailable) {
		t.Fatalf("err = %v, want ErrCenterUnavailable", err)
	}
	if n := len(f.bridge.callsOf("center")); n != 1 {
		t.Errorf("center must not be called while maximized")
	}
}
