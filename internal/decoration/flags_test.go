package decoration

import (
	"os"
	"testing"
)

func TestPersistedFlags_PresenceConvention(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersistedFlags(store)

	if got := p.Get("X"); got != OverrideUnset {
		t.Fatalf("Get() = %v, want unset", got)
	}
	if err := p.Apply("X", OverrideForceOff); err != nil {
		t.Fatal(err)
	}
	if got := p.Get("X"); got != OverrideForceOff {
		t.Fatalf("Get() = %v, want force-off", got)
	}
	if err := p.Apply("X", OverrideUnset); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.LookupFlag("X"); ok {
		t.Fatal("unset override must remove the flag")
	}
}

func TestPersistedFlags_EmptyNameIsIgnored(t *testing.T) {
	store := NewMemoryStore()
	p := NewPersistedFlags(store)
	if err := p.Apply("", OverrideForceOff); err != nil {
		t.Fatal(err)
	}
	if len(store.Names()) != 0 {
		t.Fatalf("store = %v, want empty", store.Names())
	}
}

func TestEnvStore(t *testing.T) {
	const name = "CHROMESYNC_TEST_FLAG"
	t.Setenv(name, "")
	os.Unsetenv(name)

	p := NewPersistedFlags(EnvStore{})
	if err := p.Apply(name, OverrideForceOff); err != nil {
		t.Fatal(err)
	}
	if v, ok := os.LookupEnv(name); !ok || v != "1" {
		t.Fatalf("env %s = %q (set=%v), want 1", name, v, ok)
	}
	if err := p.Apply(name, OverrideUnset); err != nil {
		t.Fatal(err)
	}
	if _, ok := os.LookupEnv(name); ok {
		t.Fatalf("env %s should be unset", name)
	}
}

func TestInheritedConfig(t *testing.T) {
	names := DefaultFlagNames()

	store := NewMemoryStore()
	cfg := InheritedConfig(store, names)
	if !cfg.UseNativeTitleBar || !cfg.PreserveFrame {
		t.Fatalf("empty store: %+v, want native title bar and frame on", cfg)
	}

	_ = store.SetFlag(names.NoNativeTitleBar, "1")
	_ = store.SetFlag(names.NoPreserveFrame, "1")
	cfg = InheritedConfig(store, names)
	if cfg.UseNativeTitleBar || cfg.PreserveFrame {
		t.Fatalf("flags present: %+v, want both off", cfg)
	}
	if !cfg.Resizable || cfg.BlurEnabled {
		t.Fatalf("non-persisted flags should keep defaults, got %+v", cfg)
	}
}

func TestInheritedConfig_RoundTripsController(t *testing.T) {
	f := newFixture(0x42, DefaultConfig())
	_ = f.sync.Toggle(FlagNativeTitleBar, true)
	_ = f.sync.Toggle(FlagPreserveFrame, false)

	got := InheritedConfig(f.store, DefaultFlagNames())
	if !got.UseNativeTitleBar || got.PreserveFrame {
		t.Fatalf("inherited %+v does not match controller %+v", got, f.sync.Config())
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want Flag
	}{
		{"native-title-bar", FlagNativeTitleBar},
		{"TitleBar", FlagNativeTitleBar},
		{"preserve_frame", FlagPreserveFrame},
		{"blur", FlagBlur},
		{" resizable ", FlagResizable},
	}
	for _, tt := range tests {
		got, err := ParseFlag(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFlag(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFlag("shadow"); err == nil {
		t.Error("ParseFlag(shadow) should fail")
	}
	for _, f := range Flags() {
		back, err := ParseFlag(f.String())
		if err != nil || back != f {
			t.Errorf("ParseFlag(%q) = %v, %v", f.String(), back, err)
		}
	}
}

func TestIgnoreRegions(t *testing.T) {
	r := NewIgnoreRegions(ControlClose, ControlMinimize, "", ControlClose)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if !r.Contains(ControlClose) || r.Contains(ControlMaximize) {
		t.Errorf("Contains mismatch: %v", r.Controls())
	}
	got := r.Controls()
	if got[0] != ControlClose || got[1] != ControlMinimize {
		t.Errorf("Controls() = %v, want sorted", got)
	}
	got[0] = "mutated"
	if !r.Contains(ControlClose) {
		t.Error("Controls() must return a copy")
	}
}
