package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowTitle    = "chromesync"
	DefaultWindowWidth    = 960
	DefaultWindowHeight   = 600
	DefaultTitleBarHeight = 28
	DefaultResizeBorder   = 4
	DefaultBackground     = "#1e1e2e"
	DefaultTitleBar       = "#313244"
	DefaultOverlayOpacity = 0.6
	DefaultCenterHotkey   = "Mod4-Mod1-c"
)

// Config is the effective chromesync configuration.
type Config struct {
	// Display overrides $DISPLAY for the daemon.
	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`

	Decoration Decoration `yaml:"decoration"`
	Flags      FlagNames  `yaml:"flags"`
	Window     Window     `yaml:"window"`
	Appearance Appearance `yaml:"appearance"`
	Hotkeys    Hotkeys    `yaml:"hotkeys"`
}

// Decoration holds the flags the managed window starts with.
type Decoration struct {
	NativeTitleBar bool `yaml:"native_title_bar"`
	PreserveFrame  bool `yaml:"preserve_frame"`
	Blur           bool `yaml:"blur"`
	Resizable      bool `yaml:"resizable"`
	// InheritFlags starts native_title_bar and preserve_frame from the
	// environment flags left by a parent process instead of the values above.
	InheritFlags bool `yaml:"inherit_flags"`
}

// FlagNames are the environment variables the persisted flags are written
// to. An empty name disables persistence of that flag.
type FlagNames struct {
	NoNativeTitleBar string `yaml:"no_native_title_bar"`
	NoPreserveFrame  string `yaml:"no_preserve_frame"`
}

// Window describes the managed window.
type Window struct {
	Title          string   `yaml:"title"`
	Width          int      `yaml:"width"`
	Height         int      `yaml:"height"`
	TitleBarHeight int      `yaml:"title_bar_height"`
	ResizeBorder   int      `yaml:"resize_border"`
	IgnoreControls []string `yaml:"ignore_controls"`
}

// Appearance holds the chrome colors as hex strings.
type Appearance struct {
	Background     string  `yaml:"background"`
	TitleBar       string  `yaml:"title_bar"`
	OverlayOpacity float64 `yaml:"overlay_opacity"`
}

// Hotkeys are global key sequences in xgbutil keybind syntax, such as
// "Mod4-Shift-t". An empty sequence is not grabbed.
type Hotkeys struct {
	Center         string `yaml:"center"`
	Recreate       string `yaml:"recreate"`
	ToggleTitleBar string `yaml:"toggle_title_bar"`
	ToggleBlur     string `yaml:"toggle_blur"`
}

// Bindings returns the non-empty sequences keyed by action name.
func (h Hotkeys) Bindings() map[string]string {
	out := make(map[string]string)
	for action, seq := range map[string]string{
		HotkeyCenter:         h.Center,
		HotkeyRecreate:       h.Recreate,
		HotkeyToggleTitleBar: h.ToggleTitleBar,
		HotkeyToggleBlur:     h.ToggleBlur,
	} {
		if seq = strings.TrimSpace(seq); seq != "" {
			out[action] = seq
		}
	}
	return out
}

// Hotkey action names.
const (
	HotkeyCenter         = "center"
	HotkeyRecreate       = "recreate"
	HotkeyToggleTitleBar = "toggle_title_bar"
	HotkeyToggleBlur     = "toggle_blur"
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	d := decoration.DefaultConfig()
	names := decoration.DefaultFlagNames()
	return &Config{
		LogLevel: "info",
		Decoration: Decoration{
			NativeTitleBar: d.UseNativeTitleBar,
			PreserveFrame:  d.PreserveFrame,
			Blur:           d.BlurEnabled,
			Resizable:      d.Resizable,
		},
		Flags: FlagNames{
			NoNativeTitleBar: names.NoNativeTitleBar,
			NoPreserveFrame:  names.NoPreserveFrame,
		},
		Window: Window{
			Title:          DefaultWindowTitle,
			Width:          DefaultWindowWidth,
			Height:         DefaultWindowHeight,
			TitleBarHeight: DefaultTitleBarHeight,
			ResizeBorder:   DefaultResizeBorder,
			IgnoreControls: []string{
				string(decoration.ControlMinimize),
				string(decoration.ControlMaximize),
				string(decoration.ControlClose),
			},
		},
		Appearance: Appearance{
			Background:     DefaultBackground,
			TitleBar:       DefaultTitleBar,
			OverlayOpacity: DefaultOverlayOpacity,
		},
		Hotkeys: Hotkeys{
			Center: DefaultCenterHotkey,
		},
	}
}

// DefaultConfigPath returns ~/.config/chromesync/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "chromesync", "config.yaml"), nil
}

// DecorationConfig returns the starting decoration flags. With inherit_flags
// the two persisted flags are read from store.
func (c *Config) DecorationConfig(store decoration.FlagStore) decoration.Config {
	cfg := decoration.Config{
		UseNativeTitleBar: c.Decoration.NativeTitleBar,
		PreserveFrame:     c.Decoration.PreserveFrame,
		BlurEnabled:       c.Decoration.Blur,
		Resizable:         c.Decoration.Resizable,
	}
	if c.Decoration.InheritFlags && store != nil {
		inherited := decoration.InheritedConfig(store, c.DecorationFlagNames())
		cfg.UseNativeTitleBar = inherited.UseNativeTitleBar
		cfg.PreserveFrame = inherited.PreserveFrame
	}
	return cfg
}

// SetDecoration stores cfg as the new starting flags.
func (c *Config) SetDecoration(cfg decoration.Config) {
	c.Decoration.NativeTitleBar = cfg.UseNativeTitleBar
	c.Decoration.PreserveFrame = cfg.PreserveFrame
	c.Decoration.Blur = cfg.BlurEnabled
	c.Decoration.Resizable = cfg.Resizable
}

// DecorationFlagNames returns the configured environment flag names.
func (c *Config) DecorationFlagNames() decoration.FlagNames {
	return decoration.FlagNames{
		NoNativeTitleBar: c.Flags.NoNativeTitleBar,
		NoPreserveFrame:  c.Flags.NoPreserveFrame,
	}
}

// IgnoreRegions returns the controls excluded from caption hit-testing.
func (c *Config) IgnoreRegions() decoration.IgnoreRegions {
	controls := make([]decoration.Control, 0, len(c.Window.IgnoreControls))
	for _, name := range c.Window.IgnoreControls {
		controls = append(controls, decoration.Control(strings.TrimSpace(name)))
	}
	return decoration.NewIgnoreRegions(controls...)
}

// Palettes returns the opaque background and the blur overlay, which is the
// same color at overlay_opacity.
func (c *Config) Palettes() (decoration.Palettes, error) {
	bg, err := parseColor(c.Appearance.Background)
	if err != nil {
		return decoration.Palettes{}, &ValidationError{Path: "appearance.background", Err: err}
	}
	overlay := bg
	overlay.A = uint8(c.Appearance.OverlayOpacity*255 + 0.5)
	return decoration.Palettes{Opaque: bg, Overlay: overlay}, nil
}

// TitleBarColor returns the custom title-bar color.
func (c *Config) TitleBarColor() (color.RGBA, error) {
	col, err := parseColor(c.Appearance.TitleBar)
	if err != nil {
		return color.RGBA{}, &ValidationError{Path: "appearance.title_bar", Err: err}
	}
	return col, nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseColor(s string) (color.RGBA, error) {
	col, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if err := validateFlagName(c.Flags.NoNativeTitleBar); err != nil {
		return &ValidationError{Path: "flags.no_native_title_bar", Err: err}
	}
	if err := validateFlagName(c.Flags.NoPreserveFrame); err != nil {
		return &ValidationError{Path: "flags.no_preserve_frame", Err: err}
	}
	if c.Flags.NoNativeTitleBar != "" && c.Flags.NoNativeTitleBar == c.Flags.NoPreserveFrame {
		return &ValidationError{Path: "flags", Err: fmt.Errorf("no_native_title_bar and no_preserve_frame must differ")}
	}

	if strings.TrimSpace(c.Window.Title) == "" {
		return &ValidationError{Path: "window.title", Err: fmt.Errorf("title is required")}
	}
	if c.Window.Width < 100 || c.Window.Height < 100 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("width and height must be >= 100")}
	}
	if c.Window.TitleBarHeight < 8 || c.Window.TitleBarHeight > c.Window.Height/2 {
		return &ValidationError{Path: "window.title_bar_height", Err: fmt.Errorf("title_bar_height must be between 8 and half the window height")}
	}
	if c.Window.ResizeBorder < 0 {
		return &ValidationError{Path: "window.resize_border", Err: fmt.Errorf("resize_border must be >= 0")}
	}
	for _, name := range c.Window.IgnoreControls {
		switch decoration.Control(strings.TrimSpace(name)) {
		case decoration.ControlMinimize, decoration.ControlMaximize, decoration.ControlClose, decoration.ControlCenter:
		default:
			return &ValidationError{Path: "window.ignore_controls", Err: fmt.Errorf("unknown control %q (valid: minimize, maximize, close, center)", name)}
		}
	}

	if _, err := c.Palettes(); err != nil {
		return err
	}
	if _, err := c.TitleBarColor(); err != nil {
		return err
	}
	if c.Appearance.OverlayOpacity < 0 || c.Appearance.OverlayOpacity > 1 {
		return &ValidationError{Path: "appearance.overlay_opacity", Err: fmt.Errorf("overlay_opacity must be between 0 and 1")}
	}

	seen := make(map[string]string)
	for action, seq := range c.Hotkeys.Bindings() {
		if strings.ContainsAny(seq, " \t") {
			return &ValidationError{Path: "hotkeys." + action, Err: fmt.Errorf("key sequence %q must not contain whitespace", seq)}
		}
		if other, ok := seen[seq]; ok {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("%s and %s share key sequence %q", other, action, seq)}
		}
		seen[seq] = action
	}

	return nil
}

func validateFlagName(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, "= \t\n") {
		return fmt.Errorf("flag name %q must not contain '=' or whitespace", name)
	}
	return nil
}
