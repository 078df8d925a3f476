package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies a merged raw file on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	set(&cfg.Display, raw.Display)
	set(&cfg.LogLevel, raw.LogLevel)

	set(&cfg.Decoration.NativeTitleBar, raw.Decoration.NativeTitleBar)
	set(&cfg.Decoration.PreserveFrame, raw.Decoration.PreserveFrame)
	set(&cfg.Decoration.Blur, raw.Decoration.Blur)
	set(&cfg.Decoration.Resizable, raw.Decoration.Resizable)
	set(&cfg.Decoration.InheritFlags, raw.Decoration.InheritFlags)

	set(&cfg.Flags.NoNativeTitleBar, raw.Flags.NoNativeTitleBar)
	set(&cfg.Flags.NoPreserveFrame, raw.Flags.NoPreserveFrame)

	set(&cfg.Window.Title, raw.Window.Title)
	set(&cfg.Window.Width, raw.Window.Width)
	set(&cfg.Window.Height, raw.Window.Height)
	set(&cfg.Window.TitleBarHeight, raw.Window.TitleBarHeight)
	set(&cfg.Window.ResizeBorder, raw.Window.ResizeBorder)
	if raw.Window.IgnoreControls != nil {
		cfg.Window.IgnoreControls = append([]string{}, (*raw.Window.IgnoreControls)...)
	}

	set(&cfg.Appearance.Background, raw.Appearance.Background)
	set(&cfg.Appearance.TitleBar, raw.Appearance.TitleBar)
	set(&cfg.Appearance.OverlayOpacity, raw.Appearance.OverlayOpacity)

	set(&cfg.Hotkeys.Center, raw.Hotkeys.Center)
	set(&cfg.Hotkeys.Recreate, raw.Hotkeys.Recreate)
	set(&cfg.Hotkeys.ToggleTitleBar, raw.Hotkeys.ToggleTitleBar)
	set(&cfg.Hotkeys.ToggleBlur, raw.Hotkeys.ToggleBlur)

	if cfg.LogLevel == "warn" {
		cfg.LogLevel = "warning"
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
