package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors the YAML file. Nil fields were not set and leave the
// value below them untouched when files are merged.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display  *string `yaml:"display"`
	LogLevel *string `yaml:"log_level"`

	Decoration RawDecoration `yaml:"decoration"`
	Flags      RawFlagNames  `yaml:"flags"`
	Window     RawWindow     `yaml:"window"`
	Appearance RawAppearance `yaml:"appearance"`
	Hotkeys    RawHotkeys    `yaml:"hotkeys"`
}

type RawDecoration struct {
	NativeTitleBar *bool `yaml:"native_title_bar"`
	PreserveFrame  *bool `yaml:"preserve_frame"`
	Blur           *bool `yaml:"blur"`
	Resizable      *bool `yaml:"resizable"`
	InheritFlags   *bool `yaml:"inherit_flags"`
}

type RawFlagNames struct {
	NoNativeTitleBar *string `yaml:"no_native_title_bar"`
	NoPreserveFrame  *string `yaml:"no_preserve_frame"`
}

type RawWindow struct {
	Title          *string   `yaml:"title"`
	Width          *int      `yaml:"width"`
	Height         *int      `yaml:"height"`
	TitleBarHeight *int      `yaml:"title_bar_height"`
	ResizeBorder   *int      `yaml:"resize_border"`
	IgnoreControls *[]string `yaml:"ignore_controls"`
}

type RawAppearance struct {
	Background     *string  `yaml:"background"`
	TitleBar       *string  `yaml:"title_bar"`
	OverlayOpacity *float64 `yaml:"overlay_opacity"`
}

type RawHotkeys struct {
	Center         *string `yaml:"center"`
	Recreate       *string `yaml:"recreate"`
	ToggleTitleBar *string `yaml:"toggle_title_bar"`
	ToggleBlur     *string `yaml:"toggle_blur"`
}

// merge returns c with every field set in overlay replaced.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	out.Display = pick(c.Display, overlay.Display)
	out.LogLevel = pick(c.LogLevel, overlay.LogLevel)

	out.Decoration = RawDecoration{
		NativeTitleBar: pick(c.Decoration.NativeTitleBar, overlay.Decoration.NativeTitleBar),
		PreserveFrame:  pick(c.Decoration.PreserveFrame, overlay.Decoration.PreserveFrame),
		Blur:           pick(c.Decoration.Blur, overlay.Decoration.Blur),
		Resizable:      pick(c.Decoration.Resizable, overlay.Decoration.Resizable),
		InheritFlags:   pick(c.Decoration.InheritFlags, overlay.Decoration.InheritFlags),
	}
	out.Flags = RawFlagNames{
		NoNativeTitleBar: pick(c.Flags.NoNativeTitleBar, overlay.Flags.NoNativeTitleBar),
		NoPreserveFrame:  pick(c.Flags.NoPreserveFrame, overlay.Flags.NoPreserveFrame),
	}
	out.Window = RawWindow{
		Title:          pick(c.Window.Title, overlay.Window.Title),
		Width:          pick(c.Window.Width, overlay.Window.Width),
		Height:         pick(c.Window.Height, overlay.Window.Height),
		TitleBarHeight: pick(c.Window.TitleBarHeight, overlay.Window.TitleBarHeight),
		ResizeBorder:   pick(c.Window.ResizeBorder, overlay.Window.ResizeBorder),
		IgnoreControls: pick(c.Window.IgnoreControls, overlay.Window.IgnoreControls),
	}
	out.Appearance = RawAppearance{
		Background:     pick(c.Appearance.Background, overlay.Appearance.Background),
		TitleBar:       pick(c.Appearance.TitleBar, overlay.Appearance.TitleBar),
		OverlayOpacity: pick(c.Appearance.OverlayOpacity, overlay.Appearance.OverlayOpacity),
	}
	out.Hotkeys = RawHotkeys{
		Center:         pick(c.Hotkeys.Center, overlay.Hotkeys.Center),
		Recreate:       pick(c.Hotkeys.Recreate, overlay.Hotkeys.Recreate),
		ToggleTitleBar: pick(c.Hotkeys.ToggleTitleBar, overlay.Hotkeys.ToggleTitleBar),
		ToggleBlur:     pick(c.Hotkeys.ToggleBlur, overlay.Hotkeys.ToggleBlur),
	}
	return out
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}
