// Package decoration keeps a window's custom chrome, its persisted decoration
// policy and the native window manager in agreement.
//
// All types in this package are driven from a single UI thread and carry no
// locks. Hosts deliver user toggles through Controller (or Synchronizer.Toggle)
// and OS notifications through Synchronizer.FilterEvent, in delivery order.
package decoration

import (
	"fmt"
	"strings"
)

// Config holds the decoration flags of one window.
type Config struct {
	// UseNativeTitleBar lets the window manager draw the title bar. When false
	// the window draws its own title-bar panel.
	UseNativeTitleBar bool
	// PreserveFrame keeps the native resize border and shadow even without a
	// native title bar.
	PreserveFrame bool
	// BlurEnabled requests compositor backdrop blur behind the window.
	BlurEnabled bool
	// Resizable allows the user to resize the window.
	Resizable bool
}

// DefaultConfig returns the flags a window starts with.
func DefaultConfig() Config {
	return Config{
		UseNativeTitleBar: false,
		PreserveFrame:     true,
		BlurEnabled:       false,
		Resizable:         true,
	}
}

// Flag identifies one toggle-able decoration flag.
type Flag int

const (
	FlagNativeTitleBar Flag = iota
	FlagPreserveFrame
	FlagBlur
	FlagResizable
	flagCount
)

// Flags lists every flag in display order.
func Flags() []Flag {
	out := make([]Flag, 0, flagCount)
	for f := Flag(0); f < flagCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Flag) String() string {
	switch f {
	case FlagNativeTitleBar:
		return "native-title-bar"
	case FlagPreserveFrame:
		return "preserve-frame"
	case FlagBlur:
		return "blur"
	case FlagResizable:
		return "resizable"
	default:
		return "unknown"
	}
}

// Label returns a human readable name for UI controls.
func (f Flag) Label() string {
	switch f {
	case FlagNativeTitleBar:
		return "Native title bar"
	case FlagPreserveFrame:
		return "Preserve native frame"
	case FlagBlur:
		return "Backdrop blur"
	case FlagResizable:
		return "Resizable"
	default:
		return "Unknown"
	}
}

// ParseFlag accepts the String form of a flag plus a few common aliases.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native-title-bar", "native_title_bar", "titlebar", "title-bar":
		return FlagNativeTitleBar, nil
	case "preserve-frame", "preserve_frame", "frame":
		return FlagPreserveFrame, nil
	case "blur", "blur-enabled", "blur_enabled":
		return FlagBlur, nil
	case "resizable", "resize":
		return FlagResizable, nil
	default:
		return 0, fmt.Errorf("unknown decoration flag %q (valid: native-title-bar, preserve-frame, blur, resizable)", s)
	}
}

// Get returns the value of f in c.
func (c Config) Get(f Flag) bool {
	switch f {
	case FlagNativeTitleBar:
		return c.UseNativeTitleBar
	case FlagPreserveFrame:
		return c.PreserveFrame
	case FlagBlur:
		return c.BlurEnabled
	case FlagResizable:
		return c.Resizable
	default:
		return false
	}
}

// With returns a copy of c with f set to enabled.
func (c Config) With(f Flag, enabled bool) Config {
	switch f {
	case FlagNativeTitleBar:
		c.UseNativeTitleBar = enabled
	case FlagPreserveFrame:
		c.PreserveFrame = enabled
	case FlagBlur:
		c.BlurEnabled = enabled
	case FlagResizable:
		c.Resizable = enabled
	}
	return c
}
