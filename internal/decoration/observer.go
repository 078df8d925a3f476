package decoration

import (
	"io"
	"log/slog"
)

// WindowState is the presentation state reported by the window manager.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMaximized
	StateFullScreen
	StateMinimized
)

func (s WindowState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMaximized:
		return "maximized"
	case StateFullScreen:
		return "fullscreen"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// Snapshot is the window state carried by one notification. Window managers
// may report several bits at once, e.g. maximized and full screen.
type Snapshot struct {
	Maximized  bool
	FullScreen bool
	Minimized  bool
}

// SnapshotOf returns the snapshot that reports exactly s.
func SnapshotOf(s WindowState) Snapshot {
	switch s {
	case StateMaximized:
		return Snapshot{Maximized: true}
	case StateFullScreen:
		return Snapshot{FullScreen: true}
	case StateMinimized:
		return Snapshot{Minimized: true}
	default:
		return Snapshot{}
	}
}

// State collapses the snapshot: minimized wins over full screen, which wins
// over maximized.
func (s Snapshot) State() WindowState {
	switch {
	case s.Minimized:
		return StateMinimized
	case s.FullScreen:
		return StateFullScreen
	case s.Maximized:
		return StateMaximized
	default:
		return StateNormal
	}
}

// StateObserver keeps the maximize glyph and the center control in line with
// window-state notifications. It never touches Config.
type StateObserver struct {
	chrome        Chrome
	state         WindowState
	glyph         Glyph
	centerEnabled bool
	logger        *slog.Logger
}

// NewStateObserver starts in the normal state and pushes the matching
// affordances to chrome.
func NewStateObserver(chrome Chrome, logger *slog.Logger) *StateObserver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o := &StateObserver{
		chrome:        chrome,
		state:         StateNormal,
		glyph:         GlyphMaximize,
		centerEnabled: true,
		logger:        logger,
	}
	chrome.SetMaximizeGlyph(o.glyph)
	chrome.SetCenterEnabled(o.centerEnabled)
	return o
}

// Observe applies one notification.
//
// Only maximizing and returning to normal change the glyph. While minimized
// or full screen it keeps showing what the window returns to.
func (o *StateObserver) Observe(s Snapshot) {
	prev := o.state
	o.state = s.State()

	if !s.Minimized && (s.Maximized || !s.FullScreen) {
		glyph := GlyphMaximize
		if s.Maximized {
			glyph = GlyphRestore
		}
		if glyph != o.glyph {
			o.glyph = glyph
			o.chrome.SetMaximizeGlyph(glyph)
		}
	}

	center := o.state != StateMaximized && o.state != StateFullScreen
	if center != o.centerEnabled {
		o.centerEnabled = center
		o.chrome.SetCenterEnabled(center)
	}

	if prev != o.state {
		o.logger.Debug("window state changed", "from", prev, "to", o.state, "glyph", o.glyph, "center_enabled", o.centerEnabled)
	}
}

// State returns the last observed state.
func (o *StateObserver) State() WindowState { return o.state }

// Glyph returns the glyph currently shown on the maximize control.
func (o *StateObserver) Glyph() Glyph { return o.glyph }

// CenterEnabled reports whether the center control is enabled.
func (o *StateObserver) CenterEnabled() bool { return o.centerEnabled }
