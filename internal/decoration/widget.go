package decoration

import (
	"image/color"
	"sort"
)

// Widget is the host toolkit's view of the decorated window.
type Widget interface {
	// IsTopLevel reports whether the widget is currently a top-level window.
	IsTopLevel() bool
	// NativeWindow returns the handle the toolkit reports for the widget,
	// or 0 when it has none.
	NativeWindow() Handle
}

// Glyph is the icon shown on the maximize control.
type Glyph int

const (
	GlyphMaximize Glyph = iota
	GlyphRestore
)

func (g Glyph) String() string {
	switch g {
	case GlyphMaximize:
		return "maximize"
	case GlyphRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// PaletteKind distinguishes the two window backgrounds.
type PaletteKind int

const (
	PaletteOpaque PaletteKind = iota
	PaletteTranslucent
)

func (k PaletteKind) String() string {
	if k == PaletteTranslucent {
		return "translucent"
	}
	return "opaque"
}

// Palette is the background the widget paints behind its content.
type Palette struct {
	Kind  PaletteKind
	Color color.RGBA
}

// Palettes holds the opaque default and the translucent overlay used while
// blur is enabled.
type Palettes struct {
	Opaque  color.RGBA
	Overlay color.RGBA
}

// DefaultPalettes returns a dark opaque background and a 60% overlay of the
// same color.
func DefaultPalettes() Palettes {
	return Palettes{
		Opaque:  color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff},
		Overlay: color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0x99},
	}
}

// For returns the palette matching the blur flag.
func (p Palettes) For(blur bool) Palette {
	if blur {
		return Palette{Kind: PaletteTranslucent, Color: p.Overlay}
	}
	return Palette{Kind: PaletteOpaque, Color: p.Opaque}
}

// Chrome is the visible custom chrome of the widget.
type Chrome interface {
	SetTitleBarVisible(visible bool)
	SetBackground(p Palette)
	SetMaximizeGlyph(g Glyph)
	SetCenterEnabled(enabled bool)
}

// Control identifies a chrome control.
type Control string

const (
	ControlMinimize Control = "minimize"
	ControlMaximize Control = "maximize"
	ControlClose    Control = "close"
	ControlCenter   Control = "center"
)

// IgnoreRegions is the immutable set of controls excluded from native
// caption hit-testing.
type IgnoreRegions struct {
	set map[Control]struct{}
}

// NewIgnoreRegions builds the set once; duplicates and empty ids are dropped.
func NewIgnoreRegions(controls ...Control) IgnoreRegions {
	set := make(map[Control]struct{}, len(controls))
	for _, c := range controls {
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return IgnoreRegions{set: set}
}

// DefaultIgnoreRegions covers the window's own caption buttons.
func DefaultIgnoreRegions() IgnoreRegions {
	return NewIgnoreRegions(ControlMinimize, ControlMaximize, ControlClose)
}

// Contains reports whether c is excluded from hit-testing.
func (r IgnoreRegions) Contains(c Control) bool {
	_, ok := r.set[c]
	return ok
}

// Len returns the number of controls in the set.
func (r IgnoreRegions) Len() int { return len(r.set) }

// Controls returns a sorted copy of the set.
func (r IgnoreRegions) Controls() []Control {
	out := make([]Control, 0, len(r.set))
	for c := range r.set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
