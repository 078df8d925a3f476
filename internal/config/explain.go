package config

import (
	"fmt"
	"sort"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the keys of ExplainPaths, e.g.
//
//	log_level
//	decoration.native_title_bar
//	flags.no_preserve_frame
//	window.ignore_controls
//	appearance.overlay_opacity
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// ExplainPaths lists every path Explain accepts, sorted.
func ExplainPaths() []string {
	paths := make([]string, 0, len(explainers))
	for p := range explainers {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var explainers = map[string]func(*Config) any{
	"display":                     func(c *Config) any { return c.Display },
	"log_level":                   func(c *Config) any { return c.LogLevel },
	"decoration.native_title_bar": func(c *Config) any { return c.Decoration.NativeTitleBar },
	"decoration.preserve_frame":   func(c *Config) any { return c.Decoration.PreserveFrame },
	"decoration.blur":             func(c *Config) any { return c.Decoration.Blur },
	"decoration.resizable":        func(c *Config) any { return c.Decoration.Resizable },
	"decoration.inherit_flags":    func(c *Config) any { return c.Decoration.InheritFlags },
	"flags.no_native_title_bar":   func(c *Config) any { return c.Flags.NoNativeTitleBar },
	"flags.no_preserve_frame":     func(c *Config) any { return c.Flags.NoPreserveFrame },
	"window.title":                func(c *Config) any { return c.Window.Title },
	"window.width":                func(c *Config) any { return c.Window.Width },
	"window.height":               func(c *Config) any { return c.Window.Height },
	"window.title_bar_height":     func(c *Config) any { return c.Window.TitleBarHeight },
	"window.resize_border":        func(c *Config) any { return c.Window.ResizeBorder },
	"window.ignore_controls":      func(c *Config) any { return c.Window.IgnoreControls },
	"appearance.background":       func(c *Config) any { return c.Appearance.Background },
	"appearance.title_bar":        func(c *Config) any { return c.Appearance.TitleBar },
	"appearance.overlay_opacity":  func(c *Config) any { return c.Appearance.OverlayOpacity },
	"hotkeys.center":              func(c *Config) any { return c.Hotkeys.Center },
	"hotkeys.recreate":            func(c *Config) any { return c.Hotkeys.Recreate },
	"hotkeys.toggle_title_bar":    func(c *Config) any { return c.Hotkeys.ToggleTitleBar },
	"hotkeys.toggle_blur":         func(c *Config) any { return c.Hotkeys.ToggleBlur },
}

func lookupValue(cfg *Config, path string) (any, error) {
	get, ok := explainers[path]
	if !ok {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	return get(cfg), nil
}
