package mcp

// GetDecorationInput is the input for the get_decoration tool.
type GetDecorationInput struct{}

// SetDecorationInput is the input for the set_decoration tool.
type SetDecorationInput struct {
	Flag    string `json:"flag" jsonschema:"required,Decoration flag: native-title-bar, preserve-frame, blur or resizable"`
	Enabled bool   `json:"enabled" jsonschema:"required,New value of the flag"`
}

// CenterWindowInput is the input for the center_window tool.
type CenterWindowInput struct{}

// RecreateWindowInput is the input for the recreate_window tool.
type RecreateWindowInput struct{}

// DecorationOutput is returned by every tool. It mirrors the daemon status.
type DecorationOutput struct {
	NativeTitleBar  bool     `json:"native_title_bar"`
	PreserveFrame   bool     `json:"preserve_frame"`
	Blur            bool     `json:"blur"`
	Resizable       bool     `json:"resizable"`
	TitleBarVisible bool     `json:"title_bar_visible"`
	Background      string   `json:"background"`
	Translucent     bool     `json:"translucent"`
	MaximizeGlyph   string   `json:"maximize_glyph"`
	CenterEnabled   bool     `json:"center_enabled"`
	WindowState     string   `json:"window_state"`
	Handle          string   `json:"handle"`
	TopLevel        bool     `json:"top_level"`
	Warnings        []string `json:"warnings,omitempty"`
}
