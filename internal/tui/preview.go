package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/ipc"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)

	customBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("#313244")).
			Padding(0, 1)

	nativeBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("250")).
			Padding(0, 1)

	saveBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// glyphs maps the maximize control's glyph name to its symbol.
var glyphs = map[string]string{
	decoration.GlyphMaximize.String(): "□",
	decoration.GlyphRestore.String():  "❐",
}

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(connected bool, st *ipc.StatusData, width int) string {
	var status string
	if connected && st != nil {
		dot := okStyle.Render("●")
		parts := []string{dot + " daemon connected"}
		if st.TopLevel {
			parts = append(parts, fmt.Sprintf("window:0x%x", st.Handle))
		} else {
			parts = append(parts, "window:none")
		}
		parts = append(parts, "state:"+st.Chrome.WindowState)
		status = strings.Join(parts, "  ")
	} else {
		dot := dimStyle.Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderFlags renders the checkbox list.
func renderFlags(flags []decoration.Flag, st *ipc.StatusData, cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Decoration"))
	b.WriteString("\n\n")

	var cfg decoration.Config
	if st != nil {
		cfg = st.Config.Decoration()
	}
	for i, f := range flags {
		pointer := "  "
		if i == cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if st == nil {
			box = dimStyle.Render("[?]")
		} else if cfg.Get(f) {
			box = okStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s%s %s\n", pointer, box, f.Label())
	}
	return b.String()
}

// renderPreview draws the managed window as the daemon reports it: the
// custom title bar with its controls, or the native one, over the current
// background.
func renderPreview(st *ipc.StatusData, width int) string {
	if width < 24 {
		width = 24
	}
	if st == nil {
		return dimStyle.Width(width).Render("no window")
	}

	inner := width - 2
	var bar string
	if st.Chrome.TitleBarVisible {
		center := "◎"
		if !st.Chrome.CenterEnabled {
			center = dimStyle.Render("◎")
		}
		glyph := glyphs[st.Chrome.Glyph]
		if glyph == "" {
			glyph = "□"
		}
		controls := "_ " + glyph + " ×"
		gap := inner - 2 - lipgloss.Width(center) - lipgloss.Width(controls) - len("chromesync") - 2
		if gap < 1 {
			gap = 1
		}
		bar = customBarStyle.Width(inner).Render(center + " chromesync" + strings.Repeat(" ", gap) + controls)
	} else {
		bar = nativeBarStyle.Width(inner).Render("native title bar")
	}

	bg := lipgloss.NewStyle().
		Width(inner).
		Height(4).
		Background(lipgloss.Color(st.Chrome.Background)).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	label := st.Chrome.Background
	if st.Chrome.Translucent {
		label += " (translucent)"
	}
	body := bg.Render(label)

	frame := lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	if !st.Config.PreserveFrame && !st.Config.NativeTitleBar {
		frame = lipgloss.NewStyle().Border(lipgloss.HiddenBorder())
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, bar, body))
}

// renderMessages renders the last notice, error and daemon warnings.
func renderMessages(notice, lastError string, st *ipc.StatusData) string {
	var lines []string
	if lastError != "" {
		lines = append(lines, errStyle.Render("error: "+lastError))
	}
	if notice != "" {
		lines = append(lines, okStyle.Render(notice))
	}
	if st != nil {
		for _, w := range st.Warnings {
			lines = append(lines, warnStyle.Render("warning: "+w))
		}
	}
	return strings.Join(lines, "\n")
}

// renderHelpBar renders the bottom help/keybinding bar.
func renderHelpBar(keys keyMap, width int) string {
	var parts []string
	for _, b := range keys.bindings() {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(strings.Join(parts, "  "))
}
