package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/ipc"
)

// statusMsg carries the daemon's answer to a command. An empty action is a
// plain status refresh.
type statusMsg struct {
	action string
	status *ipc.StatusData
	err    error
}

// savedMsg carries the result of SAVE_DEFAULTS.
type savedMsg struct {
	path string
	err  error
}

// saveOverlay is the confirmation shown before saving defaults.
type saveOverlay struct {
	form    *huh.Form
	confirm bool
}

// model is the root bubbletea model for the TUI.
type model struct {
	client Client
	keys   keyMap
	flags  []decoration.Flag

	// Daemon state
	connected bool
	status    *ipc.StatusData

	cursor    int
	notice    string
	lastError string
	save      *saveOverlay

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Client) model {
	return model{
		client: client,
		keys:   defaultKeyMap(),
		flags:  decoration.Flags(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.call("", m.client.GetStatus)
}

func (m model) call(action string, fn func() (*ipc.StatusData, error)) tea.Cmd {
	return func() tea.Msg {
		st, err := fn()
		return statusMsg{action: action, status: st, err: err}
	}
}

func (m model) saveDefaults() tea.Msg {
	path, err := m.client.SaveDefaults()
	return savedMsg{path: path, err: err}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active
	if m.save != nil {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			m.width, m.height = ws.Width, ws.Height
		}
		return m.updateSave(msg)
	}

	switch msg := msg.(type) {
	case statusMsg:
		m.applyStatus(msg)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.lastError = "save defaults: " + msg.err.Error()
			m.notice = ""
		} else {
			m.lastError = ""
			m.notice = "defaults saved to " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + len(m.flags)) % len(m.flags)

	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % len(m.flags)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.call("", m.client.GetStatus)

	case key.Matches(msg, m.keys.Toggle):
		if m.status == nil {
			return m, nil
		}
		f := m.flags[m.cursor]
		enabled := !m.status.Config.Decoration().Get(f)
		return m, m.call("set "+f.String(), func() (*ipc.StatusData, error) {
			return m.client.SetFlag(f.String(), enabled)
		})

	case key.Matches(msg, m.keys.Center):
		if m.status != nil && !m.status.Chrome.CenterEnabled {
			m.lastError = decoration.ErrCenterUnavailable.Error()
			return m, nil
		}
		return m, m.call("center", m.client.Center)

	case key.Matches(msg, m.keys.Recreate):
		return m, m.call("recreate", m.client.Recreate)

	case key.Matches(msg, m.keys.Save):
		if !m.connected {
			m.lastError = "daemon not running"
			return m, nil
		}
		m.save = newSaveOverlay(m.status)
		return m, m.save.form.Init()
	}
	return m, nil
}

func newSaveOverlay(st *ipc.StatusData) *saveOverlay {
	s := &saveOverlay{}
	desc := ""
	if st != nil {
		var on []string
		cfg := st.Config.Decoration()
		for _, f := range decoration.Flags() {
			if cfg.Get(f) {
				on = append(on, f.Label())
			}
		}
		if len(on) == 0 {
			on = append(on, "none")
		}
		desc = "Enabled: " + strings.Join(on, ", ")
	}
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("save").
				Title("Save current flags as defaults?").
				Description(desc).
				Affirmative("Save").
				Negative("Cancel").
				Value(&s.confirm),
		),
	).WithShowHelp(true)
	return s
}

func (m model) updateSave(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		m.save = nil
		m.notice = "save cancelled"
		return m, nil
	}

	form, cmd := m.save.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.save.form = f
	}

	switch m.save.form.State {
	case huh.StateCompleted:
		confirmed := m.save.confirm
		m.save = nil
		if !confirmed {
			m.notice = "save cancelled"
			return m, nil
		}
		return m, m.saveDefaults
	case huh.StateAborted:
		m.save = nil
		m.notice = "save cancelled"
		return m, nil
	}
	return m, cmd
}

func (m *model) applyStatus(msg statusMsg) {
	if msg.err != nil {
		if msg.action == "" {
			m.connected = false
			m.status = nil
		}
		m.lastError = msg.err.Error()
		m.notice = ""
		return
	}

	m.connected = true
	m.status = msg.status
	m.lastError = ""
	m.notice = ""
	if msg.action == "" || msg.status == nil {
		return
	}
	if n := len(msg.status.Warnings); n > 0 {
		m.notice = fmt.Sprintf("%s: applied with %d warning(s)", msg.action, n)
	} else {
		m.notice = msg.action + ": ok"
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.status, m.width)
	helpBar := renderHelpBar(m.keys, m.width)

	var content string
	if m.save != nil {
		content = saveBoxStyle.Render(m.save.form.View())
	} else {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			renderFlags(m.flags, m.status, m.cursor),
			"   ",
			renderPreview(m.status, m.width/2),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		"",
		content,
		"",
		renderMessages(m.notice, m.lastError, m.status),
		helpBar,
	)
}
