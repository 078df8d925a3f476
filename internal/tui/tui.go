// Package tui is the interactive terminal front end for the chromesync
// daemon.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/chromesync/internal/ipc"
)

// Client is the part of the IPC client the TUI uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	SetFlag(flag string, enabled bool) (*ipc.StatusData, error)
	Center() (*ipc.StatusData, error)
	Recreate() (*ipc.StatusData, error)
	SaveDefaults() (string, error)
}

var _ Client = (*ipc.Client)(nil)

// Run starts the TUI against client and blocks until the user quits.
func Run(client Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
