package platform

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// StateWatcher turns _NET_WM_STATE property changes of one window into
// decoration.StateChanged events. The window must select
// PropertyChangeMask.
type StateWatcher struct {
	win     xproto.Window
	read    func() (x11.States, error)
	deliver func(decoration.Event)
	logger  *slog.Logger
	stopped bool
}

// WatchState starts delivering state changes of win to deliver. Callbacks run
// on the X event loop.
func WatchState(conn *x11.Connection, win xproto.Window, deliver func(decoration.Event), logger *slog.Logger) (*StateWatcher, error) {
	atom, err := xprop.Atm(conn.XUtil, "_NET_WM_STATE")
	if err != nil {
		return nil, fmt.Errorf("intern _NET_WM_STATE: %w", err)
	}

	w := newStateWatcher(win, func() (x11.States, error) {
		return conn.WindowStates(win)
	}, deliver, logger)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if w.stopped || ev.Atom != atom {
			return
		}
		if err := w.Poll(); err != nil {
			w.logger.Warn("window state not updated", "window", fmt.Sprintf("0x%x", uint32(w.win)), "error", err)
		}
	}).Connect(conn.XUtil, win)
	return w, nil
}

func newStateWatcher(win xproto.Window, read func() (x11.States, error), deliver func(decoration.Event), logger *slog.Logger) *StateWatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StateWatcher{win: win, read: read, deliver: deliver, logger: logger}
}

// Poll reads the current state and delivers it. Nothing is delivered when
// the state cannot be read.
func (w *StateWatcher) Poll() error {
	if w.stopped {
		return nil
	}
	states, err := w.read()
	if err != nil {
		return err
	}
	w.deliver(decoration.StateChanged{Snapshot: SnapshotFromStates(states)})
	return nil
}

// Stop ends delivery. The window's other callbacks stay connected.
func (w *StateWatcher) Stop() {
	w.stopped = true
}
