package decoration

import (
	"errors"
	"io"
	"log/slog"
)

// HandleManager re-registers the widget as a frameless window whenever the
// platform replaces its native handle. A registration is keyed by the old
// handle and silently stops working once the handle changes.
type HandleManager struct {
	widget Widget
	bridge Bridge
	ignore IgnoreRegions
	ctrl   *Controller
	logger *slog.Logger
}

// NewHandleManager binds the manager to ctrl, whose Config is re-applied to
// every new handle.
func NewHandleManager(widget Widget, bridge Bridge, ignore IgnoreRegions, ctrl *Controller, logger *slog.Logger) *HandleManager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HandleManager{
		widget: widget,
		bridge: bridge,
		ignore: ignore,
		ctrl:   ctrl,
		logger: logger,
	}
}

// HandleChanged registers the current handle and re-applies the native side
// of the controller's Config to it.
func (m *HandleManager) HandleChanged() error {
	err := m.bridge.RegisterFrameless(m.widget, m.ignore)
	switch {
	case errors.Is(err, ErrNotTopLevel):
		m.logger.Debug("frameless registration deferred", "reason", err)
		return nil
	case err != nil:
		h := m.widget.NativeWindow()
		return &WarningError{
			Op:  "register frameless",
			Err: &NativeCallError{Op: "register frameless", Handle: h, Err: err},
		}
	}

	h, _ := m.bridge.RawHandle(m.widget)
	m.logger.Debug("frameless window registered", "handle", h, "ignore_regions", m.ignore.Controls())

	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Reapply()
}
