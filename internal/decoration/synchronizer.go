package decoration

import (
	"errors"
	"io"
	"log/slog"
)

// Options configures a Synchronizer.
type Options struct {
	Widget        Widget
	Chrome        Chrome
	Bridge        Bridge
	Store         FlagStore // nil means EnvStore
	FlagNames     *FlagNames // nil means DefaultFlagNames; empty names are not persisted
	IgnoreRegions IgnoreRegions
	Palettes      Palettes // zero value means DefaultPalettes
	Config        *Config // nil means DefaultConfig
	Logger        *slog.Logger
}

// Synchronizer wires a Controller, a StateObserver and a HandleManager for
// one widget and exposes the toolkit-facing entry points.
type Synchronizer struct {
	ctrl     *Controller
	observer *StateObserver
	handles  *HandleManager
	logger   *slog.Logger
}

// New builds a Synchronizer and applies opts.Config. Warnings from the
// initial apply are logged, not returned.
func New(opts Options) (*Synchronizer, error) {
	if opts.Widget == nil {
		return nil, errors.New("decoration: widget is required")
	}
	if opts.Chrome == nil {
		return nil, errors.New("decoration: chrome is required")
	}
	if opts.Bridge == nil {
		return nil, errors.New("decoration: bridge is required")
	}
	if opts.Store == nil {
		opts.Store = EnvStore{}
	}
	names := DefaultFlagNames()
	if opts.FlagNames != nil {
		names = *opts.FlagNames
	}
	if opts.Palettes == (Palettes{}) {
		opts.Palettes = DefaultPalettes()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctrl := NewController(ControllerOptions{
		Widget:    opts.Widget,
		Chrome:    opts.Chrome,
		Bridge:    opts.Bridge,
		Store:     opts.Store,
		FlagNames: names,
		Palettes:  opts.Palettes,
		Logger:    logger,
	})
	s := &Synchronizer{
		ctrl:     ctrl,
		observer: NewStateObserver(opts.Chrome, logger),
		handles:  NewHandleManager(opts.Widget, opts.Bridge, opts.IgnoreRegions, ctrl, logger),
		logger:   logger,
	}
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := ctrl.Apply(cfg); err != nil {
		logger.Warn("initial decoration applied with warnings", "error", err)
	}
	return s, nil
}

// Controller returns the decoration controller.
func (s *Synchronizer) Controller() *Controller { return s.ctrl }

// Observer returns the window-state observer.
func (s *Synchronizer) Observer() *StateObserver { return s.observer }

// Config returns the current flags.
func (s *Synchronizer) Config() Config { return s.ctrl.Config() }

// Toggle sets flag f. A non-nil error is always a *WarningError.
func (s *Synchronizer) Toggle(f Flag, enabled bool) error {
	return s.ctrl.Set(f, enabled)
}

// CenterOnDesktop centers the window unless it is maximized or full screen.
func (s *Synchronizer) CenterOnDesktop() error {
	if !s.observer.CenterEnabled() {
		return ErrCenterUnavailable
	}
	return s.ctrl.CenterOnDesktop()
}

// FilterEvent handles one notification and reports whether the toolkit's
// default handling should continue. It only observes, so it always returns
// true.
func (s *Synchronizer) FilterEvent(ev Event) bool {
	switch ev := ev.(type) {
	case StateChanged:
		s.observer.Observe(ev.Snapshot)
	case HandleChanged:
		_ = s.HandleChanged()
	}
	return true
}

// HandleChanged re-registers the widget's current handle and re-applies the
// native side of the Config to it. A non-nil error is always a
// *WarningError.
func (s *Synchronizer) HandleChanged() error {
	err := s.handles.HandleChanged()
	if err != nil {
		s.logger.Warn("re-registration after handle change incomplete", "error", err)
	}
	return err
}
