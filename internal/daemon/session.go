package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/chromesync/internal/config"
	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/ipc"
	"github.com/1broseidon/chromesync/internal/platform"
	"github.com/1broseidon/chromesync/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// windowClass is the WM_CLASS of the managed window.
const windowClass = "chromesync"

// commandTimeout bounds how long an IPC command waits for the UI thread.
const commandTimeout = 5 * time.Second

// SessionOptions configures a Session.
type SessionOptions struct {
	Conn   *x11.Connection
	Loop   *Loop
	Config *config.Config
	// ConfigPath is read by Reload and written by SaveDefaults. Empty means
	// the default location.
	ConfigPath string
	Store      decoration.FlagStore
	Logger     *slog.Logger
	// Quit is called when the close control is clicked.
	Quit func()
}

// Session owns the managed window and keeps its decoration in sync. It
// implements ipc.Handler.
type Session struct {
	conn    *x11.Connection
	loop    *Loop
	cfg     *config.Config
	path    string
	store   decoration.FlagStore
	quit    func()
	logger  *slog.Logger
	started time.Time

	surface *Surface
	bridge  *platform.X11Bridge
	sync    *decoration.Synchronizer
	watcher *platform.StateWatcher
}

var _ ipc.Handler = (*Session)(nil)

// NewSession builds the surface, bridge and synchronizer and applies the
// configured decoration flags. The window is created by Start.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Conn == nil || opts.Loop == nil || opts.Config == nil {
		return nil, errors.New("daemon: connection, loop and config are required")
	}
	if opts.Store == nil {
		opts.Store = decoration.EnvStore{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	quit := opts.Quit
	if quit == nil {
		quit = func() {}
	}

	s := &Session{
		conn:    opts.Conn,
		loop:    opts.Loop,
		cfg:     opts.Config,
		path:    path,
		store:   opts.Store,
		quit:    quit,
		logger:  logger,
		started: time.Now(),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) build() error {
	cfg := s.cfg
	palettes, err := cfg.Palettes()
	if err != nil {
		return err
	}
	titleBar, err := cfg.TitleBarColor()
	if err != nil {
		return err
	}
	names := cfg.DecorationFlagNames()
	ignore := cfg.IgnoreRegions()

	s.surface = NewSurface(s.conn, SurfaceOptions{
		Title:          cfg.Window.Title,
		Class:          windowClass,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		TitleBarHeight: cfg.Window.TitleBarHeight,
		TitleBarColor:  titleBar,
		Ignore:         ignore,
		OnControl:      s.control,
		Logger:         s.logger,
	})
	s.bridge = platform.NewBridge(s.conn, platform.BridgeOptions{
		TitleBarHeight: cfg.Window.TitleBarHeight,
		ResizeBorder:   cfg.Window.ResizeBorder,
		Logger:         s.logger,
	})

	start := cfg.DecorationConfig(s.store)
	s.sync, err = decoration.New(decoration.Options{
		Widget:        s.surface,
		Chrome:        s.surface,
		Bridge:        s.bridge,
		Store:         s.store,
		FlagNames:     &names,
		IgnoreRegions: ignore,
		Palettes:      palettes,
		Config:        &start,
		Logger:        s.logger,
	})
	return err
}

// Start creates the window. It must run before the UI loop starts or on it.
func (s *Session) Start() error {
	_, err := s.realize(s.surface.Realize)
	return err
}

// Close stops watching and destroys the window.
func (s *Session) Close() {
	s.stopWatcher()
	s.surface.Close()
}

// realize runs fn, which (re)creates the window, then re-registers the new
// handle and watches its state. The returned warning is non-fatal.
func (s *Session) realize(fn func() error) (warning, err error) {
	s.stopWatcher()
	if err := fn(); err != nil {
		return nil, err
	}
	warning = s.sync.HandleChanged()

	win := xproto.Window(s.surface.NativeWindow())
	w, err := platform.WatchState(s.conn, win, s.deliver, s.logger)
	if err != nil {
		s.logger.Warn("window state will not be tracked", "error", err)
		return warning, nil
	}
	s.watcher = w
	if err := w.Poll(); err != nil {
		s.logger.Warn("initial window state not read", "error", err)
	}
	return warning, nil
}

func (s *Session) stopWatcher() {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
}

func (s *Session) deliver(ev decoration.Event) {
	s.sync.FilterEvent(ev)
}

// control handles a click on one of the chrome's own buttons.
func (s *Session) control(c decoration.Control) {
	win := xproto.Window(s.surface.NativeWindow())
	var err error
	switch c {
	case decoration.ControlMinimize:
		err = s.conn.Iconify(win)
	case decoration.ControlMaximize:
		err = s.conn.ToggleMaximized(win)
	case decoration.ControlCenter:
		err = s.sync.CenterOnDesktop()
	case decoration.ControlClose:
		s.logger.Info("close requested from title bar")
		s.quit()
	}
	if err != nil {
		s.logger.Warn("title bar control failed", "control", c, "error", err)
	}
}

// HotkeyActions returns the actions global hotkeys may trigger, keyed by
// config.Hotkey* names. They run on the X event thread.
func (s *Session) HotkeyActions() map[string]func() {
	toggle := func(f decoration.Flag) func() {
		return func() {
			enabled := !s.sync.Config().Get(f)
			if warning := s.sync.Toggle(f, enabled); warning != nil {
				s.logger.Warn("hotkey toggle applied with warnings", "flag", f, "error", warning)
			}
		}
	}
	return map[string]func(){
		config.HotkeyCenter: func() {
			if err := s.sync.CenterOnDesktop(); err != nil {
				s.logger.Warn("center hotkey failed", "error", err)
			}
		},
		config.HotkeyRecreate: func() {
			if _, err := s.realize(s.surface.Recreate); err != nil {
				s.logger.Error("recreate hotkey failed", "error", err)
			}
		},
		config.HotkeyToggleTitleBar: toggle(decoration.FlagNativeTitleBar),
		config.HotkeyToggleBlur:     toggle(decoration.FlagBlur),
	}
}

// Reconcile recreates the window if something destroyed it and re-reads its
// state in case a notification was missed.
func (s *Session) Reconcile() error {
	var err error
	doErr := s.do(func() {
		h := s.surface.NativeWindow()
		if h != 0 && !s.conn.Exists(xproto.Window(h)) {
			s.logger.Warn("managed window disappeared, recreating", "window", fmt.Sprintf("0x%x", uint32(h)))
			s.stopWatcher()
			s.surface.Forget()
			_, err = s.realize(s.surface.Realize)
			return
		}
		if s.watcher != nil {
			err = s.watcher.Poll()
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (s *Session) do(fn func()) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return s.loop.Do(ctx, fn)
}

// status must run on the UI thread.
func (s *Session) status(warnings error) ipc.StatusData {
	return statusSnapshot{
		config:    s.sync.Config(),
		chrome:    s.surface.Chrome(),
		state:     s.sync.Observer().State(),
		handle:    s.surface.NativeWindow(),
		topLevel:  s.surface.IsTopLevel(),
		names:     s.cfg.DecorationFlagNames(),
		store:     s.store,
		warnings:  warnings,
		startedAt: s.started,
		now:       time.Now(),
	}.data()
}

// Status reports the current decoration and chrome.
func (s *Session) Status() ipc.StatusData {
	var st ipc.StatusData
	if err := s.do(func() { st = s.status(nil) }); err != nil {
		return ipc.StatusData{Warnings: []string{err.Error()}}
	}
	return st
}

// SetFlag toggles one decoration flag.
func (s *Session) SetFlag(flag decoration.Flag, enabled bool) (ipc.StatusData, error) {
	var st ipc.StatusData
	err := s.do(func() {
		warning := s.sync.Toggle(flag, enabled)
		st = s.status(warning)
	})
	return st, err
}

// Center centers the window on its monitor's usable area.
func (s *Session) Center() (ipc.StatusData, error) {
	var st ipc.StatusData
	var centerErr error
	err := s.do(func() {
		centerErr = s.sync.CenterOnDesktop()
		st = s.status(nil)
	})
	if err != nil {
		return st, err
	}
	return st, centerErr
}

// Recreate destroys the window and creates a new one with a new handle.
func (s *Session) Recreate() (ipc.StatusData, error) {
	var st ipc.StatusData
	var realizeErr error
	err := s.do(func() {
		var warning error
		warning, realizeErr = s.realize(s.surface.Recreate)
		st = s.status(warning)
	})
	if err != nil {
		return st, err
	}
	return st, realizeErr
}

// Reload re-reads the configuration file and applies its decoration flags.
// Window and appearance settings take effect on the next daemon start.
func (s *Session) Reload() (ipc.StatusData, error) {
	res, err := config.LoadFromPath(s.path)
	if err != nil {
		return ipc.StatusData{}, err
	}

	var st ipc.StatusData
	err = s.do(func() {
		s.cfg = res.Config
		warning := s.sync.Controller().Apply(s.cfg.DecorationConfig(s.store))
		st = s.status(warning)
	})
	if err == nil {
		s.logger.Info("configuration reloaded", "path", s.path)
	}
	return st, err
}

// SaveDefaults writes the current flags to the configuration file as the
// flags future windows start with.
func (s *Session) SaveDefaults() (string, error) {
	var cfg config.Config
	if err := s.do(func() {
		cfg = *s.cfg
		cfg.SetDecoration(s.sync.Config())
	}); err != nil {
		return "", err
	}
	if err := cfg.SaveTo(s.path); err != nil {
		return "", err
	}
	s.logger.Info("decoration defaults saved", "path", s.path)
	return s.path, nil
}
