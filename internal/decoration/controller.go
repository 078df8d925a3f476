package decoration

import (
	"io"
	"log/slog"
)

// Controller owns the Config of one widget and propagates every change to
// the persisted flags, the chrome and the native bridge before returning.
type Controller struct {
	cfg      Config
	widget   Widget
	chrome   Chrome
	bridge   Bridge
	flags    PersistedFlags
	names    FlagNames
	palettes Palettes
	logger   *slog.Logger
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Widget    Widget
	Chrome    Chrome
	Bridge    Bridge
	Store     FlagStore
	FlagNames FlagNames
	Palettes  Palettes
	Logger    *slog.Logger
}

// NewController returns a controller holding DefaultConfig. Nothing is
// propagated until the first operation; use Apply to push an initial Config.
func NewController(opts ControllerOptions) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		cfg:      DefaultConfig(),
		widget:   opts.Widget,
		chrome:   opts.Chrome,
		bridge:   opts.Bridge,
		flags:    NewPersistedFlags(opts.Store),
		names:    opts.FlagNames,
		palettes: opts.Palettes,
		logger:   logger,
	}
}

// Config returns a copy of the current flags.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetNativeTitleBar switches between the window manager's title bar and the
// widget's own title-bar panel.
func (c *Controller) SetNativeTitleBar(enabled bool) error {
	c.cfg.UseNativeTitleBar = enabled
	return c.run("set native title bar", c.syncTitleBar)
}

// SetPreserveFrame keeps or drops the native resize frame.
func (c *Controller) SetPreserveFrame(enabled bool) error {
	c.cfg.PreserveFrame = enabled
	return c.run("set preserve frame", c.syncPreserveFrame)
}

// SetBlurEnabled toggles backdrop blur and the translucent background.
func (c *Controller) SetBlurEnabled(enabled bool) error {
	c.cfg.BlurEnabled = enabled
	return c.run("set blur", c.syncBlur)
}

// SetResizable toggles the fixed-size flag of the registered window.
// Resizability is not persisted.
func (c *Controller) SetResizable(enabled bool) error {
	c.cfg.Resizable = enabled
	return c.run("set resizable", c.syncResizable)
}

// Set dispatches to the setter of f.
func (c *Controller) Set(f Flag, enabled bool) error {
	switch f {
	case FlagNativeTitleBar:
		return c.SetNativeTitleBar(enabled)
	case FlagPreserveFrame:
		return c.SetPreserveFrame(enabled)
	case FlagBlur:
		return c.SetBlurEnabled(enabled)
	case FlagResizable:
		return c.SetResizable(enabled)
	default:
		return nil
	}
}

// Apply replaces the whole Config and propagates every flag with a single
// refresh.
func (c *Controller) Apply(cfg Config) error {
	c.cfg = cfg
	return c.run("apply decoration", c.syncTitleBar, c.syncPreserveFrame, c.syncBlur, c.syncResizable)
}

// Reapply pushes the native side of the current Config again without
// touching persisted flags or chrome. It is used after the handle changed,
// since native state set on the old handle is lost.
func (c *Controller) Reapply() error {
	return c.run("reapply decoration", c.syncTitleBarMetric, c.syncNativeBlur, c.syncResizable)
}

// CenterOnDesktop asks the bridge to center the window. Without a top-level
// handle it does nothing.
func (c *Controller) CenterOnDesktop() error {
	h, ok := c.handle()
	if !ok {
		c.logger.Debug("centering skipped", "reason", ErrNotTopLevel)
		return nil
	}
	if err := c.bridge.CenterOnDesktop(h); err != nil {
		return &NativeCallError{Op: "center on desktop", Handle: h, Err: err}
	}
	return nil
}

// run executes the sync steps of one operation and always ends with
// reconcile, so no entry point can skip the refresh.
func (c *Controller) run(op string, steps ...func(*warnings)) error {
	w := &warnings{op: op}
	for _, step := range steps {
		step(w)
	}
	c.reconcile(w)

	err := w.err()
	if err != nil {
		c.logger.Warn("decoration change applied with warnings", "op", op, "error", err)
	} else {
		c.logger.Debug("decoration change applied", "op", op,
			"native_title_bar", c.cfg.UseNativeTitleBar,
			"preserve_frame", c.cfg.PreserveFrame,
			"blur", c.cfg.BlurEnabled,
			"resizable", c.cfg.Resizable)
	}
	return err
}

// reconcile asks the bridge to re-apply decoration for the current handle.
func (c *Controller) reconcile(w *warnings) {
	h, ok := c.handle()
	if !ok {
		c.logger.Debug("decoration refresh deferred", "op", w.op, "reason", ErrNotTopLevel)
		return
	}
	w.native("refresh", h, c.bridge.Refresh(h, true, c.cfg.PreserveFrame))
}

func (c *Controller) handle() (Handle, bool) {
	if c.widget == nil || !c.widget.IsTopLevel() {
		return 0, false
	}
	return c.bridge.RawHandle(c.widget)
}

func (c *Controller) syncTitleBar(w *warnings) {
	c.syncTitleBarMetric(w)
	w.add(c.flags.Apply(c.names.NoNativeTitleBar, overrideFor(c.cfg.UseNativeTitleBar)))
	c.chrome.SetTitleBarVisible(!c.cfg.UseNativeTitleBar)
}

// syncTitleBarMetric records the title-bar choice in the window data along
// with the reserved height: the real metric with a native title bar, 0 when
// the widget draws its own.
func (c *Controller) syncTitleBarMetric(w *warnings) {
	height := 0
	if c.cfg.UseNativeTitleBar {
		if h, ok := c.handle(); ok {
			m, err := c.bridge.SystemMetric(h, MetricTitleBarHeight)
			w.native("read title bar height", h, err)
			if err == nil {
				height = m
			}
		}
	}
	if data, ok := c.bridge.WindowData(c.widget); ok {
		data.NativeTitleBar = c.cfg.UseNativeTitleBar
		data.TitleBarHeight = height
	}
}

// syncPreserveFrame only persists the flag; the frame itself changes on
// refresh, which receives PreserveFrame directly.
func (c *Controller) syncPreserveFrame(w *warnings) {
	w.add(c.flags.Apply(c.names.NoPreserveFrame, overrideFor(c.cfg.PreserveFrame)))
}

func (c *Controller) syncBlur(w *warnings) {
	c.chrome.SetBackground(c.palettes.For(c.cfg.BlurEnabled))
	c.syncNativeBlur(w)
}

func (c *Controller) syncNativeBlur(w *warnings) {
	h, ok := c.handle()
	if !ok {
		return
	}
	w.native("set blur", h, c.bridge.SetBlur(h, c.cfg.BlurEnabled))
}

func (c *Controller) syncResizable(w *warnings) {
	data, ok := c.bridge.WindowData(c.widget)
	if !ok {
		c.logger.Debug("fixed-size update skipped", "op", w.op, "reason", ErrStaleWindowData)
		return
	}
	data.FixedSize = !c.cfg.Resizable
}
