package decoration

// Handle is a native top-level window identifier. Zero means no handle.
type Handle uint32

// MetricKind selects a window-manager metric.
type MetricKind int

const (
	// MetricTitleBarHeight is the height the window manager reserves for
	// its title bar.
	MetricTitleBarHeight MetricKind = iota
	// MetricResizeBorder is the thickness of the native resize border.
	MetricResizeBorder
)

func (k MetricKind) String() string {
	switch k {
	case MetricTitleBarHeight:
		return "title-bar-height"
	case MetricResizeBorder:
		return "resize-border"
	default:
		return "unknown"
	}
}

// WindowData is the per-window record a Bridge keeps for a registered
// frameless window. Callers mutate it in place; the Bridge reads it on the
// next Refresh.
type WindowData struct {
	// FixedSize disables user resizing.
	FixedSize bool
	// NativeTitleBar keeps the window manager's title bar.
	NativeTitleBar bool
	// TitleBarHeight is the title-bar area reserved by the window manager,
	// 0 when the window draws its own title bar.
	TitleBarHeight int
	// IgnoreRegions are controls excluded from caption hit-testing.
	IgnoreRegions IgnoreRegions
}

// Bridge is the native window-manager collaborator.
//
// Handles may be replaced by the platform at any time; a registration made
// for an old handle is not carried over, see HandleManager.
type Bridge interface {
	// RawHandle returns the current native handle of w, if it has one.
	RawHandle(w Widget) (Handle, bool)
	// RegisterFrameless binds frameless behaviour to the current handle of w.
	// Registering an already registered handle must be cheap and safe.
	RegisterFrameless(w Widget, ignore IgnoreRegions) error
	// Refresh re-applies the decoration state of h. Frame, title-bar
	// reservation and backdrop only change after a Refresh.
	Refresh(h Handle, preserveContent, preserveFrame bool) error
	// SystemMetric reads a window-manager metric for h.
	SystemMetric(h Handle, kind MetricKind) (int, error)
	// SetBlur enables or disables backdrop blur behind h.
	SetBlur(h Handle, enabled bool) error
	// CenterOnDesktop moves h to the center of its desktop work area.
	CenterOnDesktop(h Handle) error
	// WindowData returns the mutable record registered for w.
	WindowData(w Widget) (*WindowData, bool)
}
