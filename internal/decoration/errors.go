package decoration

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTopLevel means the widget has no native handle yet. The change
	// takes effect on the next refresh or registration.
	ErrNotTopLevel = errors.New("widget is not a top-level window")
	// ErrStaleWindowData means the bridge has no record for the widget.
	ErrStaleWindowData = errors.New("no window data registered for widget")
	// ErrCenterUnavailable is returned when centering is requested while the
	// window is maximized or full screen.
	ErrCenterUnavailable = errors.New("centering is unavailable while maximized or full screen")
)

// NativeCallError reports a failed Bridge call.
type NativeCallError struct {
	Op     string
	Handle Handle
	Err    error
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("%s on window 0x%x: %v", e.Op, uint32(e.Handle), e.Err)
}

func (e *NativeCallError) Unwrap() error { return e.Err }

// WarningError is returned by decoration operations whose local state was
// fully updated but whose native application partially failed. It is never
// fatal; the next refresh trigger retries.
type WarningError struct {
	Op  string
	Err error
}

func (e *WarningError) Error() string {
	return fmt.Sprintf("%s: applied locally with warnings: %v", e.Op, e.Err)
}

func (e *WarningError) Unwrap() error { return e.Err }

// IsWarning reports whether err is a non-fatal decoration warning.
func IsWarning(err error) bool {
	var w *WarningError
	return errors.As(err, &w)
}

// warnings collects non-fatal failures of one operation.
type warnings struct {
	op   string
	errs []error
}

func (w *warnings) native(op string, h Handle, err error) {
	if err == nil {
		return
	}
	w.errs = append(w.errs, &NativeCallError{Op: op, Handle: h, Err: err})
}

func (w *warnings) add(err error) {
	if err != nil {
		w.errs = append(w.errs, err)
	}
}

func (w *warnings) err() error {
	if len(w.errs) == 0 {
		return nil
	}
	return &WarningError{Op: w.op, Err: errors.Join(w.errs...)}
}
