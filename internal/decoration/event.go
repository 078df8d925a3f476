package decoration

// Event is a window-manager notification relevant to decoration. The set of
// events is closed: StateChanged and HandleChanged.
type Event interface {
	isEvent()
}

// StateChanged reports a new window state.
type StateChanged struct {
	Snapshot Snapshot
}

// HandleChanged reports that the widget's native handle was assigned or
// replaced.
type HandleChanged struct{}

func (StateChanged) isEvent()  {}
func (HandleChanged) isEvent() {}

// StateChangedTo is shorthand for a notification carrying exactly s.
func StateChangedTo(s WindowState) StateChanged {
	return StateChanged{Snapshot: SnapshotOf(s)}
}
