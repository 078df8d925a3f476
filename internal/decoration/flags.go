package decoration

import (
	"os"
	"sort"
)

// Override is the typed value of a persisted decoration flag. A flag that is
// present in the store always means OverrideForceOff.
type Override int

const (
	OverrideUnset Override = iota
	OverrideForceOff
)

func (o Override) String() string {
	switch o {
	case OverrideUnset:
		return "unset"
	case OverrideForceOff:
		return "force-off"
	default:
		return "unknown"
	}
}

// overrideFor maps a flag value to the override that persists it: only the
// disabled state is written.
func overrideFor(enabled bool) Override {
	if enabled {
		return OverrideUnset
	}
	return OverrideForceOff
}

// FlagNames are the store keys of the two persisted flags.
type FlagNames struct {
	// NoNativeTitleBar forces the native title bar off for new windows.
	NoNativeTitleBar string
	// NoPreserveFrame stops new windows from keeping the native frame.
	NoPreserveFrame string
}

// DefaultFlagNames returns the environment variable names used when the
// configuration does not override them.
func DefaultFlagNames() FlagNames {
	return FlagNames{
		NoNativeTitleBar: "CHROMESYNC_NO_NATIVE_TITLEBAR",
		NoPreserveFrame:  "CHROMESYNC_NO_PRESERVE_FRAME",
	}
}

// FlagStore is a process-wide key/value store read by window-creation code.
type FlagStore interface {
	SetFlag(name, value string) error
	ClearFlag(name string) error
	LookupFlag(name string) (string, bool)
}

// EnvStore persists flags in the process environment so that child windows
// and child processes inherit them.
type EnvStore struct{}

var _ FlagStore = EnvStore{}

func (EnvStore) SetFlag(name, value string) error { return os.Setenv(name, value) }

func (EnvStore) ClearFlag(name string) error { return os.Unsetenv(name) }

func (EnvStore) LookupFlag(name string) (string, bool) { return os.LookupEnv(name) }

// MemoryStore is a FlagStore that never touches the process environment.
type MemoryStore struct {
	values map[string]string
}

var _ FlagStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) SetFlag(name, value string) error {
	m.values[name] = value
	return nil
}

func (m *MemoryStore) ClearFlag(name string) error {
	delete(m.values, name)
	return nil
}

func (m *MemoryStore) LookupFlag(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Names returns the stored flag names in sorted order.
func (m *MemoryStore) Names() []string {
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PersistedFlags reads and writes typed overrides on top of a FlagStore.
type PersistedFlags struct {
	store FlagStore
}

// NewPersistedFlags wraps store.
func NewPersistedFlags(store FlagStore) PersistedFlags {
	return PersistedFlags{store: store}
}

// Apply writes o under name. An empty name disables persistence for that flag.
func (p PersistedFlags) Apply(name string, o Override) error {
	if name == "" || p.store == nil {
		return nil
	}
	if o == OverrideForceOff {
		return p.store.SetFlag(name, "1")
	}
	return p.store.ClearFlag(name)
}

// Get reads the override stored under name.
func (p PersistedFlags) Get(name string) Override {
	if name == "" || p.store == nil {
		return OverrideUnset
	}
	if _, ok := p.store.LookupFlag(name); ok {
		return OverrideForceOff
	}
	return OverrideUnset
}

// InheritedConfig returns the configuration a newly created window should
// start with given the flags persisted by earlier windows. Flags that are not
// persisted keep their defaults.
func InheritedConfig(store FlagStore, names FlagNames) Config {
	p := NewPersistedFlags(store)
	cfg := DefaultConfig()
	cfg.UseNativeTitleBar = p.Get(names.NoNativeTitleBar) != OverrideForceOff
	cfg.PreserveFrame = p.Get(names.NoPreserveFrame) != OverrideForceOff
	return cfg
}
