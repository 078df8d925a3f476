package daemon

import (
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/chromesync/internal/decoration"
	"github.com/1broseidon/chromesync/internal/ipc"
)

// statusSnapshot is everything GET_STATUS reports, gathered on the UI thread.
type statusSnapshot struct {
	config    decoration.Config
	chrome    ChromeState
	state     decoration.WindowState
	handle    decoration.Handle
	topLevel  bool
	names     decoration.FlagNames
	store     decoration.FlagStore
	warnings  error
	startedAt time.Time
	now       time.Time
}

func (s statusSnapshot) data() ipc.StatusData {
	c := s.chrome.Background.Color
	return ipc.StatusData{
		Config: ipc.NewConfigData(s.config),
		Chrome: ipc.ChromeData{
			TitleBarVisible: s.chrome.TitleBarVisible,
			Background:      fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			Translucent:     s.chrome.Background.Kind == decoration.PaletteTranslucent,
			Glyph:           s.chrome.Glyph.String(),
			CenterEnabled:   s.chrome.CenterEnabled,
			WindowState:     s.state.String(),
		},
		Handle:         uint32(s.handle),
		TopLevel:       s.topLevel,
		PersistedFlags: persistedFlags(s.store, s.names),
		Warnings:       warningMessages(s.warnings),
		UptimeSeconds:  int64(s.now.Sub(s.startedAt).Seconds()),
		DaemonRunning:  true,
	}
}

// persistedFlags reports which configured flag names are set in store.
func persistedFlags(store decoration.FlagStore, names decoration.FlagNames) map[string]bool {
	if store == nil {
		return nil
	}
	flags := decoration.NewPersistedFlags(store)
	out := make(map[string]bool, 2)
	for _, name := range []string{names.NoNativeTitleBar, names.NoPreserveFrame} {
		if name == "" {
			continue
		}
		out[name] = flags.Get(name) == decoration.OverrideForceOff
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// warningMessages flattens a decoration warning into one message per failed
// native call.
func warningMessages(err error) []string {
	if err == nil {
		return nil
	}
	var w *decoration.WarningError
	if !errors.As(err, &w) {
		return []string{err.Error()}
	}
	joined, ok := w.Err.(interface{ Unwrap() []error })
	if !ok {
		return []string{w.Err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}
