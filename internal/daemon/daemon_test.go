package daemon

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/chromesync/internal/decoration"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pingChans struct {
	before, after, quit chan struct{}
}

func startLoop(t *testing.T) (*Loop, pingChans, context.CancelFunc, <-chan error) {
	t.Helper()
	p := pingChans{
		before: make(chan struct{}),
		after:  make(chan struct{}),
		quit:   make(chan struct{}),
	}
	l := NewLoop(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, Pings{Before: p.before, After: p.after, Quit: p.quit})
	}()
	t.Cleanup(cancel)
	return l, p, cancel, done
}

func TestLoop_DoRunsTasksInOrder(t *testing.T) {
	l, _, _, _ := startLoop(t)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := l.Do(context.Background(), func() { got = append(got, i) }); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestLoop_QueuedTasksAreFIFO(t *testing.T) {
	l, _, _, _ := startLoop(t)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if err := l.post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	// Do queues behind every posted task.
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("ran %d tasks, want 10", len(got))
	}
}

func TestLoop_TasksWaitForEventBatch(t *testing.T) {
	l, p, _, _ := startLoop(t)

	p.before <- struct{}{}

	ran := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func() {})
		close(ran)
	}()

	select {
	case <-ran:
		t.Fatal("task ran during an event batch")
	case <-time.After(50 * time.Millisecond):
	}

	p.after <- struct{}{}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run after the batch ended")
	}
}

func TestLoop_ExpiredTaskNeverRuns(t *testing.T) {
	l, p, _, _ := startLoop(t)

	p.before <- struct{}{}

	ran := false
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Do(ctx, func() { ran = true }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Do = %v, want DeadlineExceeded", err)
	}

	p.after <- struct{}{}
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ran {
		t.Fatal("task ran after its caller gave up")
	}
}

func TestLoop_StartedTaskFinishesBeforeDoReturns(t *testing.T) {
	l, _, _, _ := startLoop(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	var result int
	err := l.Do(ctx, func() {
		time.Sleep(50 * time.Millisecond)
		result = 42
	})
	if err != nil {
		t.Fatalf("Do = %v, want nil once the task started", err)
	}
	if result != 42 {
		t.Fatalf("result = %d, want 42", result)
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	l, _, _, _ := startLoop(t)

	if err := l.Do(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
	if !ran {
		t.Fatal("loop stopped after a panicking task")
	}
}

func TestLoop_StopsOnQuit(t *testing.T) {
	l, p, _, done := startLoop(t)

	close(p.quit)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return on quit")
	}

	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("Do after quit = %v, want ErrLoopStopped", err)
	}
	if err := l.post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("post after quit = %v, want ErrLoopStopped", err)
	}
}

func TestLoop_StopsOnCancel(t *testing.T) {
	_, _, cancel, done := startLoop(t)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return on cancel")
	}
}

func TestControlAt(t *testing.T) {
	const width, size = 300, 28

	tests := []struct {
		x    int
		want decoration.Control
		ok   bool
	}{
		{0, decoration.ControlCenter, true},
		{27, decoration.ControlCenter, true},
		{28, "", false},
		{150, "", false},
		{299, decoration.ControlClose, true},
		{272, decoration.ControlClose, true},
		{271, decoration.ControlMaximize, true},
		{244, decoration.ControlMaximize, true},
		{243, decoration.ControlMinimize, true},
		{216, decoration.ControlMinimize, true},
		{215, "", false},
		{-1, "", false},
		{300, "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("x=%d", tt.x), func(t *testing.T) {
			got, ok := controlAt(tt.x, width, size)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("controlAt(%d) = %q, %v; want %q, %v", tt.x, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestControlAt_ZeroHeight(t *testing.T) {
	if c, ok := controlAt(5, 100, 0); ok {
		t.Fatalf("controlAt with zero height = %q, want none", c)
	}
}

func TestStatusSnapshot_Data(t *testing.T) {
	store := decoration.NewMemoryStore()
	names := decoration.DefaultFlagNames()
	_ = store.SetFlag(names.NoNativeTitleBar, "1")

	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := statusSnapshot{
		config: decoration.Config{UseNativeTitleBar: false, PreserveFrame: true, BlurEnabled: true, Resizable: true},
		chrome: ChromeState{
			TitleBarVisible: true,
			Background: decoration.Palette{
				Kind:  decoration.PaletteTranslucent,
				Color: color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0x99},
			},
			Glyph:         decoration.GlyphRestore,
			CenterEnabled: false,
		},
		state:     decoration.StateMaximized,
		handle:    0x2a00003,
		topLevel:  true,
		names:     names,
		store:     store,
		startedAt: started,
		now:       started.Add(90 * time.Second),
	}.data()

	if st.Config.NativeTitleBar || !st.Config.PreserveFrame || !st.Config.Blur || !st.Config.Resizable {
		t.Fatalf("config = %+v", st.Config)
	}
	if st.Chrome.Background != "#1e1e2e" || !st.Chrome.Translucent {
		t.Fatalf("background = %q translucent=%v", st.Chrome.Background, st.Chrome.Translucent)
	}
	if st.Chrome.Glyph != "restore" || st.Chrome.CenterEnabled {
		t.Fatalf("chrome = %+v", st.Chrome)
	}
	if st.Chrome.WindowState != decoration.StateMaximized.String() {
		t.Fatalf("window state = %q", st.Chrome.WindowState)
	}
	if st.Handle != 0x2a00003 || !st.TopLevel || !st.DaemonRunning {
		t.Fatalf("status = %+v", st)
	}
	if st.UptimeSeconds != 90 {
		t.Fatalf("uptime = %d, want 90", st.UptimeSeconds)
	}
	want := map[string]bool{names.NoNativeTitleBar: true, names.NoPreserveFrame: false}
	if !reflect.DeepEqual(st.PersistedFlags, want) {
		t.Fatalf("persisted = %v, want %v", st.PersistedFlags, want)
	}
	if st.Warnings != nil {
		t.Fatalf("warnings = %v, want none", st.Warnings)
	}
}

func TestPersistedFlags_EmptyNames(t *testing.T) {
	if got := persistedFlags(decoration.NewMemoryStore(), decoration.FlagNames{}); got != nil {
		t.Fatalf("persistedFlags = %v, want nil", got)
	}
	if got := persistedFlags(nil, decoration.DefaultFlagNames()); got != nil {
		t.Fatalf("persistedFlags(nil store) = %v, want nil", got)
	}
}

func TestWarningMessages(t *testing.T) {
	first := &decoration.NativeCallError{Op: "refresh", Handle: 0x10, Err: errors.New("bad window")}
	second := &decoration.NativeCallError{Op: "set blur", Handle: 0x10, Err: errors.New("no compositor")}

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"plain", errors.New("oops"), []string{"oops"}},
		{
			"joined",
			&decoration.WarningError{Op: "set blur", Err: errors.Join(first, second)},
			[]string{first.Error(), second.Error()},
		},
		{
			"single",
			&decoration.WarningError{Op: "register frameless", Err: first},
			[]string{first.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := warningMessages(tt.err); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("warningMessages = %q, want %q", got, tt.want)
			}
		})
	}
}

type countingTarget struct {
	mu    sync.Mutex
	calls int
	err   error
	panic bool
}

func (c *countingTarget) Reconcile() error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panic {
		panic("reconcile")
	}
	return c.err
}

func (c *countingTarget) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestReconciler_RunsOnTicks(t *testing.T) {
	target := &countingTarget{err: errors.New("transient")}
	r := NewReconciler(ReconcilerConfig{Interval: 5 * time.Millisecond, Logger: discardLogger()}, target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for target.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("reconciled %d times, want at least 3", target.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}

func TestReconciler_ReconcileNowRecoversPanic(t *testing.T) {
	target := &countingTarget{panic: true}
	r := NewReconciler(ReconcilerConfig{Logger: discardLogger()}, target)

	r.ReconcileNow()
	r.ReconcileNow()
	if target.count() != 2 {
		t.Fatalf("calls = %d, want 2", target.count())
	}
	if r.interval != 10*time.Second {
		t.Fatalf("default interval = %v", r.interval)
	}
}
