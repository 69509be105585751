package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestRefreshControllerEnableThenSetInterval(t *testing.T) {
	tickers := useFakeTickers(t)
	refresher := &recordingRefresher{}
	ctrl := NewRefreshController(testTracer, refresher, 10, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)
	if tickers.count() != 0 {
		t.Fatal("idle controller must not start a timer")
	}

	ctrl.Enable()
	if tickers.count() != 1 || tickers.get(0).d != 10*time.Second {
		t.Fatalf("expected a 10s timer, got %d timers", tickers.count())
	}

	if err := ctrl.SetInterval(30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tickers.get(0).stopped.Load() {
		t.Fatal("old timer must be cancelled")
	}
	if tickers.count() != 2 || tickers.get(1).d != 30*time.Second {
		t.Fatal("expected the timer to restart at 30s")
	}

	state := ctrl.State()
	if !state.Enabled || state.IntervalSecs != 30 {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestRefreshControllerManualRefreshCountsExactly(t *testing.T) {
	useFakeTickers(t)
	refresher := &recordingRefresher{}
	ctrl := NewRefreshController(testTracer, refresher, 10, true)

	before := ctrl.State().Trigger
	ctrl.ManualRefresh()
	ctrl.ManualRefresh()
	if got := ctrl.State().Trigger - before; got != 2 {
		t.Fatalf("expected trigger to grow by 2, got %d", got)
	}
	eventually(t, func() bool { return refresher.count() == 2 })
}

func TestRefreshControllerTickFiresRefresh(t *testing.T) {
	tickers := useFakeTickers(t)
	refresher := &recordingRefresher{}
	ctrl := NewRefreshController(testTracer, refresher, 5, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)
	eventually(t, func() bool { return refresher.count() == 1 })

	tickers.get(0).ch <- time.Now()
	eventually(t, func() bool { return refresher.count() == 2 })

	seqs := refresher.all()
	if seqs[0] == seqs[1] {
		t.Fatalf("each trigger must carry a new counter value: %v", seqs)
	}
	if ctrl.State().Trigger != 2 {
		t.Fatalf("expected trigger 2, got %d", ctrl.State().Trigger)
	}
}

func TestRefreshControllerDisableStopsTimer(t *testing.T) {
	tickers := useFakeTickers(t)
	ctrl := NewRefreshController(testTracer, &recordingRefresher{}, 10, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)

	ctrl.Disable()
	if !tickers.get(0).stopped.Load() {
		t.Fatal("timer must be cancelled on disable")
	}
	if ctrl.State().Enabled {
		t.Fatal("controller must be idle")
	}

	before := ctrl.State().Trigger
	ctrl.tick()
	if ctrl.State().Trigger != before {
		t.Fatal("ticks must not fire while disabled")
	}

	if err := ctrl.SetInterval(60); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tickers.count() != 1 {
		t.Fatal("setting the interval while idle must not start a timer")
	}

	ctrl.Enable()
	if tickers.count() != 2 || tickers.get(1).d != 60*time.Second {
		t.Fatal("enable must use the stored interval")
	}
}

func TestRefreshControllerRejectsUnknownInterval(t *testing.T) {
	useFakeTickers(t)
	ctrl := NewRefreshController(testTracer, nil, 10, false)
	if err := ctrl.SetInterval(7); !errors.Is(err, ErrUnsupportedInterval) {
		t.Fatalf("expected ErrUnsupportedInterval, got %v", err)
	}
	if ctrl.State().IntervalSecs != 10 {
		t.Fatal("rejected interval must not be stored")
	}
}

func TestNewRefreshControllerDefaultsInterval(t *testing.T) {
	ctrl := NewRefreshController(testTracer, nil, 3, true)
	if ctrl.State().IntervalSecs != 10 {
		t.Fatalf("expected default interval, got %d", ctrl.State().IntervalSecs)
	}
}

func TestRefreshControllerStopsWithContext(t *testing.T) {
	tickers := useFakeTickers(t)
	ctrl := NewRefreshController(testTracer, &recordingRefresher{}, 10, true)

	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)
	cancel()

	eventually(t, func() bool { return tickers.get(0).stopped.Load() })
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

type fakeTicker struct {
	d       time.Duration
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) Chan() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()                  { f.stopped.Store(true) }

type fakeTickers struct {
	mu   sync.Mutex
	list []*fakeTicker
}

func (f *fakeTickers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list)
}

func (f *fakeTickers) get(i int) *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list[i]
}

func useFakeTickers(t *testing.T) *fakeTickers {
	t.Helper()
	fakes := &fakeTickers{}
	orig := newTicker
	newTicker = func(d time.Duration) ticker {
		ft := &fakeTicker{d: d, ch: make(chan time.Time)}
		fakes.mu.Lock()
		fakes.list = append(fakes.list, ft)
		fakes.mu.Unlock()
		return ft
	}
	t.Cleanup(func() { newTicker = orig })
	return fakes
}

type recordingRefresher struct {
	mu   sync.Mutex
	seqs []uint64
}

func (r *recordingRefresher) Refresh(ctx context.Context, seq uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs = append(r.seqs, seq)
	return nil
}

func (r *recordingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seqs)
}

func (r *recordingRefresher) all() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.seqs...)
}
