package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"arbitrage-scanner/internal/domain"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"
)

var ErrUnsupportedInterval = errors.New("unsupported auto-refresh interval")

// Refresher is notified once per trigger counter change.
type Refresher interface {
	Refresh(ctx context.Context, seq uint64) error
}

// ticker is the part of *time.Ticker the controller uses.
type ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

var newTicker = func(d time.Duration) ticker {
	return realTicker{time.NewTicker(d)}
}

// RefreshState is a point-in-time view of the controller.
type RefreshState struct {
	Enabled      bool   `json:"enabled"`
	IntervalSecs int    `json:"interval_secs"`
	Trigger      uint64 `json:"trigger"`
}

// RefreshController owns the auto-refresh timer and the trigger counter.
// Idle means disabled with no timer; Armed means a timer ticks at the interval.
type RefreshController struct {
	tracer    trace.Tracer
	refresher Refresher

	mu           sync.Mutex
	ctx          context.Context
	enabled      bool
	intervalSecs int
	trigger      uint64
	stopTimer    chan struct{}
	timerDone    chan struct{}
	started      bool
}

// NewRefreshController creates an Idle controller. Start arms it when enabled is true.
// An interval outside domain.AutoRefreshOptions falls back to the default.
func NewRefreshController(tracer trace.Tracer, refresher Refresher, intervalSecs int, enabled bool) *RefreshController {
	if !domain.IsAutoRefreshOption(intervalSecs) {
		intervalSecs = domain.DefaultAutoRefreshSecs
	}
	return &RefreshController{
		tracer:       tracer,
		refresher:    refresher,
		ctx:          context.Background(),
		enabled:      enabled,
		intervalSecs: intervalSecs,
	}
}

// Start fires the initial fetch and arms the timer if enabled. Requests issued
// afterwards inherit ctx; cancelling it stops the timer too.
func (c *RefreshController) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ctx = ctx
	if c.enabled {
		c.armLocked()
	}
	enabled, secs := c.enabled, c.intervalSecs
	c.mu.Unlock()

	log.Info("refresh controller started", "enabled", enabled, "interval_secs", secs)
	c.ManualRefresh()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()
}

// Stop cancels the timer. It does not cancel requests already in flight.
func (c *RefreshController) Stop() {
	c.mu.Lock()
	done := c.disarmLocked()
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Enable moves Idle to Armed. Enabling an armed controller is a no-op.
func (c *RefreshController) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return
	}
	c.enabled = true
	if c.started {
		c.armLocked()
	}
	log.Info("auto refresh enabled", "interval_secs", c.intervalSecs)
}

// Disable moves Armed to Idle. In-flight fetches are left alone.
func (c *RefreshController) Disable() {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = false
	done := c.disarmLocked()
	c.mu.Unlock()
	if done != nil {
		<-done
	}
	log.Info("auto refresh disabled")
}

// SetEnabled calls Enable or Disable.
func (c *RefreshController) SetEnabled(enabled bool) {
	if enabled {
		c.Enable()
		return
	}
	c.Disable()
}

// SetInterval changes the interval. When Armed the timer restarts at the new
// interval; when Idle only the stored value changes.
func (c *RefreshController) SetInterval(secs int) error {
	if !domain.IsAutoRefreshOption(secs) {
		return fmt.Errorf("%w: %ds (allowed %v)", ErrUnsupportedInterval, secs, domain.AutoRefreshOptions)
	}

	c.mu.Lock()
	if c.intervalSecs == secs {
		c.mu.Unlock()
		return nil
	}
	c.intervalSecs = secs
	var done chan struct{}
	if c.stopTimer != nil {
		done = c.disarmLocked()
	}
	c.mu.Unlock()

	if done != nil {
		<-done
		c.mu.Lock()
		if c.enabled && c.started && c.stopTimer == nil {
			c.armLocked()
		}
		c.mu.Unlock()
	}
	log.Info("auto refresh interval changed", "interval_secs", secs)
	return nil
}

// ManualRefresh bumps the trigger counter right away, whatever the state, and
// leaves the timer untouched. It returns the new counter value.
func (c *RefreshController) ManualRefresh() uint64 {
	return c.fire("manual")
}

// State returns a copy of the controller state.
func (c *RefreshController) State() RefreshState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return RefreshState{Enabled: c.enabled, IntervalSecs: c.intervalSecs, Trigger: c.trigger}
}

func (c *RefreshController) tick() {
	c.mu.Lock()
	enabled := c.enabled
	c.mu.Unlock()
	if !enabled {
		return
	}
	c.fire("timer")
}

func (c *RefreshController) fire(source string) uint64 {
	c.mu.Lock()
	c.trigger++
	seq := c.trigger
	ctx := c.ctx
	c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "refresh-controller.trigger")
	span.End()
	log.Debug("refresh triggered", "source", source, "seq", seq)

	if c.refresher != nil {
		go func() {
			// Refresher logs its own failures.
			_ = c.refresher.Refresh(ctx, seq)
		}()
	}
	return seq
}

func (c *RefreshController) armLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stopTimer = stop
	c.timerDone = done

	t := newTicker(time.Duration(c.intervalSecs) * time.Second)
	ctx := c.ctx
	go func() {
		defer close(done)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-t.Chan():
				c.tick()
			}
		}
	}()
}

func (c *RefreshController) disarmLocked() chan struct{} {
	if c.stopTimer == nil {
		return nil
	}
	close(c.stopTimer)
	done := c.timerDone
	c.stopTimer = nil
	c.timerDone = nil
	return done
}
