// Package schedule computes a desired on/off state from wall-clock time
// and drives the display controller on change.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/core/metrics"
)

// TimeOfDay is a wall-clock instant expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Window is an on-time/off-time pair. When Off precedes On the window
// wraps past midnight.
type Window struct {
	On  TimeOfDay
	Off TimeOfDay
}

// Desired reports whether the display should be on at the given time.
func (w Window) Desired(now time.Time) bool {
	t := TimeOfDay(now.Hour()*60 + now.Minute())
	switch {
	case w.On == w.Off:
		return true
	case w.On < w.Off:
		return w.On <= t && t < w.Off
	default:
		// Overnight window: off during [Off, On).
		return !(w.Off <= t && t < w.On)
	}
}

// Runner re-evaluates the window on a fixed interval and applies state
// changes through the controller. Applies are edge-triggered: the
// controller is only invoked when the desired value differs from the
// last applied one. The last applied value lives in memory only, so a
// fresh process always performs one corrective apply on its first tick.
type Runner struct {
	ctrl     *display.Controller
	window   Window
	interval time.Duration
	log      logger.Logger
	sink     metrics.Sink

	applied *bool
	now     func() time.Time
}

// NewRunner creates a Runner. Nil logger and sink fall back to no-ops.
func NewRunner(ctrl *display.Controller, window Window, interval time.Duration, log logger.Logger, sink metrics.Sink) *Runner {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Runner{
		ctrl:     ctrl,
		window:   window,
		interval: interval,
		log:      log,
		sink:     sink,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled. It terminates cleanly
// without forcing a final state change.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Infof("schedule loop started: on=%s off=%s interval=%s",
		r.window.On, r.window.Off, r.interval)
	r.Tick(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Infof("schedule loop stopped")
			return nil
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs a single evaluate-and-apply step.
func (r *Runner) Tick(ctx context.Context) {
	desired := r.window.Desired(r.now())
	if r.applied != nil && *r.applied == desired {
		return
	}
	err := r.ctrl.SetPower(ctx, desired)
	r.sink.RecordPowerApply(desired, err)
	if err != nil {
		// Leave applied unchanged so the next tick retries.
		r.log.Errorf("apply %s: %v", display.StateFor(desired), err)
		return
	}
	r.log.Infof("applied scheduled state: %s", display.StateFor(desired))
	r.applied = &desired
}
