// Package command maps inbound textual commands to display controller
// actions and decides what status to report back.
package command

import (
	"context"
	"strings"
	"time"

	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/core/metrics"
)

// DefaultTimeout bounds the execution of a single hardware command.
const DefaultTimeout = 10 * time.Second

// Dispatcher translates on/off/status commands into controller calls.
type Dispatcher struct {
	ctrl    *display.Controller
	timeout time.Duration
	log     logger.Logger
	sink    metrics.Sink
}

// New creates a Dispatcher. A zero timeout falls back to DefaultTimeout,
// nil logger and sink fall back to no-ops.
func New(ctrl *display.Controller, timeout time.Duration, log logger.Logger, sink metrics.Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Dispatcher{ctrl: ctrl, timeout: timeout, log: log, sink: sink}
}

// Dispatch handles one raw command payload. It returns the state to
// publish on the status topic and whether a publication should happen
// at all. Unrecognized commands are logged and produce no publication.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (display.State, bool) {
	cmd := strings.ToLower(strings.TrimSpace(raw))
	switch cmd {
	case "on", "off":
		state := d.setPower(ctx, cmd == "on")
		d.sink.RecordCommand(cmd, state)
		return state, true
	case "status":
		state := d.readPower(ctx)
		d.sink.RecordCommand(cmd, state)
		return state, true
	default:
		d.log.Warnf("unknown command: %q", raw)
		return display.StateUnknown, false
	}
}

// setPower applies the desired state and reports it optimistically on
// success, without re-querying hardware.
func (d *Dispatcher) setPower(ctx context.Context, on bool) display.State {
	// The bound is the only cancellation path: a shutdown signal must
	// not abort an in-flight hardware call.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	err := d.ctrl.SetPower(ctx, on)
	d.sink.RecordPowerApply(on, err)
	if err != nil {
		d.log.Errorf("set power %s: %v", display.StateFor(on), err)
		return display.StateUnknown
	}
	d.log.Infof("display turned %s", display.StateFor(on))
	return display.StateFor(on)
}

func (d *Dispatcher) readPower(ctx context.Context) display.State {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	state, err := d.ctrl.ReadPower(ctx)
	if err != nil {
		d.log.Errorf("read power: %v", err)
		return display.StateUnknown
	}
	return state
}
