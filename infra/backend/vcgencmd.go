package backend

import (
	"context"
	"strings"

	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/infra/exec"
)

const vcgencmdTool = "vcgencmd"

// subDisplayIDs are the firmware display identifiers a Pi can drive:
// main LCD, secondary LCD, HDMI0, composite, HDMI1.
var subDisplayIDs = []string{"0", "1", "2", "3", "7"}

// Vcgencmd controls display power through the Raspberry Pi firmware
// tool. Set calls are issued unqualified and then once per sub-display
// identifier; each call is best-effort.
type Vcgencmd struct {
	runner exec.Runner
	log    logger.Logger
}

// NewVcgencmd creates the vcgencmd backend.
func NewVcgencmd(runner exec.Runner, log logger.Logger) *Vcgencmd {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Vcgencmd{runner: runner, log: log}
}

func (v *Vcgencmd) Name() string { return vcgencmdTool }

// SetPower drives every sub-display. A non-zero exit from any single
// call is logged and ignored; only context expiry propagates so the
// caller's bound is still honored.
func (v *Vcgencmd) SetPower(ctx context.Context, on bool) error {
	wakeSession(ctx, v.runner, v.log, on)
	value := "0"
	if on {
		value = "1"
	}
	targets := [][]string{{"display_power", value}}
	for _, id := range subDisplayIDs {
		targets = append(targets, []string{"display_power", value, id})
	}
	for _, args := range targets {
		if res, err := v.runner.Run(ctx, vcgencmdTool, args...); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v.log.Warnf("%s %s: %v (%s)", vcgencmdTool, strings.Join(args, " "), err, strings.TrimSpace(string(res.Output)))
		}
	}
	return nil
}

// ReadPower queries the unqualified target plus every sub-display and
// aggregates OR-over-on: any on marker wins, a full set of parseable
// results with none on reads off, and no parseable result at all reads
// unknown.
func (v *Vcgencmd) ReadPower(ctx context.Context) (display.State, error) {
	queries := [][]string{{"display_power", "-1"}}
	for _, id := range subDisplayIDs {
		queries = append(queries, []string{"display_power", "-1", id})
	}
	parsed := 0
	for _, args := range queries {
		res, err := v.runner.Run(ctx, vcgencmdTool, args...)
		if err != nil {
			if ctx.Err() != nil {
				return display.StateUnknown, ctx.Err()
			}
			v.log.Warnf("%s %s: %v", vcgencmdTool, strings.Join(args, " "), err)
			continue
		}
		switch parsePowerOutput(string(res.Output)) {
		case display.StateOn:
			return display.StateOn, nil
		case display.StateOff:
			parsed++
		}
	}
	if parsed == len(queries) {
		return display.StateOff, nil
	}
	return display.StateUnknown, nil
}

// parsePowerOutput reads a "display_power=N" line. Anything else is
// unparseable and reported as unknown.
func parsePowerOutput(out string) display.State {
	switch {
	case strings.Contains(out, "display_power=1"):
		return display.StateOn
	case strings.Contains(out, "display_power=0"):
		return display.StateOff
	default:
		return display.StateUnknown
	}
}
