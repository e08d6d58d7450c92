package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/infra/exec"
)

const xscreensaverTool = "xscreensaver-command"

// Xscreensaver controls display power through the running xscreensaver
// daemon: deactivate wakes the screen, activate blanks it.
type Xscreensaver struct {
	runner exec.Runner
	log    logger.Logger
}

// NewXscreensaver creates the xscreensaver backend.
func NewXscreensaver(runner exec.Runner, log logger.Logger) *Xscreensaver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Xscreensaver{runner: runner, log: log}
}

func (x *Xscreensaver) Name() string { return xscreensaverTool }

// SetPower issues a single activate or deactivate call.
func (x *Xscreensaver) SetPower(ctx context.Context, on bool) error {
	wakeSession(ctx, x.runner, x.log, on)
	arg := "-activate"
	if on {
		arg = "-deactivate"
	}
	res, err := x.runner.Run(ctx, xscreensaverTool, arg)
	if err != nil {
		return fmt.Errorf("%s %s: %w (%s)", xscreensaverTool, arg, err, strings.TrimSpace(string(res.Output)))
	}
	return nil
}

// ReadPower parses the free-text blanking status. "screen non-blanked"
// must be checked before the inactive markers since it contains
// "blanked" as a substring.
func (x *Xscreensaver) ReadPower(ctx context.Context) (display.State, error) {
	res, err := x.runner.Run(ctx, xscreensaverTool, "-time")
	if err != nil {
		return display.StateUnknown, fmt.Errorf("%s -time: %w", xscreensaverTool, err)
	}
	out := string(res.Output)
	switch {
	case strings.Contains(out, "non-blanked"):
		return display.StateOn, nil
	case strings.Contains(out, "blanked"), strings.Contains(out, "locked"):
		return display.StateOff, nil
	default:
		return display.StateUnknown, nil
	}
}
