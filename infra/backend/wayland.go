package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/infra/exec"
)

const wlopmTool = "wlopm"

// sessionEnv points wlopm at the dashboard compositor session when the
// daemon runs outside of it (systemd unit).
func sessionEnv() []string {
	env := []string{}
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		env = append(env, "WAYLAND_DISPLAY=wayland-0")
	}
	if os.Getenv("XDG_RUNTIME_DIR") == "" {
		env = append(env, fmt.Sprintf("XDG_RUNTIME_DIR=/run/user/%d", os.Getuid()))
	}
	return env
}

// wakeSession asks the compositor to power its outputs on or off before
// the vendor tool runs. Strictly best-effort: wlopm may not exist and
// the session may be X11, either way the backend call still proceeds.
func wakeSession(ctx context.Context, runner exec.Runner, log logger.Logger, on bool) {
	arg := "--off"
	if on {
		arg = "--on"
	}
	if res, err := runner.RunWithEnv(ctx, sessionEnv(), wlopmTool, arg, "*"); err != nil {
		log.Debugf("%s %s: %v (%s)", wlopmTool, arg, err, res.Output)
	}
}
