// Package backend selects and drives the vendor power-control tool
// available on the host.
package backend

import (
	"errors"
	osexec "os/exec"

	"github.com/dashpi/displayd/core/display"
	"github.com/dashpi/displayd/core/logger"
	"github.com/dashpi/displayd/infra/exec"
)

// ErrNoBackend is returned when no supported vendor tool is installed.
var ErrNoBackend = errors.New("no supported display tool found (vcgencmd, xscreensaver-command)")

// Overridable in tests.
var lookPath = osexec.LookPath

// Probe picks the vendor tool to use, checking vcgencmd before
// xscreensaver-command. The choice is made once, at startup.
func Probe(runner exec.Runner, log logger.Logger) (display.Backend, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if _, err := lookPath(vcgencmdTool); err == nil {
		log.Infof("using %s backend", vcgencmdTool)
		return NewVcgencmd(runner, log), nil
	}
	if _, err := lookPath(xscreensaverTool); err == nil {
		log.Infof("using %s backend", xscreensaverTool)
		return NewXscreensaver(runner, log), nil
	}
	return nil, ErrNoBackend
}
