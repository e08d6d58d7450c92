// Package display defines the power state model and the single point of
// control over the physical display.
package display

import "context"

// State is the observed or desired power state of the display.
type State int

const (
	StateUnknown State = iota
	StateOn
	StateOff
)

func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	default:
		return "unknown"
	}
}

// StateFor maps a boolean power value to its State.
func StateFor(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}

// Backend drives a vendor power-control tool. Exactly one backend is
// selected at startup and kept for the process lifetime.
type Backend interface {
	// Name identifies the selected vendor tool.
	Name() string
	// SetPower switches the display on or off.
	SetPower(ctx context.Context, on bool) error
	// ReadPower reports the currently observed power state.
	ReadPower(ctx context.Context) (State, error)
}

// Controller is the single caller of the Backend. All power mutations
// pass through it so hardware writes cannot race.
type Controller struct {
	backend Backend
}

// NewController wraps a backend.
func NewController(backend Backend) *Controller {
	return &Controller{backend: backend}
}

// SetPower delegates to the backend without a verification read-back.
func (c *Controller) SetPower(ctx context.Context, on bool) error {
	return c.backend.SetPower(ctx, on)
}

// ReadPower delegates to the backend.
func (c *Controller) ReadPower(ctx context.Context) (State, error) {
	return c.backend.ReadPower(ctx)
}

// BackendName reports which vendor tool was selected.
func (c *Controller) BackendName() string {
	return c.backend.Name()
}
