package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashpi/displayd/core/display"
)

type fakeBackend struct {
	set       []bool
	reads     int
	state     display.State
	setErr    error
	readErr   error
	setDelay  time.Duration
	readDelay time.Duration
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) SetPower(ctx context.Context, on bool) error {
	if b.setDelay > 0 {
		select {
		case <-time.After(b.setDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.set = append(b.set, on)
	return b.setErr
}

func (b *fakeBackend) ReadPower(ctx context.Context) (display.State, error) {
	if b.readDelay > 0 {
		select {
		case <-time.After(b.readDelay):
		case <-ctx.Done():
			return display.StateUnknown, ctx.Err()
		}
	}
	b.reads++
	return b.state, b.readErr
}

func newDispatcher(be *fakeBackend, timeout time.Duration) *Dispatcher {
	return New(display.NewController(be), timeout, nil, nil)
}

func TestDispatchOnIsOptimistic(t *testing.T) {
	be := &fakeBackend{state: display.StateOff}
	d := newDispatcher(be, 0)

	state, publish := d.Dispatch(context.Background(), "on")
	require.True(t, publish)
	assert.Equal(t, display.StateOn, state)
	assert.Equal(t, []bool{true}, be.set)
	assert.Zero(t, be.reads, "on/off must not re-query hardware")
}

func TestDispatchNormalizesPayload(t *testing.T) {
	be := &fakeBackend{}
	d := newDispatcher(be, 0)

	state, publish := d.Dispatch(context.Background(), "  ON \n")
	require.True(t, publish)
	assert.Equal(t, display.StateOn, state)

	state, publish = d.Dispatch(context.Background(), "Off")
	require.True(t, publish)
	assert.Equal(t, display.StateOff, state)
	assert.Equal(t, []bool{true, false}, be.set)
}

func TestDispatchSetFailurePublishesUnknown(t *testing.T) {
	be := &fakeBackend{setErr: errors.New("exit status 1")}
	d := newDispatcher(be, 0)

	state, publish := d.Dispatch(context.Background(), "off")
	require.True(t, publish)
	assert.Equal(t, display.StateUnknown, state)
}

func TestDispatchSetTimeoutPublishesUnknown(t *testing.T) {
	be := &fakeBackend{setDelay: time.Second}
	d := newDispatcher(be, 20*time.Millisecond)

	start := time.Now()
	state, publish := d.Dispatch(context.Background(), "on")
	require.True(t, publish)
	assert.Equal(t, display.StateUnknown, state)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "dispatch must return at the bound")
}

func TestDispatchDetachedFromCallerCancellation(t *testing.T) {
	be := &fakeBackend{
		state:     display.StateOff,
		setDelay:  20 * time.Millisecond,
		readDelay: 20 * time.Millisecond,
	}
	d := newDispatcher(be, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, publish := d.Dispatch(ctx, "on")
	require.True(t, publish)
	assert.Equal(t, display.StateOn, state, "an in-flight call runs to its own bound, not the caller's")
	assert.Equal(t, []bool{true}, be.set)

	state, publish = d.Dispatch(ctx, "status")
	require.True(t, publish)
	assert.Equal(t, display.StateOff, state)
	assert.Equal(t, 1, be.reads)
}

func TestDispatchStatusPublishesObservedState(t *testing.T) {
	for _, want := range []display.State{display.StateOn, display.StateOff, display.StateUnknown} {
		be := &fakeBackend{state: want}
		d := newDispatcher(be, 0)

		state, publish := d.Dispatch(context.Background(), "status")
		require.True(t, publish)
		assert.Equal(t, want, state)
		assert.Equal(t, 1, be.reads)
	}
}

func TestDispatchStatusFailurePublishesUnknown(t *testing.T) {
	be := &fakeBackend{state: display.StateOn, readErr: errors.New("tool missing")}
	d := newDispatcher(be, 0)

	state, publish := d.Dispatch(context.Background(), "status")
	require.True(t, publish)
	assert.Equal(t, display.StateUnknown, state)
}

func TestDispatchUnknownCommandIsIgnored(t *testing.T) {
	be := &fakeBackend{}
	d := newDispatcher(be, 0)

	for _, raw := range []string{"reboot", "", "onn", "status please"} {
		_, publish := d.Dispatch(context.Background(), raw)
		assert.False(t, publish, "command %q must not publish", raw)
	}
	assert.Empty(t, be.set)
	assert.Zero(t, be.reads)
}
