package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTools(t *testing.T, tools ...string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		for _, tool := range tools {
			if tool == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestProbePrefersVcgencmd(t *testing.T) {
	withTools(t, vcgencmdTool, xscreensaverTool)
	be, err := Probe(&fakeRunner{out: map[string]string{}, fail: map[string]bool{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, vcgencmdTool, be.Name())
}

func TestProbeFallsBackToXscreensaver(t *testing.T) {
	withTools(t, xscreensaverTool)
	be, err := Probe(&fakeRunner{out: map[string]string{}, fail: map[string]bool{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, xscreensaverTool, be.Name())
}

func TestProbeNoToolIsFatal(t *testing.T) {
	withTools(t)
	_, err := Probe(&fakeRunner{out: map[string]string{}, fail: map[string]bool{}}, nil)
	assert.ErrorIs(t, err, ErrNoBackend)
}
