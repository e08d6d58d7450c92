package backend

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dashpi/displayd/infra/exec"
)

// fakeRunner scripts vendor-tool invocations by full command line.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	// out maps a full command line to its combined output.
	out map[string]string
	// fail maps a full command line to a non-zero exit.
	fail map[string]bool
	// failAll makes every invocation exit non-zero.
	failAll bool
}

func (f *fakeRunner) key(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) record(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(name, args...)
	f.calls = append(f.calls, k)
	if f.failAll || f.fail[k] {
		return f.out[k], errors.New("exit status 1")
	}
	return f.out[k], nil
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (exec.Result, error) {
	out, err := f.record(ctx, name, args...)
	res := exec.Result{Output: []byte(out), ExitCode: 0}
	if err != nil {
		res.ExitCode = 1
	}
	return res, err
}

func (f *fakeRunner) RunWithEnv(ctx context.Context, _ []string, name string, args ...string) (exec.Result, error) {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) calledWith(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
