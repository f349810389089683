package plugin

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dshills/quicklog/internal/plugin/api"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

// Options configures a Runner.
type Options struct {
	// Timeout bounds a single script run. Zero uses the state default.
	Timeout time.Duration

	// Output receives print output.
	Output io.Writer

	// Capabilities are granted before the API is injected.
	Capabilities []plua.Capability
}

// Runner executes scripts with the ks API bound to one editor context.
type Runner struct {
	state *plua.State
	exec  *plua.Executor
	names []string

	cancel context.CancelFunc
	once   sync.Once
}

// NewRunner builds the Lua state, grants capabilities, injects the API and
// starts the executor.
func NewRunner(ctx *api.Context, opts Options) (*Runner, error) {
	stateOpts := []plua.StateOption{}
	if opts.Timeout > 0 {
		stateOpts = append(stateOpts, plua.WithExecutionTimeout(opts.Timeout))
	}
	if opts.Output != nil {
		stateOpts = append(stateOpts, plua.WithOutput(opts.Output))
	}

	state, err := plua.NewState(stateOpts...)
	if err != nil {
		return nil, err
	}
	for _, c := range opts.Capabilities {
		state.Sandbox().Grant(c)
	}

	reg, err := api.DefaultRegistry(ctx)
	if err != nil {
		state.Close()
		return nil, err
	}
	if err := reg.InjectAll(state); err != nil {
		state.Close()
		return nil, fmt.Errorf("inject api: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		state:  state,
		exec:   plua.NewExecutor(state, 16),
		names:  reg.List(),
		cancel: cancel,
	}
	go r.exec.Run(runCtx)
	return r, nil
}

// Modules returns the registered API module names.
func (r *Runner) Modules() []string {
	return r.names
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	err := r.do(ctx, func(s *plua.State) error {
		return s.DoFile(ctx, path)
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return nil
}

// RunString executes code.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.do(ctx, func(s *plua.State) error {
		return s.DoString(ctx, code)
	})
}

func (r *Runner) do(ctx context.Context, fn func(*plua.State) error) error {
	if r.exec.IsClosed() {
		return ErrRunnerClosed
	}
	return r.exec.Execute(ctx, fn)
}

// Close stops the executor and releases the Lua state.
func (r *Runner) Close() error {
	var err error
	r.once.Do(func() {
		r.exec.Close()
		r.cancel()
		err = r.state.Close()
	})
	return err
}
