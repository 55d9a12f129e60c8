// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/adrianoanschau/create-phobos/internal/catalog"
	"github.com/adrianoanschau/create-phobos/internal/report"
)

type (
	// Runner executes shell commands in a project directory.
	Runner struct {
		env      []string
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		handlers []func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc
		logger   *log.Logger
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)
)

// WithStdIO sets the streams commands inherit.
func WithStdIO(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv replaces the environment (KEY=value pairs) commands run with.
func WithEnv(env []string) RunnerOption {
	return func(r *Runner) {
		r.env = env
	}
}

// WithExecHandlers installs interpreter middlewares in front of the default
// exec handler.
func WithExecHandlers(handlers ...func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc) RunnerOption {
	return func(r *Runner) {
		r.handlers = append(r.handlers, handlers...)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner. Without options it inherits the process
// environment and discards output.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		env:    os.Environ(),
		stdout: io.Discard,
		stderr: io.Discard,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run parses command as a POSIX shell program and runs it with dir as the
// working directory.
func (r *Runner) Run(ctx context.Context, dir, command string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(r.env...)),
		interp.StdIO(r.stdin, r.stdout, r.stderr),
	}
	if len(r.handlers) > 0 {
		opts = append(opts, interp.ExecHandlers(r.handlers...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	r.logger.Debug("running", "dir", dir, "command", command)
	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("%s exited with status %d", command, int(exitStatus))
		}
		return fmt.Errorf("%s failed: %w", command, err)
	}
	return nil
}

// Install runs "<manager> install" in dir.
func (r *Runner) Install(ctx context.Context, dir string, m Manager) report.Item {
	return r.item(ctx, "", dir, m.InstallCommand())
}

// PostInstall runs the post-install commands of each descriptor in order.
// A failing command does not stop the following ones.
func (r *Runner) PostInstall(ctx context.Context, dir string, descs ...catalog.Descriptor) *report.Report {
	rep := &report.Report{}
	for _, d := range descs {
		for _, command := range d.PostInstall {
			rep.Add(r.item(ctx, d.Key, dir, command))
		}
	}
	return rep
}

func (r *Runner) item(ctx context.Context, module, dir, command string) report.Item {
	it := report.Item{Component: report.ComponentInstall, Module: module, Path: command}
	if err := r.Run(ctx, dir, command); err != nil {
		it.Outcome = report.OutcomeFailed
		it.Detail = fmt.Sprintf("%v; run it manually: cd %s && %s", err, dir, command)
		return it
	}
	it.Outcome = report.OutcomeApplied
	return it
}
