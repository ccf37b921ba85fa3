// Package command provides the exec-based implementation of
// domain.CommandRunner used by all ecosystem updaters.
package command

import (
	"context"
	"os"
	"os/exec"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/domain"
)

// ExecRunner runs external tools through os/exec. Each invocation inherits
// the process environment and is bound by the caller's context.
type ExecRunner struct{}

// NewExecRunner creates the default command runner.
func NewExecRunner() domain.CommandRunner {
	return &ExecRunner{}
}

var _ domain.CommandRunner = (*ExecRunner)(nil)

// Run executes a command in dir and returns its combined output. The output
// is returned even on failure so callers can salvage partial results.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	return r.RunWithEnv(ctx, dir, nil, name, args...)
}

// RunWithEnv executes a command in dir with extra KEY=VALUE pairs appended
// to the inherited environment.
func (r *ExecRunner) RunWithEnv(
	ctx context.Context,
	dir string,
	extraEnv []string,
	name string,
	args ...string,
) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), extraEnv...)

	logger.Debugf("Running %s %v in %s", name, args, dir)

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// LookPath resolves the named executable on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
