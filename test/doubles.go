// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"
	"strings"

	"github.com/depshift/depshift/domain"
)

// ---------------------------------------------------------------------------
// SpyRunner
// ---------------------------------------------------------------------------

// ScriptedCall records one command execution observed by the spy.
type ScriptedCall struct {
	Dir      string
	Name     string
	Args     []string
	ExtraEnv []string
}

// Command renders the call the way Script keys are written.
func (c ScriptedCall) Command() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// SpyRunner implements domain.CommandRunner as a configurable spy.
// Script maps a full command line ("bun update --dry-run") to its stdout;
// Errors maps a command line to the error it should fail with. Every call
// is recorded in Calls regardless of outcome.
type SpyRunner struct {
	Script map[string]string
	Errors map[string]error

	// --- LookPath ---
	MissingBinaries map[string]bool

	// spy: every execution observed, in order
	Calls []ScriptedCall
}

var _ domain.CommandRunner = (*SpyRunner)(nil)

func (r *SpyRunner) Run(
	_ context.Context,
	dir string,
	name string,
	args ...string,
) (string, error) {
	return r.record(dir, nil, name, args)
}

func (r *SpyRunner) RunWithEnv(
	_ context.Context,
	dir string,
	extraEnv []string,
	name string,
	args ...string,
) (string, error) {
	return r.record(dir, extraEnv, name, args)
}

func (r *SpyRunner) LookPath(name string) (string, error) {
	if r.MissingBinaries != nil && r.MissingBinaries[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

func (r *SpyRunner) record(dir string, extraEnv []string, name string, args []string) (string, error) {
	call := ScriptedCall{Dir: dir, Name: name, Args: args, ExtraEnv: extraEnv}
	r.Calls = append(r.Calls, call)

	key := call.Command()
	if r.Errors != nil {
		if err, ok := r.Errors[key]; ok {
			return "", err
		}
	}
	if r.Script != nil {
		if out, ok := r.Script[key]; ok {
			return out, nil
		}
	}
	return "", nil
}

// CommandLines returns every recorded call rendered as a command line,
// in execution order.
func (r *SpyRunner) CommandLines() []string {
	lines := make([]string, 0, len(r.Calls))
	for _, call := range r.Calls {
		lines = append(lines, call.Command())
	}
	return lines
}

// ---------------------------------------------------------------------------
// SpyUpdater
// ---------------------------------------------------------------------------

// SpyUpdater implements domain.Updater as a configurable spy.
type SpyUpdater struct {
	UpdaterName      string
	UpdaterEcosystem domain.Ecosystem
	Detected         bool
	Result           domain.UpdateResult

	// spy: inputs received
	DetectedPaths []string
	UpdatedPaths  []string
	ReceivedOpts  []domain.UpdateOptions
}

var _ domain.Updater = (*SpyUpdater)(nil)

func (u *SpyUpdater) Name() string { return u.UpdaterName }

func (u *SpyUpdater) Ecosystem() domain.Ecosystem { return u.UpdaterEcosystem }

func (u *SpyUpdater) Detect(targetPath string) bool {
	u.DetectedPaths = append(u.DetectedPaths, targetPath)
	return u.Detected
}

func (u *SpyUpdater) Update(
	_ context.Context,
	targetPath string,
	opts domain.UpdateOptions,
) domain.UpdateResult {
	u.UpdatedPaths = append(u.UpdatedPaths, targetPath)
	u.ReceivedOpts = append(u.ReceivedOpts, opts)
	return u.Result
}
