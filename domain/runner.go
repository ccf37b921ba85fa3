package domain

import "context"

// CommandRunner abstracts external process invocation so that updaters can
// be exercised in tests without the real tools installed. Implementations
// must bound each invocation by the passed context.
type CommandRunner interface {
	// Run executes a command in dir and returns its combined output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)

	// RunWithEnv executes a command in dir with extra KEY=VALUE pairs
	// appended to the inherited environment.
	RunWithEnv(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (string, error)

	// LookPath reports where the named executable resolves on PATH,
	// or an error when it is not installed.
	LookPath(name string) (string, error)
}
