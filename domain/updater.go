package domain

import "context"

// Updater abstracts a dependency ecosystem (bun workspaces, devenv flake
// inputs, nvfetcher-pinned overlay sources, etc.). Each implementation owns
// the full cycle for its ecosystem: invoking the external update tool,
// capturing comparable before/after state, and normalizing whatever the tool
// exposes (free-text diff, stdout log, lock-file snapshot) into the uniform
// UpdateResult shape.
type Updater interface {
	// Name returns the updater identifier (e.g. "bun", "devenv", "nixpkgs").
	Name() string

	// Ecosystem returns the ecosystem tag stamped on emitted updates.
	Ecosystem() Ecosystem

	// Detect returns true if the directory at targetPath uses this ecosystem.
	Detect(targetPath string) bool

	// Update runs the ecosystem's update tool against targetPath and returns
	// the uniform result. Expected failure modes (tool missing, non-zero
	// exit, unparsable output) are reported through the result, never as a
	// panic or Go error: the caller always receives a well-formed
	// UpdateResult.
	Update(ctx context.Context, targetPath string, opts UpdateOptions) UpdateResult
}
