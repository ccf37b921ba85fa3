package domain

// Ecosystem identifies a dependency-management domain with its own update
// tool and version semantics.
type Ecosystem string

const (
	// EcosystemNPM covers npm-compatible registries (bun-managed workspaces).
	EcosystemNPM Ecosystem = "npm"
	// EcosystemNix covers Nix flake inputs managed through devenv.
	EcosystemNix Ecosystem = "nix"
	// EcosystemNixpkgs covers Nix overlay sources pinned by nvfetcher.
	EcosystemNixpkgs Ecosystem = "nixpkgs"
	// EcosystemExpo covers the managed Expo SDK version-constraint file.
	EcosystemExpo Ecosystem = "expo"
)

// UpdateType classifies the magnitude of a version change.
type UpdateType string

const (
	UpdateTypeMajor   UpdateType = "major"
	UpdateTypeMinor   UpdateType = "minor"
	UpdateTypePatch   UpdateType = "patch"
	UpdateTypeUnknown UpdateType = "unknown"
)

// PackageUpdate is one detected version change. Instances are constructed
// only by updaters and the diff/snapshot extractors, never mutated afterwards,
// and always satisfy FromVersion != ToVersion.
type PackageUpdate struct {
	Name            string     // Ecosystem-scoped identifier (may be prefixed, e.g. "nixpkgs-jq")
	FromVersion     string     // Previous version or revision
	ToVersion       string     // New version or revision
	UpdateType      UpdateType
	Ecosystem       Ecosystem
	Changelog       string   // Optional release notes, filled by the reporting layer
	BreakingChanges []string // Optional breaking-change notes, filled by the reporting layer
}

// UpdateResult is the uniform outcome of one ecosystem run. Every updater
// returns this shape regardless of where it failed internally.
// Success == false implies Updates is empty.
type UpdateResult struct {
	Ecosystem Ecosystem
	Success   bool
	Updates   []PackageUpdate
	Error     string // Human-readable cause, set only when Success is false
}

// SuccessResult builds a successful result. An empty update list is a valid
// success (nothing to update).
func SuccessResult(eco Ecosystem, updates []PackageUpdate) UpdateResult {
	return UpdateResult{
		Ecosystem: eco,
		Success:   true,
		Updates:   updates,
	}
}

// FailureResult builds a failed result with no updates.
func FailureResult(eco Ecosystem, errMsg string) UpdateResult {
	return UpdateResult{
		Ecosystem: eco,
		Success:   false,
		Error:     errMsg,
	}
}

// UpdateOptions holds runtime options passed to updaters.
type UpdateOptions struct {
	DryRun  bool
	Verbose bool
}
