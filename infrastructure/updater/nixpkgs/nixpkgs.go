// Package nixpkgs updates Nix overlay sources pinned by nvfetcher.
package nixpkgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/domain"
	"github.com/depshift/depshift/infrastructure/gitx"
)

const (
	updaterName = "nixpkgs"
	toolName    = "nvfetcher"
	sourcesDir  = "_sources"

	// namePrefix disambiguates overlay packages from same-named
	// dependencies in other ecosystems.
	namePrefix = "nixpkgs-"
)

// tokenEnvVars are the variable names checked, in order, for a GitHub access
// token forwarded to nvfetcher for API rate-limit relief.
var tokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// Updater implements domain.Updater for nvfetcher-pinned overlay sources.
// nvfetcher rewrites _sources/generated.json in place, so that file is
// snapshotted before and after the run. nvfetcher has no dry-run mode
// either: a dry run performs a forced probe and then restores the generated
// sources from version control.
type Updater struct {
	runner domain.CommandRunner

	// restore reverts the generated-sources directory after a dry-run
	// probe. Overridable in tests; defaults to gitx.RestoreDir.
	restore func(repoPath, dir string) error
}

// New creates a new nixpkgs updater.
func New(runner domain.CommandRunner) domain.Updater {
	return &Updater{
		runner:  runner,
		restore: gitx.RestoreDir,
	}
}

func (u *Updater) Name() string { return updaterName }

func (u *Updater) Ecosystem() domain.Ecosystem { return domain.EcosystemNixpkgs }

// Detect returns true if the directory has an nvfetcher.toml manifest.
func (u *Updater) Detect(targetPath string) bool {
	_, err := os.Stat(filepath.Join(targetPath, "nvfetcher.toml"))
	return err == nil
}

// Update runs nvfetcher in targetPath and reports every pinned source whose
// version changed. After a real run, each changed package gets a sequential
// best-effort verification build; build failures are warnings, never fatal.
func (u *Updater) Update(
	ctx context.Context,
	targetPath string,
	opts domain.UpdateOptions,
) domain.UpdateResult {
	if _, err := u.runner.LookPath(toolName); err != nil {
		return domain.FailureResult(
			domain.EcosystemNixpkgs,
			fmt.Sprintf("%s is not available on PATH, skipping overlay update", toolName),
		)
	}

	sourcesFile := filepath.Join(targetPath, sourcesDir, "generated.json")
	before := readSourcesSnapshot(sourcesFile)

	output, err := u.runner.RunWithEnv(ctx, targetPath, tokenEnv(), toolName)
	after := readSourcesSnapshot(sourcesFile)

	if opts.DryRun {
		// a failed run may still have rewritten the generated sources,
		// so the revert happens before the error check
		logger.Infof("[nixpkgs] [DRY RUN] Reverting generated sources in %s", targetPath)
		if restoreErr := u.restore(targetPath, sourcesDir); restoreErr != nil {
			logger.Warnf("[nixpkgs] Failed to revert %s: %v", sourcesDir, restoreErr)
		}
	}

	if err != nil {
		return domain.FailureResult(
			domain.EcosystemNixpkgs,
			fmt.Sprintf("%s failed: %v\nOutput:\n%s", toolName, err, output),
		)
	}

	updates := domain.DiffSnapshots(before, after, domain.EcosystemNixpkgs)
	for i := range updates {
		updates[i].Name = namePrefix + updates[i].Name
	}

	if opts.DryRun {
		return domain.SuccessResult(domain.EcosystemNixpkgs, updates)
	}

	u.verifyBuilds(ctx, targetPath, updates)

	return domain.SuccessResult(domain.EcosystemNixpkgs, updates)
}

// verifyBuilds builds each changed package once, one at a time, so that
// resource-heavy Nix builds do not overcommit the host.
func (u *Updater) verifyBuilds(ctx context.Context, targetPath string, updates []domain.PackageUpdate) {
	for _, update := range updates {
		pkg := strings.TrimPrefix(update.Name, namePrefix)
		logger.Infof("[nixpkgs] Verifying build of %s %s", pkg, update.ToVersion)

		output, err := u.runner.Run(ctx, targetPath, "nix", "build", ".#"+pkg, "--no-link")
		if err != nil {
			logger.Warnf("[nixpkgs] Build verification failed for %s (continuing): %v\n%s", pkg, err, output)
		}
	}
}

// readSourcesSnapshot reads nvfetcher's generated.json into a package ->
// version mapping, with the same degradation rules as the other lock-style
// snapshots: absence is empty, anything else noisy-but-empty.
func readSourcesSnapshot(path string) domain.Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("[nixpkgs] Failed to read %s: %v", path, err)
		}
		return domain.Snapshot{}
	}

	var sources map[string]struct {
		Version string `json:"version"`
	}
	if unmarshalErr := json.Unmarshal(data, &sources); unmarshalErr != nil {
		logger.Warnf("[nixpkgs] Failed to parse %s: %v", path, unmarshalErr)
		return domain.Snapshot{}
	}

	snapshot := make(domain.Snapshot, len(sources))
	for name, src := range sources {
		if src.Version == "" {
			continue
		}
		snapshot[name] = src.Version
	}

	return snapshot
}

// tokenEnv forwards a GitHub token to nvfetcher when one is configured,
// checking the conventional variable names in order.
func tokenEnv() []string {
	for _, name := range tokenEnvVars {
		if token := os.Getenv(name); token != "" {
			return []string{"GITHUB_TOKEN=" + token}
		}
	}
	return nil
}
