// Package bun updates npm-compatible dependencies in bun-managed workspaces.
package bun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/domain"
)

const updaterName = "bun"

// Updater implements domain.Updater for bun workspaces. It runs "bun update"
// and extracts what actually changed from a git diff of the manifest files,
// falling back to bun's own stdout when no diff is obtainable.
type Updater struct {
	runner domain.CommandRunner
}

// New creates a new bun updater.
func New(runner domain.CommandRunner) domain.Updater {
	return &Updater{runner: runner}
}

func (u *Updater) Name() string { return updaterName }

func (u *Updater) Ecosystem() domain.Ecosystem { return domain.EcosystemNPM }

// Detect returns true if the directory has a package.json file.
func (u *Updater) Detect(targetPath string) bool {
	_, err := os.Stat(filepath.Join(targetPath, "package.json"))
	return err == nil
}

// Update runs "bun update" in targetPath and reports the resulting version
// changes. Only the primary tool invocation and the final extraction are
// result-determining; the lock resync and the constraint-fix pass are
// best-effort.
func (u *Updater) Update(
	ctx context.Context,
	targetPath string,
	opts domain.UpdateOptions,
) domain.UpdateResult {
	if opts.DryRun {
		return u.dryRun(ctx, targetPath)
	}

	output, err := u.runner.Run(ctx, targetPath, "bun", "update")
	if err != nil {
		return domain.FailureResult(
			domain.EcosystemNPM,
			fmt.Sprintf("bun update failed: %v\nOutput:\n%s", err, output),
		)
	}

	u.resyncLockfile(ctx, targetPath)
	u.fixConstraintMismatches(ctx, targetPath)

	return domain.SuccessResult(domain.EcosystemNPM, u.extractUpdates(ctx, targetPath, output))
}

// dryRun probes for available updates without committing anything to disk.
// Bun's install machinery honors --dry-run, so the probe itself is free of
// side effects and the log output is the only available source.
func (u *Updater) dryRun(ctx context.Context, targetPath string) domain.UpdateResult {
	logger.Infof("[bun] [DRY RUN] Probing available updates in %s", targetPath)

	output, err := u.runner.Run(ctx, targetPath, "bun", "update", "--dry-run")
	if err != nil {
		return domain.FailureResult(
			domain.EcosystemNPM,
			fmt.Sprintf("bun update --dry-run failed: %v\nOutput:\n%s", err, output),
		)
	}

	return domain.SuccessResult(domain.EcosystemNPM, extractLogUpdates(output))
}

// resyncLockfile re-runs the install step so the lockfile matches the
// updated manifests. Best-effort: a failure here does not invalidate the
// update itself.
func (u *Updater) resyncLockfile(ctx context.Context, targetPath string) {
	if output, err := u.runner.Run(ctx, targetPath, "bun", "install"); err != nil {
		logger.Warnf("[bun] Lockfile resync failed (continuing): %v\n%s", err, output)
	}
}

// fixConstraintMismatches realigns version ranges across workspace manifests.
// Best-effort for the same reason as the lock resync.
func (u *Updater) fixConstraintMismatches(ctx context.Context, targetPath string) {
	if output, err := u.runner.Run(ctx, targetPath, "bunx", "syncpack", "fix-mismatches"); err != nil {
		logger.Warnf("[bun] syncpack fix-mismatches failed (continuing): %v\n%s", err, output)
	}
}

// extractUpdates prefers a git diff of the manifest files at the workspace
// root and up to two directory levels below it; bun's stdout log is the
// documented fallback of last resort.
func (u *Updater) extractUpdates(
	ctx context.Context,
	targetPath string,
	updateOutput string,
) []domain.PackageUpdate {
	diff, err := u.runner.Run(
		ctx, targetPath,
		"git", "diff", "--",
		"package.json", "*/package.json", "*/*/package.json",
	)
	if err != nil {
		logger.Warnf("[bun] Failed to diff manifests, falling back to bun output: %v", err)
		return extractLogUpdates(updateOutput)
	}

	return extractManifestDiffUpdates(diff)
}
