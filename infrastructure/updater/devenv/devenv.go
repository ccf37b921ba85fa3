// Package devenv updates Nix flake inputs managed through devenv.
package devenv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/domain"
)

const (
	updaterName  = "devenv"
	lockFileName = "devenv.lock"
	shortRevLen  = 7
)

// Updater implements domain.Updater for devenv-managed flake inputs.
// "devenv update" has no diff-friendly output, so the lock file is
// snapshotted before and after the run and the two snapshots compared.
type Updater struct {
	runner domain.CommandRunner
}

// New creates a new devenv updater.
func New(runner domain.CommandRunner) domain.Updater {
	return &Updater{runner: runner}
}

func (u *Updater) Name() string { return updaterName }

func (u *Updater) Ecosystem() domain.Ecosystem { return domain.EcosystemNix }

// Detect returns true if the directory has a devenv.nix or devenv.lock file.
func (u *Updater) Detect(targetPath string) bool {
	for _, name := range []string{"devenv.nix", lockFileName} {
		if _, err := os.Stat(filepath.Join(targetPath, name)); err == nil {
			return true
		}
	}
	return false
}

// Update runs "devenv update" and reports every flake input whose locked
// revision changed.
func (u *Updater) Update(
	ctx context.Context,
	targetPath string,
	opts domain.UpdateOptions,
) domain.UpdateResult {
	if opts.DryRun {
		// devenv update has no non-mutating mode, so nothing is observable
		// without committing the run.
		logger.Infof("[devenv] [DRY RUN] Would update flake inputs in %s", targetPath)
		return domain.SuccessResult(domain.EcosystemNix, nil)
	}

	lockPath := filepath.Join(targetPath, lockFileName)
	before := readLockSnapshot(lockPath)

	output, err := u.runner.Run(ctx, targetPath, "devenv", "update")
	if err != nil {
		return domain.FailureResult(
			domain.EcosystemNix,
			fmt.Sprintf("devenv update failed: %v\nOutput:\n%s", err, output),
		)
	}

	after := readLockSnapshot(lockPath)

	return domain.SuccessResult(domain.EcosystemNix, domain.DiffSnapshots(before, after, domain.EcosystemNix))
}

// lockFile mirrors the subset of devenv.lock (flake lock format) needed for
// snapshotting: each node exposes its pinned revision under locked.rev.
type lockFile struct {
	Nodes map[string]struct {
		Locked struct {
			Rev string `json:"rev"`
		} `json:"locked"`
	} `json:"nodes"`
}

// readLockSnapshot reads the lock file into an input-name -> short-revision
// mapping. A missing file is an expected steady state (first run) and yields
// an empty snapshot; any other read or parse failure is logged as a warning
// and also degrades to an empty snapshot.
func readLockSnapshot(path string) domain.Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("[devenv] Failed to read %s: %v", path, err)
		}
		return domain.Snapshot{}
	}

	var lock lockFile
	if unmarshalErr := json.Unmarshal(data, &lock); unmarshalErr != nil {
		logger.Warnf("[devenv] Failed to parse %s: %v", path, unmarshalErr)
		return domain.Snapshot{}
	}

	snapshot := make(domain.Snapshot, len(lock.Nodes))
	for name, node := range lock.Nodes {
		if node.Locked.Rev == "" {
			continue // the synthetic root node carries no revision
		}
		snapshot[name] = shortRev(node.Locked.Rev)
	}

	return snapshot
}

func shortRev(rev string) string {
	if len(rev) > shortRevLen {
		return rev[:shortRevLen]
	}
	return rev
}
