package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/config"
	"github.com/depshift/depshift/domain"
	updaterPkg "github.com/depshift/depshift/infrastructure/updater"
)

// UpdateService orchestrates the ecosystem updaters: select -> detect ->
// update -> aggregate. Updaters share no state and own disjoint files, so
// they run sequentially here purely for predictable log output.
type UpdateService struct {
	registry *updaterPkg.Registry
}

// NewUpdateService creates a new service with the given registry.
func NewUpdateService(registry *updaterPkg.Registry) *UpdateService {
	return &UpdateService{registry: registry}
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun      bool
	Verbose     bool
	UpdaterName string // If set, only run this updater (CLI override)
}

// Run executes every enabled updater against its configured directory and
// returns one uniform result per updater that ran. Individual updater
// failures land in their results; Run itself only reports them.
func (s *UpdateService) Run(
	ctx context.Context,
	cfg *config.Config,
	runOpts RunOptions,
) []domain.UpdateResult {
	if runOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	var results []domain.UpdateResult

	for _, u := range s.registry.All() {
		if runOpts.UpdaterName != "" && u.Name() != runOpts.UpdaterName {
			continue
		}

		updaterCfg, configured := cfg.Updaters[u.Name()]
		if configured && !updaterCfg.Enabled {
			logger.Debugf("[%s] Disabled in config, skipping", u.Name())
			continue
		}

		targetPath := cfg.Workspace
		if updaterCfg.Path != "" {
			targetPath = filepath.Join(cfg.Workspace, updaterCfg.Path)
		}

		if !u.Detect(targetPath) {
			logger.Debugf("[%s] Not detected in %s, skipping", u.Name(), targetPath)
			continue
		}

		logger.Infof("[%s] Updating %s", u.Name(), targetPath)

		result := u.Update(ctx, targetPath, domain.UpdateOptions{
			DryRun:  runOpts.DryRun,
			Verbose: runOpts.Verbose,
		})
		logResult(u.Name(), result)
		results = append(results, result)
	}

	return results
}

// logResult prints the per-updater summary lines.
func logResult(name string, result domain.UpdateResult) {
	if !result.Success {
		logger.Errorf("[%s] Failed: %s", name, result.Error)
		return
	}

	if len(result.Updates) == 0 {
		logger.Infof("[%s] Already up to date", name)
		return
	}

	logger.Infof("[%s] %d package(s) updated:", name, len(result.Updates))
	for _, update := range result.Updates {
		logger.Infof("  %s: %s -> %s (%s)", update.Name, update.FromVersion, update.ToVersion, update.UpdateType)
	}
}

// BuildChangelogEntries renders one changelog bullet per detected update
// across all successful results, in result order.
func BuildChangelogEntries(results []domain.UpdateResult) []string {
	var entries []string
	for _, result := range results {
		if !result.Success {
			continue
		}
		for _, update := range result.Updates {
			entries = append(entries, fmt.Sprintf(
				"- changed `%s` from `%s` to `%s` (%s)",
				update.Name, update.FromVersion, update.ToVersion, update.Ecosystem,
			))
		}
	}
	return entries
}

// UpdateChangelog inserts the detected updates into the workspace's
// CHANGELOG.md. Best-effort: a missing or unwritable changelog is a warning,
// never a failure of the run itself.
func UpdateChangelog(workspacePath string, results []domain.UpdateResult) {
	entries := BuildChangelogEntries(results)
	if len(entries) == 0 {
		return
	}

	changelogPath := filepath.Join(workspacePath, "CHANGELOG.md")
	content, err := os.ReadFile(changelogPath)
	if err != nil {
		logger.Warnf("Skipping changelog update: %v", err)
		return
	}

	modified := domain.InsertChangelogEntries(string(content), entries)
	if modified == string(content) {
		return
	}

	if writeErr := os.WriteFile(changelogPath, []byte(modified), 0o644); writeErr != nil {
		logger.Warnf("Failed to write %s: %v", changelogPath, writeErr)
	}
}
