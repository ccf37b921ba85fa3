package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depshift/depshift/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	configPath string
	dryRun     bool
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "depshift",
	Short: "Dependency update engine for heterogeneous ecosystems",
	Long: `A CLI tool that keeps a multi-ecosystem workspace up to date:
bun-managed JavaScript dependencies, devenv-managed Nix flake inputs,
nvfetcher-pinned overlay sources, and the Expo SDK's bundled dependency
matrix mirrored into a version-constraint file.

Each ecosystem run produces one uniform result: which packages changed,
from which version to which, and how severe the jump is.`,
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}

// loadConfig resolves the configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create depshift.yaml",
				err,
			)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
