package cmd

import (
	"github.com/spf13/cobra"

	"github.com/depshift/depshift/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var updaterName string

//nolint:gochecknoglobals // required by cobra CLI pattern
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the ecosystem updaters against the workspace",
	Long: `Runs every enabled updater that detects its ecosystem in the
configured workspace. Each updater reports one uniform result: the packages
that changed, their before/after versions, and the severity of each jump.

With --dry-run, updaters report what would change without mutating any
manifest or lockfile.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		service := injectUpdateService()
		results := service.Run(cmd.Context(), cfg, application.RunOptions{
			DryRun:      dryRun,
			Verbose:     verbose,
			UpdaterName: updaterName,
		})

		if !dryRun {
			application.UpdateChangelog(cfg.Workspace, results)
		}

		return nil
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	updateCmd.Flags().StringVarP(&updaterName, "updater", "u", "",
		"Run only the named updater (default: all detected)")
	rootCmd.AddCommand(updateCmd)
}
