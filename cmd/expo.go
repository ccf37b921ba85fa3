package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/depshift/depshift/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var expoCmd = &cobra.Command{
	Use:   "expo",
	Short: "Sync the Expo SDK's bundled dependency matrix into the constraint file",
	Long: `Resolves the recommended package versions for the target Expo SDK
(the configured pin, or the latest published release) and reconciles them
into the workspace's version-constraint document so a constraint checker can
enforce them across every manifest in the workspace.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		service := injectExpoService()
		result := service.Sync(cmd.Context(), cfg, domain.UpdateOptions{
			DryRun:  dryRun,
			Verbose: verbose,
		})

		if !result.Success {
			return errors.New(result.Error)
		}

		return nil
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(expoCmd)
}
