package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available updaters",
	Run: func(cmd *cobra.Command, _ []string) {
		registry := injectRegistry()
		for _, u := range registry.All() {
			cmd.Printf("%s (%s)\n", u.Name(), u.Ecosystem())
		}
	},
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(listCmd)
}
