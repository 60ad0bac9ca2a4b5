// Package commands defines the smartmcq cobra commands.
package commands

import "github.com/spf13/cobra"

// configPath is the --config flag shared by every subcommand.
var configPath string

// Root returns the root command for the smartmcq CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "smartmcq",
		Short:         "Author and serve multiple-choice tests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./smartmcq.yaml when present)")

	cmd.AddCommand(Serve())
	cmd.AddCommand(Author())
	cmd.AddCommand(User())
	cmd.AddCommand(Version())

	return cmd
}
