package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

// New builds the lusiacal root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lusiacal",
		Short: base.Wrap80("Studio session calendar on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches every subcommand to the root.
func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAgenda(topLevel)
	addVersion(topLevel)
}
