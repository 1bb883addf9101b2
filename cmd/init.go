package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/rulegen/internal/scaffold"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rulegen configuration and a starter prompt",
		Long: `Creates a default rulegen.config.yml plus a starter prompt definition and
fragment in the source directory.

This command provides a starting point you fully own and can modify as
needed. It will not overwrite existing files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.Init(getLogger())
		},
	}

	return cmd
}
