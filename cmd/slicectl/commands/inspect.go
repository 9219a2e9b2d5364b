package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

// Inspect returns the inspect command.
func Inspect(global *handlers.Global) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the nodes and networks of a slice",
		Long: `Inspect looks up a slice by name and prints its nodes and networks.

A slice that does not exist exits with the NotFound exit code (4).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Inspect(cmd.Context(), *global, name)
		},
	}

	cmd.Flags().StringVar(&name, "slice-name", "", "Name of the slice (required)")
	_ = cmd.MarkFlagRequired("slice-name")

	return cmd
}
