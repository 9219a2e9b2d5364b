package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

// Destroy returns the destroy command.
//
// Destroying a slice that no longer exists succeeds.
func Destroy(global *handlers.Global) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Release a slice and all of its resources",
		Long: `Destroy releases every node and network of a slice.

Running destroy again, or for a slice that does not exist, succeeds.

Example:
  slicectl destroy --slice-name demo --backend hcloud

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), *global, name)
		},
	}

	cmd.Flags().StringVar(&name, "slice-name", "", "Name of the slice (required)")
	_ = cmd.MarkFlagRequired("slice-name")

	return cmd
}
