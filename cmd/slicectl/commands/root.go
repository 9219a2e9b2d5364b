// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

// Root returns the root command for the slicectl CLI.
//
// Errors are not printed by cobra; main formats them with their error kind
// and maps them to an exit code.
func Root() *cobra.Command {
	var global handlers.Global

	cmd := &cobra.Command{
		Use:           "slicectl",
		Short:         "Provision networked testbed slices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&global.Backend, "backend", "",
		"Provisioning backend: simulated or hcloud (default from $"+handlers.EnvBackend+", else simulated)")
	cmd.PersistentFlags().CountVarP(&global.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(Create(&global))
	cmd.AddCommand(Inspect(&global))
	cmd.AddCommand(Destroy(&global))
	cmd.AddCommand(Manifest())
	cmd.AddCommand(Version())

	return cmd
}
