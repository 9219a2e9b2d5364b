package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

// Manifest returns the manifest command.
func Manifest() *cobra.Command {
	var templatePath, clustersPath, outputPath string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate the central unit ConfigMap from a cluster topology",
		Long: `Manifest reads the cluster list from the "clusters.json" key of a topology
ConfigMap and writes a ConfigMap whose "config.json" lists one compute node
per cluster. Name, namespace and labels come from the template ConfigMap;
without --template the ConfigMap is named centralunit-config in namespace
eu-central.

Example:
  slicectl manifest --template centralunit-configmap.yaml \
    --clusters eu-cluster-configmap.yaml --output centralunit-updated-configmap.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Manifest(templatePath, clustersPath, outputPath)
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the template ConfigMap")
	cmd.Flags().StringVar(&clustersPath, "clusters", "", "Path to the topology ConfigMap (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the generated ConfigMap (required)")
	_ = cmd.MarkFlagRequired("clusters")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
