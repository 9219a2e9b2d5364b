package handlers

import (
	"fmt"

	"github.com/imamik/slicectl/internal/manifest"
)

// Manifest handles the manifest command.
func Manifest(templatePath, clustersPath, outputPath string) error {
	cm, err := manifest.Regenerate(templatePath, clustersPath, outputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote ConfigMap %s/%s to %s\n", cm.Namespace, cm.Name, outputPath)
	return nil
}
