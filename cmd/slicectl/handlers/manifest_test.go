package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	_, out := setupHandlers(t)
	dir := t.TempDir()

	clusters := `apiVersion: v1
kind: ConfigMap
metadata:
  name: eu-cluster-config
data:
  clusters.json: '[{"name": "cluster-1", "region": "eu", "location": "Paris", "cpu_capacity": 8, "energy_bias": 0.5, "carbon_intensity": 50, "latitude": 48.8, "longitude": 2.3}]'
`
	clustersPath := filepath.Join(dir, "clusters.yaml")
	outputPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(clustersPath, []byte(clusters), 0o600))

	require.NoError(t, Manifest("", clustersPath, outputPath))
	assert.Contains(t, out.String(), "Wrote ConfigMap eu-central/centralunit-config")

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "computenode-1")
}

func TestManifest_MissingFields(t *testing.T) {
	setupHandlers(t)
	dir := t.TempDir()

	clusters := "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: c\ndata:\n  clusters.json: '[{\"name\": \"cluster-1\"}]'\n"
	clustersPath := filepath.Join(dir, "clusters.yaml")
	require.NoError(t, os.WriteFile(clustersPath, []byte(clusters), 0o600))

	err := Manifest("", clustersPath, filepath.Join(dir, "out.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
}
