package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/internal/slice"
)

var loadTime = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

const fullSpec = `
name: edge-lab
nodes:
  - name: n1
    site: WASH
    image: default_ubuntu_22
    flavor: default
    ssh_keys: [portal-key]
    components:
      - name: nic1
        model: NIC_Basic
  - name: n2
    site: STAR
    image: default_ubuntu_22
    sizing:
      cpu: 4
      ram_gb: 16
      disk_gb: 100
    components:
      - name: nic1
        model: NIC_Basic
networks:
  - name: lan
    type: l2-private
    interfaces: [n1/nic1, n2/nic1]
lease:
  start: 2026-10-18T00:00:00Z
  end: 2026-10-23T00:00:00Z
`

func TestLoadSpecFromBytes_Full(t *testing.T) {
	t.Parallel()
	spec, err := LoadSpecFromBytes([]byte(fullSpec), loadTime)
	require.NoError(t, err)

	assert.Equal(t, "edge-lab", spec.Name)
	require.Len(t, spec.Nodes, 2)
	assert.Equal(t, []string{"portal-key"}, spec.Nodes[0].SSHKeys)
	require.NotNil(t, spec.Nodes[1].Sizing)
	assert.Equal(t, 16, spec.Nodes[1].Sizing.RAMGB)
	require.Len(t, spec.Networks, 1)
	assert.Equal(t, slice.NetworkL2Private, spec.Networks[0].Type)
	require.NotNil(t, spec.Lease)
	assert.Equal(t, 5*24*time.Hour, spec.Lease.Duration())
}

func TestLoadSpecFromBytes_LeaseDays(t *testing.T) {
	t.Parallel()
	data := []byte(`
name: s1
lease_days: 3
nodes:
  - {name: n1, site: X, image: img1}
`)
	spec, err := LoadSpecFromBytes(data, loadTime)
	require.NoError(t, err)

	require.NotNil(t, spec.Lease)
	assert.True(t, spec.Lease.Start.Equal(loadTime))
	assert.Equal(t, 3*24*time.Hour, spec.Lease.Duration())
	assert.Empty(t, spec.Networks)
}

func TestLoadSpecFromBytes_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "spec file is empty"},
		{"unknown field", "name: s1\nnodez: []\n", "nodez"},
		{"negative lease days", "name: s1\nlease_days: -1\nnodes: [{name: n1, site: X, image: i}]\n", "lease_days must be positive"},
		{"both lease forms", "name: s1\nlease_days: 2\nlease: {start: 2026-01-01T00:00:00Z, end: 2026-01-02T00:00:00Z}\nnodes: [{name: n1, site: X, image: i}]\n", "mutually exclusive"},
		{"dangling interface", "name: s1\nnodes: [{name: n1, site: X, image: i}]\nnetworks: [{name: net, type: l3-public, interfaces: [n2/nic]}]\n", "undeclared node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadSpecFromBytes([]byte(tt.data), loadTime)
			require.Error(t, err)
			assert.True(t, errors.Is(err, slice.ErrValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSpec_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "slice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullSpec), 0o600))

	spec, err := LoadSpec(path, loadTime)
	require.NoError(t, err)
	assert.Equal(t, "edge-lab", spec.Name)

	_, err = LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"), loadTime)
	assert.ErrorContains(t, err, "failed to read spec file")
}

func TestDefaultSpec(t *testing.T) {
	t.Parallel()
	spec := DefaultSpec("s1", "portal-key", DefaultLeaseDays, NodeOverrides{}, loadTime)

	require.NoError(t, spec.Validate())
	require.Len(t, spec.Nodes, 1)
	n := spec.Nodes[0]
	assert.Equal(t, DefaultNodeName, n.Name)
	assert.Equal(t, DefaultSite, n.Site)
	assert.Equal(t, DefaultImage, n.Image)
	assert.Equal(t, DefaultFlavor, n.Flavor)
	assert.Equal(t, []string{"portal-key"}, n.SSHKeys)
	require.Len(t, spec.Networks, 1)
	assert.Equal(t, slice.NetworkL3Public, spec.Networks[0].Type)
	assert.Equal(t, []string{"ipv4-node/shared-nic"}, spec.Networks[0].Interfaces)
	assert.Equal(t, 5*24*time.Hour, spec.Lease.Duration())
}

func TestDefaultSpec_Overrides(t *testing.T) {
	t.Parallel()
	spec := DefaultSpec("s1", "", 1, NodeOverrides{Site: "nbg1", Image: "ubuntu-24.04", Flavor: "cx22"}, loadTime)

	n := spec.Nodes[0]
	assert.Equal(t, "nbg1", n.Site)
	assert.Equal(t, "ubuntu-24.04", n.Image)
	assert.Equal(t, "cx22", n.Flavor)
	assert.Nil(t, n.SSHKeys)
}
