package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
)

func TestCreate(t *testing.T) {
	cmd := Create(&handlers.Global{})

	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.Contains(t, cmd.Long, "ipv4-node")
	assert.NotNil(t, cmd.RunE)
}

func TestCreate_FlagDefaults(t *testing.T) {
	cmd := Create(&handlers.Global{})

	tests := map[string]string{
		"slice-name":    "",
		"ssh-key":       "",
		"lease-days":    "5",
		"site":          "WASH",
		"image":         "default_ubuntu_20",
		"flavor":        "default",
		"spec":          "",
		"poll-interval": "0s",
		"timeout":       "0s",
		"metrics-file":  "",
	}
	for name, def := range tests {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s should exist", name)
		assert.Equal(t, def, flag.DefValue, "default of %s", name)
	}
}

func TestCreate_RejectsNonIntegerLeaseDays(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"create", "--slice-name", "demo", "--ssh-key", "ops-key", "--lease-days", "five"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lease-days")
}

func TestCreate_SSHKeyRequired(t *testing.T) {
	cmd := Create(&handlers.Global{})

	flag := cmd.Flags().Lookup("ssh-key")
	require.NotNil(t, flag)
	_, required := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
	assert.True(t, required)

	root := Root()
	root.SetArgs([]string{"create", "--slice-name", "demo", "--backend", "simulated"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "ssh-key" not set`)
}
