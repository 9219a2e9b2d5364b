package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/platform/simulated"
	"github.com/imamik/slicectl/internal/slice"
)

func defaultCreateOptions(name string) CreateOptions {
	return CreateOptions{
		Global:       Global{Backend: BackendSimulated},
		SliceName:    name,
		SSHKey:       "ops-key",
		LeaseDays:    config.DefaultLeaseDays,
		PollInterval: time.Millisecond,
		Timeout:      5 * time.Second,
	}
}

func TestCreate_DefaultSlice(t *testing.T) {
	backend, out := setupHandlers(t)

	err := Create(context.Background(), defaultCreateOptions("demo"))
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Slice demo is READY")
	assert.Contains(t, output, config.DefaultNodeName)
	assert.Contains(t, output, "ssh ubuntu@198.51.100.")
	assert.Contains(t, output, "Lease until 2026-03-06")
	assert.NotContains(t, output, "ssh -i")
	assert.Equal(t, 1, backend.Calls(simulated.CallSubmit))
}

func TestCreate_WithKeyFile(t *testing.T) {
	_, out := setupHandlers(t)
	keyPath := writePublicKey(t)

	opts := defaultCreateOptions("keyed")
	opts.SSHKey = keyPath
	require.NoError(t, Create(context.Background(), opts))

	assert.Contains(t, out.String(), "-i "+strings.TrimSuffix(keyPath, ".pub"))
}

func TestCreate_InvalidKeyFile(t *testing.T) {
	backend, _ := setupHandlers(t)

	opts := defaultCreateOptions("badkey")
	opts.SSHKey = filepath.Join(t.TempDir(), "missing.pub")
	err := Create(context.Background(), opts)

	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
	assert.Zero(t, backend.Calls(simulated.CallSubmit))
}

func TestCreate_InvalidLeaseDays(t *testing.T) {
	backend, _ := setupHandlers(t)

	for _, days := range []int{0, -3} {
		opts := defaultCreateOptions("demo")
		opts.LeaseDays = days
		err := Create(context.Background(), opts)
		require.Error(t, err)
		assert.Equal(t, ExitValidation, ExitCode(err))
		assert.Contains(t, err.Error(), "--lease-days")
	}
	assert.Zero(t, backend.Calls(simulated.CallSubmit))
}

func TestCreate_MissingName(t *testing.T) {
	setupHandlers(t)

	err := Create(context.Background(), defaultCreateOptions(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, slice.ErrValidation))
}

func TestCreate_MissingSSHKey(t *testing.T) {
	backend, out := setupHandlers(t)

	opts := defaultCreateOptions("demo")
	opts.SSHKey = ""
	err := Create(context.Background(), opts)

	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
	assert.Contains(t, err.Error(), "--ssh-key")
	assert.Zero(t, backend.Calls(simulated.CallSubmit))
	assert.Empty(t, out.String())
}

func TestCreate_InvalidNameNeverReachesBackend(t *testing.T) {
	backend, _ := setupHandlers(t)

	err := Create(context.Background(), defaultCreateOptions("Not A Label"))
	require.Error(t, err)
	assert.Equal(t, ExitValidation, ExitCode(err))
	assert.Zero(t, backend.Calls(simulated.CallSubmit))
}

func TestCreate_SubmitUnavailable(t *testing.T) {
	backend, _ := setupHandlers(t)
	backend.FailSubmit(slice.Unavailable("submit", errors.New("connection refused")))

	err := Create(context.Background(), defaultCreateOptions("demo"))
	require.Error(t, err)
	assert.Equal(t, ExitBackendUnavailable, ExitCode(err))
}

func TestCreate_NodeError(t *testing.T) {
	backend, _ := setupHandlers(t)
	backend.FailNode("broken", config.DefaultNodeName, "hardware fault")

	err := Create(context.Background(), defaultCreateOptions("broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hardware fault")
	assert.Equal(t, ExitError, ExitCode(err))
}

func TestCreate_Timeout(t *testing.T) {
	setupHandlers(t, simulated.WithReadyAfter(1_000_000))

	opts := defaultCreateOptions("slow")
	opts.Timeout = 20 * time.Millisecond
	err := Create(context.Background(), opts)

	require.Error(t, err)
	assert.Equal(t, ExitTimeout, ExitCode(err))
}

func TestCreate_SpecFile(t *testing.T) {
	_, out := setupHandlers(t)

	specYAML := `name: from-file
nodes:
  - name: a
    site: NBG1
    image: ubuntu-22.04
    components:
      - name: nic
        model: NIC_Basic
  - name: b
    site: NBG1
    image: ubuntu-22.04
    components:
      - name: nic
        model: NIC_Basic
networks:
  - name: lan
    type: l2-private
    interfaces: [a/nic, b/nic]
`
	path := filepath.Join(t.TempDir(), "slice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(specYAML), 0o600))

	opts := defaultCreateOptions("")
	opts.SpecPath = path
	require.NoError(t, Create(context.Background(), opts))

	output := out.String()
	assert.Contains(t, output, "Slice from-file is READY")
	assert.Contains(t, output, "ssh ubuntu@")
	assert.Regexp(t, `(?m)^\s+a\s+ssh `, output)
	assert.Regexp(t, `(?m)^\s+b\s+ssh `, output)
}

func TestCreate_SpecFileNameOverride(t *testing.T) {
	_, out := setupHandlers(t)

	specYAML := "name: original\nnodes:\n  - name: n1\n    site: X\n    image: img1\n"
	path := filepath.Join(t.TempDir(), "slice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(specYAML), 0o600))

	opts := defaultCreateOptions("renamed")
	opts.SpecPath = path
	require.NoError(t, Create(context.Background(), opts))
	assert.Contains(t, out.String(), "Slice renamed is READY")
}

func TestCreate_MetricsFile(t *testing.T) {
	setupHandlers(t)

	opts := defaultCreateOptions("measured")
	opts.MetricsFile = filepath.Join(t.TempDir(), "slicectl.prom")
	require.NoError(t, Create(context.Background(), opts))

	data, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `slicectl_provisioning_submissions_total{result="ok"} 1`)
	assert.Contains(t, string(data), "slicectl_provisioning_polls_total")
}

func TestBuildSpec_Overrides(t *testing.T) {
	setupHandlers(t)

	opts := defaultCreateOptions("demo")
	opts.Site = "NBG1"
	opts.Image = "debian-12"
	opts.Flavor = "cx32"
	opts.LeaseDays = 2

	spec, err := buildSpec(opts)
	require.NoError(t, err)
	require.Len(t, spec.Nodes, 1)
	assert.Equal(t, "NBG1", spec.Nodes[0].Site)
	assert.Equal(t, "debian-12", spec.Nodes[0].Image)
	assert.Equal(t, "cx32", spec.Nodes[0].Flavor)
	assert.Equal(t, 48*time.Hour, spec.Lease.Duration())
	assert.Empty(t, spec.Nodes[0].SSHKeys)
}

func TestResolveKeyRef(t *testing.T) {
	setupHandlers(t)
	var logs bytes.Buffer
	logger := newLogger(&logs, 0)

	ref, err := resolveKeyRef("ops-key", logger)
	require.NoError(t, err)
	assert.Equal(t, "ops-key", ref)

	path := writePublicKey(t)
	ref, err = resolveKeyRef(path, logger)
	require.NoError(t, err)
	assert.Equal(t, path, ref)
	assert.Contains(t, logs.String(), "SHA256:")
}
