package handlers

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/platform/simulated"
	"github.com/imamik/slicectl/internal/provisioning"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// setupHandlers replaces the package factories with a shared simulated
// backend and captures stdout. Tests using it must not run in parallel.
func setupHandlers(t *testing.T, opts ...simulated.Option) (*simulated.Backend, *bytes.Buffer) {
	t.Helper()

	origSimulated := newSimulatedClient
	origHCloud := newHCloudClient
	origNow := now
	origStdout := stdout
	origStderr := stderr
	origTTY := isInteractiveTTY
	t.Cleanup(func() {
		newSimulatedClient = origSimulated
		newHCloudClient = origHCloud
		now = origNow
		stdout = origStdout
		stderr = origStderr
		isInteractiveTTY = origTTY
	})

	backend := simulated.New(append([]simulated.Option{simulated.WithReadyAfter(1)}, opts...)...)
	newSimulatedClient = func(_ logr.Logger) provisioning.Client { return backend }
	newHCloudClient = func(_ string, _ logr.Logger, _ *config.Timeouts) provisioning.Client {
		t.Fatal("hcloud backend must not be used")
		return nil
	}
	now = func() time.Time { return testNow }
	isInteractiveTTY = func() bool { return false }

	out := &bytes.Buffer{}
	stdout = out
	stderr = &bytes.Buffer{}
	return backend, out
}

// writePublicKey writes a fresh ed25519 public key and returns its path.
func writePublicKey(t *testing.T) string {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519.pub")
	require.NoError(t, os.WriteFile(path, ssh.MarshalAuthorizedKey(sshPub), 0o600))
	return path
}
