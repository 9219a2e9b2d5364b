package handlers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/platform/hcloud"
	"github.com/imamik/slicectl/internal/platform/simulated"
	"github.com/imamik/slicectl/internal/provisioning"
	"github.com/imamik/slicectl/internal/slice"
)

// Backend names accepted by --backend and $SLICECTL_BACKEND.
const (
	BackendSimulated = "simulated"
	BackendHCloud    = "hcloud"

	// EnvBackend selects the backend when --backend is not given.
	EnvBackend = "SLICECTL_BACKEND"
	// EnvHCloudToken holds the Hetzner Cloud API token.
	EnvHCloudToken = "HCLOUD_TOKEN"
)

// Global holds the flags shared by all commands.
type Global struct {
	Backend   string
	Verbosity int
}

// Factory function variables - can be replaced in tests.
var (
	newHCloudClient = func(token string, logger logr.Logger, t *config.Timeouts) provisioning.Client {
		return hcloud.NewRealClient(token, hcloud.WithLogger(logger), hcloud.WithTimeouts(t))
	}

	newSimulatedClient = func(logger logr.Logger) provisioning.Client {
		return simulated.New(simulated.WithLogger(logger))
	}

	now = time.Now

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// backendName picks the backend from the flag, then the environment.
func backendName(flag string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	if env := os.Getenv(EnvBackend); env != "" {
		return strings.ToLower(env)
	}
	return BackendSimulated
}

// newClient builds the provisioning client for the selected backend.
func newClient(g Global, logger logr.Logger, t *config.Timeouts) (provisioning.Client, error) {
	switch name := backendName(g.Backend); name {
	case BackendSimulated:
		logger.V(1).Info("using simulated backend; slices exist only for the lifetime of this process")
		return newSimulatedClient(logger.WithName("simulated")), nil
	case BackendHCloud:
		token := os.Getenv(EnvHCloudToken)
		if token == "" {
			return nil, slice.Validation("backend", fmt.Sprintf("%s is required for the %s backend", EnvHCloudToken, BackendHCloud))
		}
		return newHCloudClient(token, logger.WithName("hcloud"), t), nil
	default:
		return nil, slice.Validation("backend", fmt.Sprintf("unknown backend %q (want %s or %s)", name, BackendSimulated, BackendHCloud))
	}
}
