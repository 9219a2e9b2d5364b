package handlers

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/provisioning"
	slicetest "github.com/imamik/slicectl/internal/testing"
)

func TestBackendName(t *testing.T) {
	t.Setenv(EnvBackend, "")
	assert.Equal(t, BackendSimulated, backendName(""))
	assert.Equal(t, BackendHCloud, backendName("HCloud"))

	t.Setenv(EnvBackend, "hcloud")
	assert.Equal(t, BackendHCloud, backendName(""))
	assert.Equal(t, BackendSimulated, backendName("simulated"))
}

func TestNewClient(t *testing.T) {
	backend, _ := setupHandlers(t)
	logger := logr.Discard()
	timeouts := config.LoadTimeouts()

	t.Run("simulated", func(t *testing.T) {
		client, err := newClient(Global{Backend: BackendSimulated}, logger, timeouts)
		require.NoError(t, err)
		assert.Same(t, backend, client)
	})

	t.Run("hcloud without token", func(t *testing.T) {
		t.Setenv(EnvHCloudToken, "")
		_, err := newClient(Global{Backend: BackendHCloud}, logger, timeouts)
		require.Error(t, err)
		assert.Equal(t, ExitValidation, ExitCode(err))
		assert.Contains(t, err.Error(), EnvHCloudToken)
	})

	t.Run("hcloud with token", func(t *testing.T) {
		t.Setenv(EnvHCloudToken, "secret")
		mock := &slicetest.MockClient{}
		var gotToken string
		newHCloudClient = func(token string, _ logr.Logger, _ *config.Timeouts) provisioning.Client {
			gotToken = token
			return mock
		}

		client, err := newClient(Global{Backend: BackendHCloud}, logger, timeouts)
		require.NoError(t, err)
		assert.Same(t, mock, client)
		assert.Equal(t, "secret", gotToken)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := newClient(Global{Backend: "aws"}, logger, timeouts)
		require.Error(t, err)
		assert.Equal(t, ExitValidation, ExitCode(err))
	})
}
