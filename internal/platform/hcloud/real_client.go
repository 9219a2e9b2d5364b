package hcloud

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/config"
)

// DefaultParallelism bounds concurrent server creation within one slice.
const DefaultParallelism = 4

// DefaultLocation is used for nodes whose site is not a Hetzner location.
const DefaultLocation = "fsn1"

// RealClient implements provisioning.Client on top of the Hetzner Cloud API.
type RealClient struct {
	client      *hcloud.Client
	timeouts    *config.Timeouts
	logger      logr.Logger
	parallelism int

	// deletePoll is the interval between checks for remaining servers on teardown.
	deletePoll time.Duration
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) ClientOption {
	return func(c *RealClient) {
		c.logger = l
	}
}

// WithParallelism bounds how many servers are created at once.
func WithParallelism(n int) ClientOption {
	return func(c *RealClient) {
		c.parallelism = n
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:      hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("slicectl", "")),
		timeouts:    config.LoadTimeouts(),
		logger:      logr.Discard(),
		parallelism: DefaultParallelism,
		deletePoll:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HCloudClient returns the underlying hcloud.Client for advanced operations.
func (c *RealClient) HCloudClient() *hcloud.Client {
	return c.client
}
