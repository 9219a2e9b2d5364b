package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/retry"
)

// ServerCreateOpts holds all parameters for creating a server.
type ServerCreateOpts struct {
	Name       string
	Image      string
	ServerType string
	Location   string
	SSHKeys    []*hcloud.SSHKey
	Labels     map[string]string
	// Networks are attached at creation; the API assigns the private IPs.
	Networks []*hcloud.Network
}

// CreateServer creates a server with public IPv4 and IPv6 and returns it as
// reported by the create call. It does not wait for the server to boot;
// readiness is observed by polling.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	var result hcloud.ServerCreateResult
	err = retry.Do(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, createOpts)
		if err != nil {
			if isInvalidParameter(err) || !isTransient(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", opts.Name, err)
	}

	c.logger.V(1).Info("server created", "server", result.Server.Name, "id", result.Server.ID)
	return result.Server, nil
}

// buildServerCreateOpts resolves all dependencies and builds server creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, slice.Validation("create server", fmt.Sprintf("server type not found: %s", opts.ServerType))
	}

	image, err := c.resolveImage(ctx, opts.Image, serverType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	location, err := c.resolveLocation(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	return hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      image,
		SSHKeys:    opts.SSHKeys,
		Labels:     opts.Labels,
		Location:   location,
		Networks:   opts.Networks,
		PublicNet: &hcloud.ServerCreatePublicNet{
			EnableIPv4: true,
			EnableIPv6: true,
		},
		StartAfterCreate: hcloud.Ptr(true),
	}, nil
}

// DeleteServer deletes the server with the given name.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Name:         name,
		ResourceType: "server",
		Get:          c.client.Server.Get,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// GetServersByLabel returns all servers matching the label selector.
func (c *RealClient) GetServersByLabel(ctx context.Context, selector string) ([]*hcloud.Server, error) {
	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	return servers, nil
}
