package hcloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/util/labels"
	"github.com/imamik/slicectl/internal/util/retry"
)

// CleanupError represents accumulated errors from cleanup operations.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// resource is a constraint for the Hetzner Cloud resources a slice owns.
type resource interface {
	*hcloud.Server | *hcloud.Network | *hcloud.SSHKey
}

// resourceInfo extracts common fields from a resource for logging.
type resourceInfo struct {
	Name string
	ID   int64
}

func getResourceInfo[T resource](r T) resourceInfo {
	switch v := any(r).(type) {
	case *hcloud.Server:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.Network:
		return resourceInfo{Name: v.Name, ID: v.ID}
	case *hcloud.SSHKey:
		return resourceInfo{Name: v.Name, ID: v.ID}
	default:
		return resourceInfo{}
	}
}

// deleteResourcesByLabel deletes every listed resource and returns how many
// were found. Deletion continues past failures; they are returned joined.
func deleteResourcesByLabel[T resource](
	ctx context.Context,
	c *RealClient,
	resourceType string,
	listFn func(context.Context) ([]T, error),
	deleteFn func(context.Context, T) error,
) (int, error) {
	resources, err := listFn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", resourceType, err)
	}

	var deleteErrs []error
	for _, r := range resources {
		info := getResourceInfo(r)
		c.logger.V(1).Info("deleting resource", "type", resourceType, "name", info.Name, "id", info.ID)
		if err := deleteFn(ctx, r); err != nil && !IsNotFound(err) {
			c.logger.Info("failed to delete resource", "type", resourceType, "name", info.Name, "error", err.Error())
			deleteErrs = append(deleteErrs, fmt.Errorf("%s %q: %w", resourceType, info.Name, err))
		}
	}
	return len(resources), errors.Join(deleteErrs...)
}

// CleanupByLabel deletes all servers, networks and SSH keys matching the
// labels. Servers go first and are awaited because networks cannot be
// deleted while servers are attached. Every resource type is attempted even
// if an earlier one fails; the failures are returned as a CleanupError.
func (c *RealClient) CleanupByLabel(ctx context.Context, selector map[string]string) error {
	sel := labels.Selector(selector)
	c.logger.V(1).Info("cleaning up resources", "selector", sel)
	cleanupErrs := &CleanupError{}

	if err := c.deleteServersByLabel(ctx, sel); err != nil {
		cleanupErrs.Add(fmt.Errorf("servers: %w", err))
	}
	if _, err := c.deleteNetworksByLabel(ctx, sel); err != nil {
		cleanupErrs.Add(fmt.Errorf("networks: %w", err))
	}
	if _, err := c.deleteSSHKeysByLabel(ctx, sel); err != nil {
		cleanupErrs.Add(fmt.Errorf("ssh keys: %w", err))
	}

	if cleanupErrs.HasErrors() {
		return cleanupErrs
	}
	return nil
}

// deleteServersByLabel deletes all servers matching the selector and waits
// until the API no longer lists them.
func (c *RealClient) deleteServersByLabel(ctx context.Context, selector string) error {
	n, err := deleteResourcesByLabel(ctx, c, "server",
		func(ctx context.Context) ([]*hcloud.Server, error) {
			return c.GetServersByLabel(ctx, selector)
		},
		func(ctx context.Context, s *hcloud.Server) error {
			_, _, err := c.client.Server.DeleteWithResult(ctx, s)
			return err
		},
	)
	if err != nil || n == 0 {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()
	for {
		remaining, err := c.GetServersByLabel(waitCtx, selector)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return nil
		}
		c.logger.V(1).Info("waiting for servers to be deleted", "remaining", len(remaining))
		if err := retry.Sleep(waitCtx, c.deletePoll); err != nil {
			return fmt.Errorf("%d servers still present: %w", len(remaining), err)
		}
	}
}

func (c *RealClient) deleteNetworksByLabel(ctx context.Context, selector string) (int, error) {
	return deleteResourcesByLabel(ctx, c, "network",
		func(ctx context.Context) ([]*hcloud.Network, error) {
			return c.GetNetworksByLabel(ctx, selector)
		},
		func(ctx context.Context, n *hcloud.Network) error {
			_, err := c.client.Network.Delete(ctx, n)
			return err
		},
	)
}

func (c *RealClient) deleteSSHKeysByLabel(ctx context.Context, selector string) (int, error) {
	return deleteResourcesByLabel(ctx, c, "ssh key",
		func(ctx context.Context) ([]*hcloud.SSHKey, error) {
			return c.client.SSHKey.AllWithOpts(ctx, hcloud.SSHKeyListOpts{
				ListOpts: hcloud.ListOpts{LabelSelector: selector},
			})
		},
		func(ctx context.Context, k *hcloud.SSHKey) error {
			_, err := c.client.SSHKey.Delete(ctx, k)
			return err
		},
	)
}
