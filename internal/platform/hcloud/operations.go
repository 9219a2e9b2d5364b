package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/util/retry"
)

// CreateResult wraps the result of a resource creation operation.
// It handles both single and multiple actions that may need to be awaited.
type CreateResult[T any] struct {
	Resource T
	Action   *hcloud.Action
	Actions  []*hcloud.Action
}

// DeleteOperation encapsulates deletion logic for any hcloud resource.
//
//	func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
//	    return (&DeleteOperation[*hcloud.SSHKey]{
//	        Name:         name,
//	        ResourceType: "ssh key",
//	        Get:          c.client.SSHKey.Get,
//	        Delete:       c.client.SSHKey.Delete,
//	    }).Execute(ctx, c)
//	}
type DeleteOperation[T any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Delete removes the resource
	Delete func(ctx context.Context, resource T) (*hcloud.Response, error)
}

// Execute performs the delete operation with retry logic and timeout handling.
// The operation is idempotent - it succeeds if the resource doesn't exist.
// Locked resources are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.Do(ctx, func() error {
		resource, _, err := op.Get(ctx, op.Name)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to get %s: %w", op.ResourceType, err))
		}

		if reflect.ValueOf(resource).IsNil() {
			return nil
		}

		_, err = op.Delete(ctx, resource)
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			if IsNotFound(err) {
				return nil
			}
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay))
}

// EnsureOperation encapsulates get-or-create logic for any hcloud resource.
// Validate, when set, rejects an existing resource that does not match the
// desired state.
//
//	(&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
//	    Name:         name,
//	    ResourceType: "network",
//	    Get:          c.client.Network.Get,
//	    Create:       simpleCreate(c.client.Network.Create),
//	    Validate: func(network *hcloud.Network) error {
//	        if network.IPRange.String() != ipRange {
//	            return fmt.Errorf("network exists with different IP range")
//	        }
//	        return nil
//	    },
//	    CreateOptsMapper: func() hcloud.NetworkCreateOpts { ... },
//	}).Execute(ctx, c)
type EnsureOperation[T any, CreateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource with the given options
	Create func(ctx context.Context, opts CreateOpts) (*CreateResult[T], *hcloud.Response, error)

	// Validate checks if existing resource matches desired state (optional)
	Validate func(resource T) error

	// CreateOptsMapper maps input parameters to create options
	CreateOptsMapper func() CreateOpts
}

// Execute returns the existing resource after validating it, or creates it.
func (op *EnsureOperation[T, CreateOpts]) Execute(ctx context.Context, client *RealClient) (T, error) {
	var zero T

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s: %w", op.ResourceType, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, err
			}
		}
		return resource, nil
	}

	var result *CreateResult[T]
	err = retry.Do(ctx, func() error {
		res, _, err := op.Create(ctx, op.CreateOptsMapper())
		if err != nil {
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		result = res
		return nil
	},
		retry.WithMaxRetries(client.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay))
	if err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", op.ResourceType, err)
	}

	if err := waitForActionResult(ctx, client.client, result); err != nil {
		return zero, fmt.Errorf("failed to wait for %s creation: %w", op.ResourceType, err)
	}

	return result.Resource, nil
}

// waitForActions waits for one or more actions to complete.
func waitForActions(ctx context.Context, client *hcloud.Client, actions ...*hcloud.Action) error {
	if len(actions) == 0 {
		return nil
	}
	return client.Action.WaitFor(ctx, actions...)
}

// waitForActionResult waits for actions from a CreateResult.
// Handles both singular Action and plural Actions fields.
func waitForActionResult[T any](ctx context.Context, client *hcloud.Client, result *CreateResult[T]) error {
	if result.Action != nil {
		return waitForActions(ctx, client, result.Action)
	}
	return waitForActions(ctx, client, result.Actions...)
}

// simpleCreate wraps create functions returning the resource directly.
func simpleCreate[T any, Opts any](
	createFn func(context.Context, Opts) (T, *hcloud.Response, error),
) func(context.Context, Opts) (*CreateResult[T], *hcloud.Response, error) {
	return func(ctx context.Context, opts Opts) (*CreateResult[T], *hcloud.Response, error) {
		resource, resp, err := createFn(ctx, opts)
		if err != nil {
			return nil, resp, err
		}
		return &CreateResult[T]{Resource: resource}, resp, nil
	}
}
