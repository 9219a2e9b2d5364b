package provisioning

import (
	"context"

	"github.com/imamik/slicectl/internal/slice"
)

// Client is the boundary to a provisioning backend. Implementations must be
// safe for concurrent use and must classify failures with the slice error
// kinds (ValidationError, BackendUnavailable, NotFound).
type Client interface {
	// Submit allocates backend resources for spec. It is not idempotent:
	// each call may consume quota, so callers submit a logical slice once.
	Submit(ctx context.Context, spec slice.ResourceSpec) (slice.Handle, error)

	// GetState reports the current state of every node and network.
	GetState(ctx context.Context, h slice.Handle) (*slice.BackendState, error)

	// GetSlice looks up a slice by name and fails with NotFound when absent.
	GetSlice(ctx context.Context, name string) (slice.Handle, error)

	// ListNodes returns the nodes of a slice; NotFound if it was destroyed.
	ListNodes(ctx context.Context, h slice.Handle) ([]slice.NodeInfo, error)

	// ListNetworks returns the networks of a slice; NotFound if it was destroyed.
	ListNetworks(ctx context.Context, h slice.Handle) ([]slice.NetworkInfo, error)

	// Teardown releases all resources of a slice. Tearing down a slice that
	// is already gone succeeds.
	Teardown(ctx context.Context, h slice.Handle) error
}
