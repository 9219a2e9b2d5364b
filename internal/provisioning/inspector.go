package provisioning

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/slicectl/internal/slice"
)

// Inspector answers read-only questions about existing slices. It shares
// the Client with orchestrators but never changes backend state.
type Inspector struct {
	client Client
	logger logr.Logger
}

// NewInspector returns an inspector backed by client.
func NewInspector(client Client, logger logr.Logger) *Inspector {
	return &Inspector{client: client, logger: logger}
}

// Find looks up a slice by name. An absent slice is not an error: Find
// returns nil, nil. The returned snapshot's state is derived from the
// backend report the same way WaitReady derives it.
func (i *Inspector) Find(ctx context.Context, name string) (*slice.Slice, error) {
	h, err := i.client.GetSlice(ctx, name)
	if slice.IsNotFound(err) {
		i.logger.V(1).Info("slice not found", "slice", name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up slice %q: %w", name, err)
	}

	st, err := i.client.GetState(ctx, h)
	if slice.IsNotFound(err) {
		// Torn down between the two calls.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state of slice %q: %w", name, err)
	}

	return snapshotFromReport(h, st), nil
}

// EnumerateNodes lists the nodes of a slice. A slice without nodes yields
// an empty, non-nil list.
func (i *Inspector) EnumerateNodes(ctx context.Context, h slice.Handle) ([]slice.NodeInfo, error) {
	nodes, err := i.client.ListNodes(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("list nodes of slice %q: %w", h.Name, err)
	}
	if nodes == nil {
		nodes = []slice.NodeInfo{}
	}
	return nodes, nil
}

// EnumerateNetworks lists the networks of a slice. A slice without
// networks yields an empty, non-nil list.
func (i *Inspector) EnumerateNetworks(ctx context.Context, h slice.Handle) ([]slice.NetworkInfo, error) {
	nets, err := i.client.ListNetworks(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("list networks of slice %q: %w", h.Name, err)
	}
	if nets == nil {
		nets = []slice.NetworkInfo{}
	}
	return nets, nil
}

func snapshotFromReport(h slice.Handle, st *slice.BackendState) *slice.Slice {
	s := &slice.Slice{ID: h.ID, Name: h.Name}
	nodeNames := make([]string, len(st.Nodes))
	keys := make(map[string]string, len(st.Nodes))
	for idx, n := range st.Nodes {
		nodeNames[idx] = n.Name
		if len(n.SSHKeys) > 0 {
			keys[n.Name] = n.SSHKeys[0]
		}
	}
	netNames := make([]string, len(st.Networks))
	for idx, n := range st.Networks {
		netNames[idx] = n.Name
	}

	a := assess(nodeNames, netNames, st)
	s.State = a.state
	s.Cause = a.cause
	s.Nodes = mergeNodes(st.Nodes, st.Nodes, keys, a.state == slice.StateReady)
	s.Networks = mergeNetworks(st.Networks, st.Networks)
	if st.Lease != nil {
		l := *st.Lease
		s.Lease = &l
	}
	return s.Clone()
}
