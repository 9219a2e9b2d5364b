package hcloud

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/provisioning"
	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/async"
	"github.com/imamik/slicectl/internal/util/labels"
	"github.com/imamik/slicectl/internal/util/naming"
)

var _ provisioning.Client = (*RealClient)(nil)

// Submit creates the networks, SSH keys and servers of a slice. Every
// resource is labeled with the slice name and a fresh slice id. If anything
// fails, the resources created so far are deleted again. A spec without a
// lease gets one of config.DefaultLeaseDays starting now.
func (c *RealClient) Submit(ctx context.Context, spec slice.ResourceSpec) (slice.Handle, error) {
	if err := spec.Validate(); err != nil {
		return slice.Handle{}, err
	}
	if spec.Lease == nil {
		spec.Lease = slice.LeaseFor(time.Now(), config.DefaultLeaseDays)
	}

	existing, err := c.GetServersByLabel(ctx, labels.SelectorForSlice(spec.Name))
	if err != nil {
		return slice.Handle{}, classify("submit", err)
	}
	if len(existing) > 0 {
		return slice.Handle{}, slice.Validation("submit", fmt.Sprintf("slice %q already exists", spec.Name))
	}

	h := slice.Handle{ID: uuid.NewString(), Name: spec.Name}
	log := c.logger.WithValues("slice", h.Name, "id", h.ID)
	log.V(1).Info("provisioning slice", "nodes", len(spec.Nodes), "networks", len(spec.Networks))

	if err := c.provision(ctx, spec, h); err != nil {
		log.Info("provisioning failed, removing created resources", "error", err.Error())
		cleanupCtx := context.WithoutCancel(ctx)
		if cerr := c.CleanupByLabel(cleanupCtx, map[string]string{labels.KeySliceID: h.ID}); cerr != nil {
			log.Error(cerr, "failed to remove resources of failed slice")
		}
		return slice.Handle{}, classify("submit", err)
	}
	return h, nil
}

// baseLabels starts the label set shared by every resource of a slice.
func baseLabels(spec slice.ResourceSpec, h slice.Handle) *labels.LabelBuilder {
	lb := labels.NewLabelBuilder(h.Name, h.ID)
	if spec.Lease != nil {
		lb.WithLease(spec.Lease.Start, spec.Lease.End)
	}
	return lb
}

func (c *RealClient) provision(ctx context.Context, spec slice.ResourceSpec, h slice.Handle) error {
	networks, err := c.ensurePrivateNetworks(ctx, spec, h)
	if err != nil {
		return err
	}

	keys := make(map[string][]*hcloud.SSHKey, len(spec.Nodes))
	for _, n := range spec.Nodes {
		resolved, err := c.resolveSSHKeys(ctx, n.SSHKeys, h.Name, baseLabels(spec, h).Build())
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		keys[n.Name] = resolved
	}

	tasks := make([]async.Task, 0, len(spec.Nodes))
	for _, n := range spec.Nodes {
		opts, err := c.serverOpts(spec, h, n, networks, keys[n.Name])
		if err != nil {
			return err
		}
		tasks = append(tasks, async.Task{
			Name: "node " + n.Name,
			Func: func(ctx context.Context) error {
				_, err := c.CreateServer(ctx, opts)
				return err
			},
		})
	}
	return async.RunParallel(ctx, tasks, c.parallelism)
}

// ensurePrivateNetworks creates one network with a cloud subnet per
// l2-private network. The subnet lives in the zone of the first bound node.
func (c *RealClient) ensurePrivateNetworks(ctx context.Context, spec slice.ResourceSpec, h slice.Handle) (map[string]*hcloud.Network, error) {
	out := make(map[string]*hcloud.Network)
	private := 0
	for _, net := range spec.Networks {
		if net.Type != slice.NetworkL2Private {
			continue
		}
		ipRange, subnet := privateRange(private)
		private++

		lbl := baseLabels(spec, h).WithNetwork(net.Name, string(net.Type)).Build()
		nw, err := c.EnsureNetwork(ctx, naming.Network(h.Name, net.Name), ipRange, lbl)
		if err != nil {
			return nil, fmt.Errorf("network %q: %w", net.Name, err)
		}
		if err := c.EnsureSubnet(ctx, nw, subnet, networkZoneFor(zoneSite(spec, net)), hcloud.NetworkSubnetTypeCloud); err != nil {
			return nil, fmt.Errorf("network %q: %w", net.Name, err)
		}
		out[net.Name] = nw
	}
	return out, nil
}

// zoneSite returns the location of the first node bound to net.
func zoneSite(spec slice.ResourceSpec, net slice.NetworkSpec) string {
	for _, raw := range net.Interfaces {
		ref, err := slice.ParseInterfaceRef(raw)
		if err != nil {
			continue
		}
		if n, ok := spec.Node(ref.Node); ok {
			return locationFor(n.Site)
		}
	}
	return DefaultLocation
}

func (c *RealClient) serverOpts(spec slice.ResourceSpec, h slice.Handle, n slice.NodeSpec, networks map[string]*hcloud.Network, keys []*hcloud.SSHKey) (ServerCreateOpts, error) {
	serverType, err := serverTypeFor(n)
	if err != nil {
		return ServerCreateOpts{}, err
	}

	lb := baseLabels(spec, h).WithNode(n.Name).WithSite(n.Site).WithImage(n.Image)
	var attached []*hcloud.Network
	for _, net := range spec.NetworksOf(n.Name) {
		switch net.Type {
		case slice.NetworkL3Public:
			lb.WithPublicNetwork(net.Name)
		case slice.NetworkL2Private:
			attached = append(attached, networks[net.Name])
		}
	}

	return ServerCreateOpts{
		Name:       naming.Server(h.Name, n.Name),
		Image:      n.Image,
		ServerType: serverType,
		Location:   locationFor(n.Site),
		SSHKeys:    keys,
		Labels:     lb.Build(),
		Networks:   attached,
	}, nil
}

// GetState reports servers and networks labeled with the slice id. Public
// networks are derived from the servers bound to them.
func (c *RealClient) GetState(ctx context.Context, h slice.Handle) (*slice.BackendState, error) {
	servers, err := c.GetServersByLabel(ctx, labels.SelectorForSliceID(h.ID))
	if err != nil {
		return nil, classify("get state", err)
	}
	networks, err := c.GetNetworksByLabel(ctx, labels.SelectorForSliceID(h.ID))
	if err != nil {
		return nil, classify("get state", err)
	}
	if len(servers) == 0 && len(networks) == 0 {
		return nil, slice.NotFound("get state", "slice", h.Name)
	}

	st := &slice.BackendState{
		Nodes:    make([]slice.NodeInfo, 0, len(servers)),
		Networks: make([]slice.NetworkInfo, 0, len(networks)),
	}
	for _, s := range servers {
		st.Nodes = append(st.Nodes, nodeInfo(s))
	}
	sort.Slice(st.Nodes, func(i, j int) bool { return st.Nodes[i].Name < st.Nodes[j].Name })

	for _, n := range networks {
		st.Networks = append(st.Networks, networkInfo(n))
	}
	st.Networks = append(st.Networks, publicNetworks(servers)...)
	sort.Slice(st.Networks, func(i, j int) bool { return st.Networks[i].Name < st.Networks[j].Name })

	for _, s := range servers {
		if start, end, ok := labels.LeaseFrom(s.Labels); ok {
			st.Lease = &slice.Lease{Start: start, End: end}
			break
		}
	}
	return st, nil
}

// GetSlice finds a slice by name through its server labels.
func (c *RealClient) GetSlice(ctx context.Context, name string) (slice.Handle, error) {
	servers, err := c.GetServersByLabel(ctx, labels.SelectorForSlice(name))
	if err != nil {
		return slice.Handle{}, classify("get slice", err)
	}
	for _, s := range servers {
		if id := s.Labels[labels.KeySliceID]; id != "" {
			return slice.Handle{ID: id, Name: name}, nil
		}
	}
	return slice.Handle{}, slice.NotFound("get slice", "slice", name)
}

// ListNodes returns the nodes of a slice.
func (c *RealClient) ListNodes(ctx context.Context, h slice.Handle) ([]slice.NodeInfo, error) {
	st, err := c.GetState(ctx, h)
	if err != nil {
		return nil, err
	}
	return st.Nodes, nil
}

// ListNetworks returns the networks of a slice.
func (c *RealClient) ListNetworks(ctx context.Context, h slice.Handle) ([]slice.NetworkInfo, error) {
	st, err := c.GetState(ctx, h)
	if err != nil {
		return nil, err
	}
	return st.Networks, nil
}

// Teardown deletes every resource labeled with the slice id. A slice that
// has no resources left is torn down already.
func (c *RealClient) Teardown(ctx context.Context, h slice.Handle) error {
	if h.ID == "" {
		return slice.Validation("teardown", "empty slice id")
	}
	c.logger.V(1).Info("tearing down slice", "slice", h.Name, "id", h.ID)
	if err := c.CleanupByLabel(ctx, map[string]string{labels.KeySliceID: h.ID}); err != nil {
		return classify("teardown", err)
	}
	return nil
}
