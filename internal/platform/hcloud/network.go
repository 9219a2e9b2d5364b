package hcloud

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/labels"
)

// privateRange returns the IP range of the i-th private network of a slice
// and the subnet carved from it for servers.
func privateRange(i int) (ipRange, subnet string) {
	return fmt.Sprintf("10.%d.0.0/16", i+1), fmt.Sprintf("10.%d.0.0/24", i+1)
}

// EnsureNetwork ensures that a network exists with the given specifications.
func (c *RealClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return nil, slice.Validation("ensure network", fmt.Sprintf("invalid ip range %q: %v", ipRange, err))
	}

	return (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.Get,
		Create:       simpleCreate(c.client.Network.Create),
		Validate: func(network *hcloud.Network) error {
			if network.IPRange.String() != ipRange {
				return slice.Validation("ensure network", fmt.Sprintf(
					"network %s exists but with different IP range %s (expected %s)",
					name, network.IPRange.String(), ipRange))
			}
			return nil
		},
		CreateOptsMapper: func() hcloud.NetworkCreateOpts {
			return hcloud.NetworkCreateOpts{
				Name:    name,
				IPRange: ipNet,
				Labels:  labels,
			}
		},
	}).Execute(ctx, c)
}

// EnsureSubnet ensures that a subnet exists in the given network.
func (c *RealClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string, subnetType hcloud.NetworkSubnetType) error {
	for _, subnet := range network.Subnets {
		if subnet.IPRange.String() == ipRange {
			return nil
		}
	}

	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return slice.Validation("ensure subnet", fmt.Sprintf("invalid subnet ip range %q: %v", ipRange, err))
	}

	opts := hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        subnetType,
			IPRange:     ipNet,
			NetworkZone: hcloud.NetworkZone(networkZone),
		},
	}

	action, _, err := c.client.Network.AddSubnet(ctx, network, opts)
	if err != nil {
		return fmt.Errorf("failed to add subnet: %w", err)
	}

	if err := waitForActions(ctx, c.client, action); err != nil {
		return fmt.Errorf("failed to wait for subnet creation: %w", err)
	}

	return nil
}

// DeleteNetwork deletes the network with the given name.
func (c *RealClient) DeleteNetwork(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Network]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.Get,
		Delete:       c.client.Network.Delete,
	}).Execute(ctx, c)
}

// GetNetwork returns the network with the given name.
func (c *RealClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	network, _, err := c.client.Network.Get(ctx, name)
	return network, err
}

// GetNetworksByLabel returns all networks matching the label selector.
func (c *RealClient) GetNetworksByLabel(ctx context.Context, selector string) ([]*hcloud.Network, error) {
	networks, err := c.client.Network.AllWithOpts(ctx, hcloud.NetworkListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	return networks, nil
}

// networkInfo converts a private network. It is active once a subnet exists.
func networkInfo(n *hcloud.Network) slice.NetworkInfo {
	info := slice.NetworkInfo{
		Name:  n.Labels[labels.KeyNetwork],
		ID:    strconv.FormatInt(n.ID, 10),
		Type:  slice.NetworkL2Private,
		State: slice.ResourcePending,
	}
	if info.Name == "" {
		info.Name = n.Name
	}
	if n.IPRange != nil {
		info.Subnet = n.IPRange.String()
	}
	if len(n.Subnets) > 0 && n.Subnets[0].IPRange != nil {
		info.State = slice.ResourceActive
		info.Subnet = n.Subnets[0].IPRange.String()
	}
	return info
}
