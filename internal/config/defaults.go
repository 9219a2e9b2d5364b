package config

import (
	"time"

	"github.com/imamik/slicectl/internal/slice"
)

// Defaults of the built-in slice: one node with a basic NIC bound to a
// public IPv4 network.
const (
	DefaultSite        = "WASH"
	DefaultImage       = "default_ubuntu_20"
	DefaultFlavor      = "default"
	DefaultNodeName    = "ipv4-node"
	DefaultNICName     = "shared-nic"
	DefaultNICModel    = "NIC_Basic"
	DefaultNetworkName = "public-proxy-net"
	DefaultLeaseDays   = 5
)

// NodeOverrides replaces the default site, image and flavor when non-empty.
type NodeOverrides struct {
	Site   string
	Image  string
	Flavor string
}

// DefaultSpec builds the single node public IPv4 slice.
func DefaultSpec(name, sshKey string, leaseDays int, o NodeOverrides, now time.Time) *slice.ResourceSpec {
	node := slice.NodeSpec{
		Name:   DefaultNodeName,
		Site:   firstNonEmpty(o.Site, DefaultSite),
		Image:  firstNonEmpty(o.Image, DefaultImage),
		Flavor: firstNonEmpty(o.Flavor, DefaultFlavor),
		Components: []slice.ComponentSpec{
			{Name: DefaultNICName, Model: DefaultNICModel},
		},
	}
	if sshKey != "" {
		node.SSHKeys = []string{sshKey}
	}

	return &slice.ResourceSpec{
		Name:  name,
		Nodes: []slice.NodeSpec{node},
		Networks: []slice.NetworkSpec{{
			Name:       DefaultNetworkName,
			Type:       slice.NetworkL3Public,
			Interfaces: []string{slice.InterfaceRef{Node: DefaultNodeName, Component: DefaultNICName}.String()},
		}},
		Lease: slice.LeaseFor(now, leaseDays),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
