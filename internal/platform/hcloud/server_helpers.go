package hcloud

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/labels"
)

// imageAliases maps the portable default image names onto Hetzner images.
var imageAliases = map[string]string{
	"default_ubuntu_20": "ubuntu-20.04",
	"default_ubuntu_22": "ubuntu-22.04",
	"default_ubuntu_24": "ubuntu-24.04",
	"default_debian_11": "debian-11",
	"default_debian_12": "debian-12",
	"default_rocky_8":   "rocky-8",
	"default_rocky_9":   "rocky-9",
	"default_centos_9":  "centos-stream-9",
	"default_fedora_40": "fedora-40",
}

// imageName maps an image reference onto a Hetzner image name.
func imageName(image string) string {
	if alias, ok := imageAliases[strings.ToLower(image)]; ok {
		return alias
	}
	return image
}

// resolveImage resolves an image by name for the architecture of the server type.
func (c *RealClient) resolveImage(ctx context.Context, image string, serverType *hcloud.ServerType) (*hcloud.Image, error) {
	name := imageName(image)
	imageObj, _, err := c.client.Image.GetForArchitecture(ctx, name, serverType.Architecture)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if imageObj == nil {
		return nil, slice.Validation("create server", fmt.Sprintf("image not found: %s", image))
	}
	if imageObj.Status != "" && imageObj.Status != hcloud.ImageStatusAvailable {
		return nil, slice.Validation("create server", fmt.Sprintf("image %s is %s", image, imageObj.Status))
	}
	return imageObj, nil
}

// resolveLocation resolves a location name to a location object.
func (c *RealClient) resolveLocation(ctx context.Context, location string) (*hcloud.Location, error) {
	if location == "" {
		return nil, nil
	}

	locObj, _, err := c.client.Location.Get(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location %s: %w", location, err)
	}
	if locObj == nil {
		return nil, slice.Validation("create server", fmt.Sprintf("location not found: %s", location))
	}
	return locObj, nil
}

// ServerIPv4 extracts the public IPv4 address from a server, or empty string if not set.
func ServerIPv4(s *hcloud.Server) string {
	if s != nil && s.PublicNet.IPv4.IP != nil && !s.PublicNet.IPv4.IP.IsUnspecified() {
		return s.PublicNet.IPv4.IP.String()
	}
	return ""
}

// nodeState maps a server status onto a resource state. A server that is
// going away or being rebuilt can no longer become ready.
func nodeState(s *hcloud.Server) (slice.ResourceState, string) {
	switch s.Status {
	case hcloud.ServerStatusRunning:
		return slice.ResourceActive, ""
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting, hcloud.ServerStatusOff:
		return slice.ResourcePending, ""
	default:
		return slice.ResourceError, fmt.Sprintf("server %s is %s", s.Name, s.Status)
	}
}

// nodeInfo converts a server. Node and site names come from the labels set
// at creation.
func nodeInfo(s *hcloud.Server) slice.NodeInfo {
	state, msg := nodeState(s)
	info := slice.NodeInfo{
		Name:    s.Labels[labels.KeyNode],
		ID:      strconv.FormatInt(s.ID, 10),
		Site:    s.Labels[labels.KeySite],
		State:   state,
		Message: msg,
		Port:    22,
		User:    "root",
	}
	if info.Name == "" {
		info.Name = s.Name
	}
	if info.Site == "" && s.Location != nil {
		info.Site = s.Location.Name
	}
	if s.Image != nil {
		info.Image = s.Image.Name
	}
	if s.ServerType != nil {
		info.Flavor = s.ServerType.Name
	}
	if state == slice.ResourceActive {
		info.Address = ServerIPv4(s)
	}
	return info
}

// publicNetworks derives the state of public networks from the servers
// bound to them: active once every bound server is running with an IPv4,
// failed as soon as one of them failed.
func publicNetworks(servers []*hcloud.Server) []slice.NetworkInfo {
	bound := make(map[string][]slice.NodeInfo)
	var order []string
	for _, s := range servers {
		n := nodeInfo(s)
		for _, name := range labels.PublicNetworks(s.Labels) {
			if _, ok := bound[name]; !ok {
				order = append(order, name)
			}
			bound[name] = append(bound[name], n)
		}
	}

	out := make([]slice.NetworkInfo, 0, len(order))
	for _, name := range order {
		info := slice.NetworkInfo{Name: name, Type: slice.NetworkL3Public, State: slice.ResourceActive}
		for _, n := range bound[name] {
			switch {
			case n.State == slice.ResourceError:
				info.State = slice.ResourceError
			case info.State != slice.ResourceError && n.Address == "":
				info.State = slice.ResourcePending
			}
			if info.Subnet == "" && n.Address != "" {
				info.Subnet = n.Address + "/32"
			}
		}
		out = append(out, info)
	}
	return out
}
