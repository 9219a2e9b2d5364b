package hcloud

import (
	"fmt"
	"strings"

	"github.com/imamik/slicectl/internal/slice"
)

// Flavor describes a server type by its resources.
type Flavor struct {
	Name   string
	CPU    int
	RAMGB  int
	DiskGB int
}

// DefaultFlavor is used for the "default" flavor and for nodes without sizing.
const DefaultFlavor = "cx22"

// flavors lists the shared-vCPU x86 server types, smallest first.
var flavors = []Flavor{
	{Name: "cx22", CPU: 2, RAMGB: 4, DiskGB: 40},
	{Name: "cx32", CPU: 4, RAMGB: 8, DiskGB: 80},
	{Name: "cx42", CPU: 8, RAMGB: 16, DiskGB: 160},
	{Name: "cx52", CPU: 16, RAMGB: 32, DiskGB: 320},
}

// locations maps Hetzner locations to their network zone.
var locations = map[string]string{
	"fsn1": "eu-central",
	"nbg1": "eu-central",
	"hel1": "eu-central",
	"ash":  "us-east",
	"hil":  "us-west",
	"sin":  "ap-southeast",
}

// serverTypeFor picks the server type for a node: an explicit flavor wins,
// otherwise the smallest flavor satisfying the sizing.
func serverTypeFor(n slice.NodeSpec) (string, error) {
	flavor := strings.ToLower(n.Flavor)
	if flavor != "" && flavor != "default" {
		return flavor, nil
	}
	if n.Sizing == nil {
		return DefaultFlavor, nil
	}
	for _, f := range flavors {
		if f.CPU >= n.Sizing.CPU && f.RAMGB >= n.Sizing.RAMGB && f.DiskGB >= n.Sizing.DiskGB {
			return f.Name, nil
		}
	}
	return "", slice.Validation("submit", fmt.Sprintf(
		"node %q: no server type offers %d cpu, %d GB ram, %d GB disk",
		n.Name, n.Sizing.CPU, n.Sizing.RAMGB, n.Sizing.DiskGB))
}

// locationFor maps a site onto a Hetzner location. Sites that are not
// locations fall back to DefaultLocation.
func locationFor(site string) string {
	site = strings.ToLower(site)
	if _, ok := locations[site]; ok {
		return site
	}
	return DefaultLocation
}

// networkZoneFor returns the network zone of a location.
func networkZoneFor(location string) string {
	if zone, ok := locations[location]; ok {
		return zone
	}
	return "eu-central"
}
