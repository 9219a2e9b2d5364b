package slice

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// NetworkType selects how a network is realized by the backend.
type NetworkType string

const (
	// NetworkL3Public is a routed network with public IPv4 reachability.
	NetworkL3Public NetworkType = "l3-public"
	// NetworkL2Private is a private segment shared by the bound interfaces.
	NetworkL2Private NetworkType = "l2-private"
)

// Valid reports whether t is a known network type.
func (t NetworkType) Valid() bool {
	return t == NetworkL3Public || t == NetworkL2Private
}

// Layer returns the OSI layer label used in listings.
func (t NetworkType) Layer() string {
	switch t {
	case NetworkL3Public:
		return "L3"
	case NetworkL2Private:
		return "L2"
	default:
		return "unknown"
	}
}

// Sizing requests node resources when no named flavor is given.
type Sizing struct {
	CPU    int `yaml:"cpu"`
	RAMGB  int `yaml:"ram_gb"`
	DiskGB int `yaml:"disk_gb"`
}

// ComponentSpec is a device attached to a node, e.g. a NIC that networks bind to.
type ComponentSpec struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
}

// NodeSpec describes one compute node of a slice.
type NodeSpec struct {
	Name       string          `yaml:"name"`
	Site       string          `yaml:"site"`
	Image      string          `yaml:"image"`
	Flavor     string          `yaml:"flavor,omitempty"`
	Sizing     *Sizing         `yaml:"sizing,omitempty"`
	SSHKeys    []string        `yaml:"ssh_keys,omitempty"`
	Components []ComponentSpec `yaml:"components,omitempty"`
}

// InterfaceRef points at a component of a node, written "node/component".
type InterfaceRef struct {
	Node      string
	Component string
}

// ParseInterfaceRef parses "node/component".
func ParseInterfaceRef(s string) (InterfaceRef, error) {
	node, component, ok := strings.Cut(s, "/")
	if !ok || node == "" || component == "" {
		return InterfaceRef{}, fmt.Errorf("interface reference %q must have the form node/component", s)
	}
	return InterfaceRef{Node: node, Component: component}, nil
}

func (r InterfaceRef) String() string {
	return r.Node + "/" + r.Component
}

// NetworkSpec describes one network and the node interfaces bound to it.
type NetworkSpec struct {
	Name       string      `yaml:"name"`
	Type       NetworkType `yaml:"type"`
	Interfaces []string    `yaml:"interfaces,omitempty"`
}

// Lease is the reservation window of a slice. Both ends are UTC.
type Lease struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// LeaseFor returns a lease starting at now and lasting the given number of days.
func LeaseFor(now time.Time, days int) *Lease {
	start := now.UTC()
	return &Lease{Start: start, End: start.AddDate(0, 0, days)}
}

// Duration returns the length of the lease window.
func (l *Lease) Duration() time.Duration {
	return l.End.Sub(l.Start)
}

// ResourceSpec is the desired state of a slice.
type ResourceSpec struct {
	Name     string        `yaml:"name"`
	Nodes    []NodeSpec    `yaml:"nodes"`
	Networks []NetworkSpec `yaml:"networks,omitempty"`
	Lease    *Lease        `yaml:"lease,omitempty"`
}

var namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)

const maxNameLength = 63

// Validate checks all invariants of the spec without contacting a backend.
// Every violation is collected into one KindValidation error.
func (s *ResourceSpec) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if err := validateName(s.Name); err != nil {
		addf("slice name: %v", err)
	}
	if len(s.Nodes) == 0 {
		addf("at least one node is required")
	}

	components := make(map[string]map[string]bool, len(s.Nodes))
	for i, n := range s.Nodes {
		label := fmt.Sprintf("node[%d]", i)
		if n.Name != "" {
			label = fmt.Sprintf("node %q", n.Name)
		}
		if err := validateName(n.Name); err != nil {
			addf("%s: name: %v", label, err)
		}
		if _, dup := components[n.Name]; dup && n.Name != "" {
			addf("%s: duplicate node name", label)
			continue
		}
		if n.Site == "" {
			addf("%s: site is required", label)
		}
		if n.Image == "" {
			addf("%s: image is required", label)
		}
		if n.Sizing != nil && (n.Sizing.CPU < 0 || n.Sizing.RAMGB < 0 || n.Sizing.DiskGB < 0) {
			addf("%s: sizing values must not be negative", label)
		}
		for _, k := range n.SSHKeys {
			if strings.TrimSpace(k) == "" {
				addf("%s: empty ssh key reference", label)
			}
		}
		own := make(map[string]bool, len(n.Components))
		for _, c := range n.Components {
			if c.Name == "" {
				addf("%s: component name is required", label)
				continue
			}
			if own[c.Name] {
				addf("%s: duplicate component %q", label, c.Name)
			}
			own[c.Name] = true
		}
		components[n.Name] = own
	}

	seenNetworks := make(map[string]bool, len(s.Networks))
	boundTo := make(map[string]string)
	for i, net := range s.Networks {
		label := fmt.Sprintf("network[%d]", i)
		if net.Name != "" {
			label = fmt.Sprintf("network %q", net.Name)
		}
		if err := validateName(net.Name); err != nil {
			addf("%s: name: %v", label, err)
		}
		if seenNetworks[net.Name] && net.Name != "" {
			addf("%s: duplicate network name", label)
		}
		seenNetworks[net.Name] = true
		if !net.Type.Valid() {
			addf("%s: unknown type %q (want %s or %s)", label, net.Type, NetworkL3Public, NetworkL2Private)
		}
		for _, raw := range net.Interfaces {
			ref, err := ParseInterfaceRef(raw)
			if err != nil {
				addf("%s: %v", label, err)
				continue
			}
			own, ok := components[ref.Node]
			if !ok {
				addf("%s: interface %s references undeclared node %q", label, ref, ref.Node)
				continue
			}
			if !own[ref.Component] {
				addf("%s: interface %s references undeclared component %q of node %q", label, ref, ref.Component, ref.Node)
				continue
			}
			if other, taken := boundTo[ref.String()]; taken {
				addf("%s: interface %s is already bound to network %q", label, ref, other)
				continue
			}
			boundTo[ref.String()] = net.Name
		}
	}

	if s.Lease != nil && !s.Lease.End.After(s.Lease.Start) {
		addf("lease: end %s must be after start %s",
			s.Lease.End.Format(time.RFC3339), s.Lease.Start.Format(time.RFC3339))
	}

	if len(problems) > 0 {
		return Validation("validate spec", problems...)
	}
	return nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("must not be empty")
	case len(name) > maxNameLength:
		return fmt.Errorf("must be at most %d characters", maxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%q must consist of lower case alphanumerics, '-', '_' or '.'", name)
	}
	return nil
}

// Normalize returns a deep copy with SSH key references de-duplicated per
// node (first occurrence wins) and the lease converted to UTC.
func (s *ResourceSpec) Normalize() ResourceSpec {
	out := ResourceSpec{Name: s.Name}
	out.Nodes = make([]NodeSpec, len(s.Nodes))
	for i, n := range s.Nodes {
		cp := n
		cp.SSHKeys = dedupe(n.SSHKeys)
		cp.Components = slices.Clone(n.Components)
		if n.Sizing != nil {
			sz := *n.Sizing
			cp.Sizing = &sz
		}
		out.Nodes[i] = cp
	}
	out.Networks = make([]NetworkSpec, len(s.Networks))
	for i, n := range s.Networks {
		cp := n
		cp.Interfaces = slices.Clone(n.Interfaces)
		out.Networks[i] = cp
	}
	if s.Lease != nil {
		out.Lease = &Lease{Start: s.Lease.Start.UTC(), End: s.Lease.End.UTC()}
	}
	return out
}

// Node returns the node spec with the given name.
func (s *ResourceSpec) Node(name string) (*NodeSpec, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// NetworksOf returns the networks that bind an interface of the given node.
func (s *ResourceSpec) NetworksOf(node string) []NetworkSpec {
	var out []NetworkSpec
	for _, net := range s.Networks {
		for _, raw := range net.Interfaces {
			if ref, err := ParseInterfaceRef(raw); err == nil && ref.Node == node {
				out = append(out, net)
				break
			}
		}
	}
	return out
}

func dedupe(refs []string) []string {
	if refs == nil {
		return nil
	}
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		r = strings.TrimSpace(r)
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// AddKey appends ref to the node's key list unless it is already present.
// It reports whether the list changed.
func (n *NodeSpec) AddKey(ref string) bool {
	ref = strings.TrimSpace(ref)
	if slices.Contains(n.SSHKeys, ref) {
		return false
	}
	n.SSHKeys = append(n.SSHKeys, ref)
	return true
}
