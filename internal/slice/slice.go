package slice

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// State is the lifecycle state of a slice as tracked by the orchestrator.
type State string

const (
	StatePending  State = "PENDING"
	StateCreating State = "CREATING"
	StateReady    State = "READY"
	StateFailed   State = "FAILED"
	StateClosed   State = "CLOSED"
)

// Terminal reports whether no further readiness transitions can happen.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed || s == StateClosed
}

// ResourceState is the backend-reported state of a single node or network.
type ResourceState string

const (
	ResourcePending ResourceState = "pending"
	ResourceActive  ResourceState = "active"
	ResourceError   ResourceState = "error"
)

// Handle identifies a submitted slice at the backend.
type Handle struct {
	ID   string
	Name string
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool {
	return h.ID == ""
}

func (h Handle) String() string {
	return fmt.Sprintf("%s (%s)", h.Name, h.ID)
}

// ConnectionInfo is what a caller needs to reach a node.
type ConnectionInfo struct {
	Host   string
	Port   int
	User   string
	KeyRef string
}

// SSHCommand renders a ready-to-paste ssh invocation.
func (c ConnectionInfo) SSHCommand() string {
	args := []string{"ssh"}
	if c.KeyRef != "" && looksLikePath(c.KeyRef) {
		args = append(args, "-i", strings.TrimSuffix(c.KeyRef, ".pub"))
	}
	if c.Port != 0 && c.Port != 22 {
		args = append(args, "-p", strconv.Itoa(c.Port))
	}
	host := c.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if c.User != "" {
		host = c.User + "@" + host
	}
	return strings.Join(append(args, host), " ")
}

func looksLikePath(ref string) bool {
	return strings.ContainsAny(ref, `/\`) || strings.HasPrefix(ref, "~")
}

// NodeInfo is a resolved node of a slice.
type NodeInfo struct {
	Name    string
	ID      string
	Site    string
	Image   string
	Flavor  string
	State   ResourceState
	Message string
	Address string
	Port    int
	User    string
	SSHKeys []string
	// Connection is set by the orchestrator when the slice becomes ready.
	Connection *ConnectionInfo
}

// NetworkInfo is a resolved network of a slice.
type NetworkInfo struct {
	Name       string
	ID         string
	Type       NetworkType
	State      ResourceState
	Subnet     string
	Interfaces []string
}

// BackendState is what a backend reports for a slice on one poll.
type BackendState struct {
	Nodes    []NodeInfo
	Networks []NetworkInfo
	Lease    *Lease
	Message  string
}

// Slice is an immutable snapshot of a slice. Never mutate a Slice obtained
// from another component; use Clone and publish a new snapshot instead.
type Slice struct {
	ID       string
	Name     string
	State    State
	Nodes    []NodeInfo
	Networks []NetworkInfo
	Lease    *Lease
	// Cause records why the slice is FAILED.
	Cause error
}

// Handle returns the backend handle of the slice.
func (s *Slice) Handle() Handle {
	return Handle{ID: s.ID, Name: s.Name}
}

// Node returns the node with the given name.
func (s *Slice) Node(name string) (NodeInfo, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return NodeInfo{}, false
}

// NodeNames returns node names in declaration order.
func (s *Slice) NodeNames() []string {
	names := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		names[i] = n.Name
	}
	return names
}

// Clone returns a deep copy.
func (s *Slice) Clone() *Slice {
	cp := *s
	cp.Nodes = make([]NodeInfo, len(s.Nodes))
	for i, n := range s.Nodes {
		n.SSHKeys = slices.Clone(n.SSHKeys)
		if n.Connection != nil {
			c := *n.Connection
			n.Connection = &c
		}
		cp.Nodes[i] = n
	}
	cp.Networks = make([]NetworkInfo, len(s.Networks))
	for i, n := range s.Networks {
		n.Interfaces = slices.Clone(n.Interfaces)
		cp.Networks[i] = n
	}
	if s.Lease != nil {
		l := *s.Lease
		cp.Lease = &l
	}
	return &cp
}
