package testing

import (
	"slices"
	"time"

	"github.com/imamik/slicectl/internal/slice"
)

// SpecBuilder provides a fluent interface for constructing test specs.
// Each method returns a new builder (immutable) for chaining.
type SpecBuilder struct {
	spec slice.ResourceSpec
}

// NewSpecBuilder creates a builder for an empty slice named name.
func NewSpecBuilder(name string) *SpecBuilder {
	return &SpecBuilder{spec: slice.ResourceSpec{Name: name}}
}

// WithNode adds a node with the given site and image.
func (b *SpecBuilder) WithNode(name, site, image string) *SpecBuilder {
	newBuilder := b.clone()
	newBuilder.spec.Nodes = append(newBuilder.spec.Nodes, slice.NodeSpec{
		Name:  name,
		Site:  site,
		Image: image,
	})
	return newBuilder
}

// WithComponent adds a component to the most recently added node.
func (b *SpecBuilder) WithComponent(name, model string) *SpecBuilder {
	newBuilder := b.clone()
	if n := len(newBuilder.spec.Nodes); n > 0 {
		node := &newBuilder.spec.Nodes[n-1]
		node.Components = append(node.Components, slice.ComponentSpec{Name: name, Model: model})
	}
	return newBuilder
}

// WithKey adds an SSH key reference to the most recently added node.
func (b *SpecBuilder) WithKey(ref string) *SpecBuilder {
	newBuilder := b.clone()
	if n := len(newBuilder.spec.Nodes); n > 0 {
		node := &newBuilder.spec.Nodes[n-1]
		node.SSHKeys = append(node.SSHKeys, ref)
	}
	return newBuilder
}

// WithNetwork adds a network binding the given node/component interfaces.
func (b *SpecBuilder) WithNetwork(name string, typ slice.NetworkType, interfaces ...string) *SpecBuilder {
	newBuilder := b.clone()
	newBuilder.spec.Networks = append(newBuilder.spec.Networks, slice.NetworkSpec{
		Name:       name,
		Type:       typ,
		Interfaces: interfaces,
	})
	return newBuilder
}

// WithLease sets a lease of days starting at start.
func (b *SpecBuilder) WithLease(start time.Time, days int) *SpecBuilder {
	newBuilder := b.clone()
	newBuilder.spec.Lease = slice.LeaseFor(start, days)
	return newBuilder
}

// Build returns the constructed spec.
func (b *SpecBuilder) Build() slice.ResourceSpec {
	return b.clone().spec
}

// clone creates a deep copy of the builder for immutability.
func (b *SpecBuilder) clone() *SpecBuilder {
	newSpec := b.spec
	if b.spec.Nodes != nil {
		newSpec.Nodes = make([]slice.NodeSpec, len(b.spec.Nodes))
		for i, n := range b.spec.Nodes {
			n.SSHKeys = slices.Clone(n.SSHKeys)
			n.Components = slices.Clone(n.Components)
			newSpec.Nodes[i] = n
		}
	}
	if b.spec.Networks != nil {
		newSpec.Networks = make([]slice.NetworkSpec, len(b.spec.Networks))
		for i, n := range b.spec.Networks {
			n.Interfaces = slices.Clone(n.Interfaces)
			newSpec.Networks[i] = n
		}
	}
	if b.spec.Lease != nil {
		l := *b.spec.Lease
		newSpec.Lease = &l
	}
	return &SpecBuilder{spec: newSpec}
}

// MinimalSpec returns a single-node spec without networks.
func MinimalSpec() slice.ResourceSpec {
	return NewSpecBuilder("s1").WithNode("n1", "X", "img1").Build()
}

// PublicNodeSpec returns one node with a NIC bound to a public network.
func PublicNodeSpec() slice.ResourceSpec {
	return NewSpecBuilder("s1").
		WithNode("n1", "X", "img1").
		WithComponent("nic", "NIC_Basic").
		WithKey("ops-key").
		WithNetwork("net1", slice.NetworkL3Public, "n1/nic").
		Build()
}
