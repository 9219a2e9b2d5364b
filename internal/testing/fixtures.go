package testing

import (
	"fmt"

	"github.com/imamik/slicectl/internal/slice"
)

// PendingState reports every node and network of spec as pending.
func PendingState(spec slice.ResourceSpec) *slice.BackendState {
	return reportFor(spec, slice.ResourcePending)
}

// ActiveState reports every node and network of spec as active, with node
// addresses assigned from 192.0.2.0/24.
func ActiveState(spec slice.ResourceSpec) *slice.BackendState {
	return reportFor(spec, slice.ResourceActive)
}

// FailedNodeState reports node as errored with msg and everything else pending.
func FailedNodeState(spec slice.ResourceSpec, node, msg string) *slice.BackendState {
	st := PendingState(spec)
	for i := range st.Nodes {
		if st.Nodes[i].Name == node {
			st.Nodes[i].State = slice.ResourceError
			st.Nodes[i].Message = msg
		}
	}
	return st
}

func reportFor(spec slice.ResourceSpec, state slice.ResourceState) *slice.BackendState {
	st := &slice.BackendState{}
	for i, n := range spec.Nodes {
		info := slice.NodeInfo{
			Name:    n.Name,
			ID:      fmt.Sprintf("node-%d", i+1),
			Site:    n.Site,
			Image:   n.Image,
			Flavor:  n.Flavor,
			State:   state,
			SSHKeys: n.SSHKeys,
		}
		if state == slice.ResourceActive {
			info.Address = fmt.Sprintf("192.0.2.%d", i+10)
			info.User = "ubuntu"
		}
		st.Nodes = append(st.Nodes, info)
	}
	for i, n := range spec.Networks {
		st.Networks = append(st.Networks, slice.NetworkInfo{
			Name:       n.Name,
			ID:         fmt.Sprintf("net-%d", i+1),
			Type:       n.Type,
			State:      state,
			Interfaces: n.Interfaces,
		})
	}
	if spec.Lease != nil {
		l := *spec.Lease
		st.Lease = &l
	}
	return st
}
