package provisioning

import (
	"fmt"

	"github.com/imamik/slicectl/internal/slice"
)

// Resolve returns connection info per node name for a READY slice. It makes
// no backend calls; the data was materialized when the slice became ready.
func Resolve(s *slice.Slice) (map[string]slice.ConnectionInfo, error) {
	if s == nil {
		return nil, slice.Validation("resolve", "slice is nil")
	}
	if s.State != slice.StateReady {
		return nil, slice.InvalidState("resolve", s.State)
	}

	out := make(map[string]slice.ConnectionInfo, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Connection == nil {
			return nil, &slice.Error{
				Kind: slice.KindInvalidState,
				Op:   "resolve",
				Err:  fmt.Errorf("node %q has no connection info", n.Name),
			}
		}
		out[n.Name] = *n.Connection
	}
	return out, nil
}
