package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/internal/slice"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	ready := &slice.Slice{
		Name:  "s1",
		State: slice.StateReady,
		Nodes: []slice.NodeInfo{
			{Name: "n1", Connection: &slice.ConnectionInfo{Host: "192.0.2.10", Port: 22, User: "ubuntu", KeyRef: "k1"}},
			{Name: "n2", Connection: &slice.ConnectionInfo{Host: "2001:db8::1", Port: 2222, User: "root"}},
		},
	}

	tests := []struct {
		name    string
		slice   *slice.Slice
		want    map[string]slice.ConnectionInfo
		wantErr error
	}{
		{
			name:  "ready slice",
			slice: ready,
			want: map[string]slice.ConnectionInfo{
				"n1": {Host: "192.0.2.10", Port: 22, User: "ubuntu", KeyRef: "k1"},
				"n2": {Host: "2001:db8::1", Port: 2222, User: "root"},
			},
		},
		{
			name:    "creating slice",
			slice:   &slice.Slice{Name: "s1", State: slice.StateCreating},
			wantErr: slice.ErrInvalidState,
		},
		{
			name:    "closed slice",
			slice:   &slice.Slice{Name: "s1", State: slice.StateClosed},
			wantErr: slice.ErrInvalidState,
		},
		{
			name: "ready without connection data",
			slice: &slice.Slice{
				Name:  "s1",
				State: slice.StateReady,
				Nodes: []slice.NodeInfo{{Name: "n1"}},
			},
			wantErr: slice.ErrInvalidState,
		},
		{
			name:    "nil slice",
			wantErr: slice.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tt.slice)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ReturnsCopies(t *testing.T) {
	t.Parallel()
	s := &slice.Slice{
		State: slice.StateReady,
		Nodes: []slice.NodeInfo{{Name: "n1", Connection: &slice.ConnectionInfo{Host: "192.0.2.10"}}},
	}

	got, err := Resolve(s)
	require.NoError(t, err)
	c := got["n1"]
	c.Host = "changed"
	assert.Equal(t, "192.0.2.10", s.Nodes[0].Connection.Host)
}
