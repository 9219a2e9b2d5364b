package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/slicectl/internal/slice"
)

func TestRenderConnections(t *testing.T) {
	t.Parallel()

	s := &slice.Slice{
		Name:  "demo",
		State: slice.StateReady,
		Lease: slice.LeaseFor(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 5),
	}
	conns := map[string]slice.ConnectionInfo{
		"b": {Host: "198.51.100.11", Port: 22, User: "ubuntu"},
		"a": {Host: "198.51.100.10", Port: 2222, User: "root", KeyRef: "/keys/id.pub"},
	}

	out := renderConnections(printer{}, s, conns)
	assert.Contains(t, out, "Slice demo is READY")
	assert.Contains(t, out, "Lease until 2026-01-06 00:00 UTC")
	assert.Contains(t, out, "ssh -i /keys/id -p 2222 root@198.51.100.10")
	assert.Less(t, strings.Index(out, "ssh -i"), strings.Index(out, "ubuntu@"))
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderInventory(t *testing.T) {
	t.Parallel()

	s := &slice.Slice{ID: "abc", Name: "demo", State: slice.StateFailed}
	nodes := []slice.NodeInfo{{Name: "n1", State: slice.ResourceError, Message: "disk failure"}}

	out := renderInventory(printer{}, s, nodes, nil)
	assert.Contains(t, out, "Slice demo (abc)")
	assert.Contains(t, out, "disk failure")
	assert.Contains(t, out, "Networks\n  none")
}
