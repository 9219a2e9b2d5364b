package labels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	l := NewLabelBuilder("s1", "abc").Build()

	assert.Equal(t, "s1", l[KeySlice])
	assert.Equal(t, "abc", l[KeySliceID])
	assert.Equal(t, ManagedBySlicectl, l[KeyManagedBy])
}

func TestLabelBuilder_Chaining(t *testing.T) {
	t.Parallel()
	l := NewLabelBuilder("s1", "abc").
		WithNode("n1").
		WithNetwork("net", "l2-private").
		WithSite("nbg1").
		WithImage("ubuntu:22.04").
		Merge(map[string]string{"team": "infra"}).
		Build()

	assert.Equal(t, "n1", l[KeyNode])
	assert.Equal(t, "net", l[KeyNetwork])
	assert.Equal(t, "l2-private", l[KeyNetType])
	assert.Equal(t, "nbg1", l[KeySite])
	assert.Equal(t, "ubuntu_22.04", l[KeyImage])
	assert.Equal(t, "infra", l["team"])
}

func TestLabelBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("s1", "abc")
	l := lb.Build()
	l[KeySlice] = "mutated"

	assert.Equal(t, "s1", lb.Build()[KeySlice])
}

func TestLease_RoundTrip(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)

	l := NewLabelBuilder("s1", "abc").WithLease(start, end).Build()
	gotStart, gotEnd, ok := LeaseFrom(l)

	assert.True(t, ok)
	assert.True(t, start.Equal(gotStart))
	assert.True(t, end.Equal(gotEnd))

	_, _, ok = LeaseFrom(NewLabelBuilder("s1", "abc").Build())
	assert.False(t, ok)
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "slicectl.io/slice=s1", SelectorForSlice("s1"))
	assert.Equal(t, "slicectl.io/slice-id=abc", SelectorForSliceID("abc"))
	assert.Equal(t, "a=1,b=2", Selector(map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "", Selector(nil))
}

func TestPublicNetworks(t *testing.T) {
	t.Parallel()
	l := NewLabelBuilder("s1", "abc").
		WithPublicNetwork("web").
		WithPublicNetwork("mgmt").
		WithNode("n1").
		Build()

	assert.Equal(t, "true", l["public.slicectl.io/web"])
	assert.Equal(t, []string{"mgmt", "web"}, PublicNetworks(l))
	assert.Empty(t, PublicNetworks(map[string]string{KeySlice: "s1"}))
}
