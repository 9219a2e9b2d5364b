package simulated

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/slicectl/internal/slice"
	slicetest "github.com/imamik/slicectl/internal/testing"
)

func TestBackend_ReadyAfterPolls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := New(WithReadyAfter(2))
	spec := slicetest.PublicNodeSpec()

	h, err := b.Submit(ctx, spec)
	require.NoError(t, err)
	assert.Len(t, h.ID, 36)
	assert.Equal(t, "s1", h.Name)

	for i := range 2 {
		st, err := b.GetState(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, slice.ResourcePending, st.Nodes[0].State, "poll %d", i+1)
		assert.Empty(t, st.Nodes[0].Address)
	}

	st, err := b.GetState(ctx, h)
	require.NoError(t, err)
	require.Len(t, st.Nodes, 1)
	assert.Equal(t, slice.ResourceActive, st.Nodes[0].State)
	assert.Equal(t, "198.51.100.10", st.Nodes[0].Address)
	assert.Equal(t, "default", st.Nodes[0].Flavor)
	require.Len(t, st.Networks, 1)
	assert.Equal(t, slice.ResourceActive, st.Networks[0].State)
	assert.Equal(t, "198.51.100.0/24", st.Networks[0].Subnet)
	assert.Equal(t, 3, b.Calls(CallGetState))
}

func TestBackend_Latency(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	b := New(WithReadyAfter(0), WithLatency(time.Minute), WithClock(clock))

	h, err := b.Submit(context.Background(), slicetest.MinimalSpec())
	require.NoError(t, err)

	st, err := b.GetState(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, slice.ResourcePending, st.Nodes[0].State)

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	st, err = b.GetState(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, slice.ResourceActive, st.Nodes[0].State)
}

func TestBackend_DefaultLease(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(WithClock(func() time.Time { return now }))

	spec := slicetest.MinimalSpec()
	require.Nil(t, spec.Lease)
	h, err := b.Submit(context.Background(), spec)
	require.NoError(t, err)

	st, err := b.GetState(context.Background(), h)
	require.NoError(t, err)
	require.NotNil(t, st.Lease)
	assert.Equal(t, now, st.Lease.Start)
	assert.Equal(t, now.AddDate(0, 0, 5), st.Lease.End)
}

func TestBackend_KeepsRequestedLease(t *testing.T) {
	t.Parallel()
	b := New()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	spec := slicetest.NewSpecBuilder("leased").WithNode("n1", "X", "img1").WithLease(start, 2).Build()
	h, err := b.Submit(context.Background(), spec)
	require.NoError(t, err)

	st, err := b.GetState(context.Background(), h)
	require.NoError(t, err)
	require.NotNil(t, st.Lease)
	assert.Equal(t, start, st.Lease.Start)
	assert.Equal(t, start.AddDate(0, 0, 2), st.Lease.End)
}

func TestBackend_SubmitValidation(t *testing.T) {
	t.Parallel()
	b := New()
	_, err := b.Submit(context.Background(), slice.ResourceSpec{Name: "s1"})
	assert.ErrorIs(t, err, slice.ErrValidation)
}

func TestBackend_DuplicateName(t *testing.T) {
	t.Parallel()
	b := New()
	_, err := b.Submit(context.Background(), slicetest.MinimalSpec())
	require.NoError(t, err)

	_, err = b.Submit(context.Background(), slicetest.MinimalSpec())
	assert.ErrorIs(t, err, slice.ErrValidation)
	assert.Contains(t, err.Error(), "already exists")
}

func TestBackend_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := New()
	h := slice.Handle{ID: "missing", Name: "ghost"}

	_, err := b.GetSlice(ctx, "ghost")
	assert.True(t, slice.IsNotFound(err))
	_, err = b.GetState(ctx, h)
	assert.True(t, slice.IsNotFound(err))
	_, err = b.ListNodes(ctx, h)
	assert.True(t, slice.IsNotFound(err))
	_, err = b.ListNetworks(ctx, h)
	assert.True(t, slice.IsNotFound(err))
}

func TestBackend_TeardownIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := New()
	h, err := b.Submit(ctx, slicetest.MinimalSpec())
	require.NoError(t, err)

	require.NoError(t, b.Teardown(ctx, h))
	require.NoError(t, b.Teardown(ctx, h))

	_, err = b.GetSlice(ctx, "s1")
	assert.True(t, slice.IsNotFound(err))

	// The name is free again.
	_, err = b.Submit(ctx, slicetest.MinimalSpec())
	assert.NoError(t, err)
}

func TestBackend_FailureInjection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("node error", func(t *testing.T) {
		t.Parallel()
		b := New(WithReadyAfter(0))
		b.FailNode("s1", "n1", "no capacity")
		h, err := b.Submit(ctx, slicetest.MinimalSpec())
		require.NoError(t, err)

		st, err := b.GetState(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, slice.ResourceError, st.Nodes[0].State)
		assert.Equal(t, "no capacity", st.Nodes[0].Message)
	})

	t.Run("node error after submit", func(t *testing.T) {
		t.Parallel()
		b := New(WithReadyAfter(0))
		h, err := b.Submit(ctx, slicetest.MinimalSpec())
		require.NoError(t, err)
		b.FailNode("s1", "n1", "hardware fault")

		nodes, err := b.ListNodes(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, slice.ResourceError, nodes[0].State)
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		b := New()
		b.FailNextCalls(2)

		_, err := b.GetSlice(ctx, "s1")
		assert.True(t, slice.IsUnavailable(err))
		_, err = b.Submit(ctx, slicetest.MinimalSpec())
		assert.True(t, slice.IsUnavailable(err))
		_, err = b.Submit(ctx, slicetest.MinimalSpec())
		assert.NoError(t, err)
	})

	t.Run("submit error", func(t *testing.T) {
		t.Parallel()
		b := New()
		want := slice.Validation("submit", "quota exceeded")
		b.FailSubmit(want)

		_, err := b.Submit(ctx, slicetest.MinimalSpec())
		assert.Equal(t, want, err)
		_, err = b.Submit(ctx, slicetest.MinimalSpec())
		assert.NoError(t, err)
	})
}

func TestBackend_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Submit(ctx, slicetest.MinimalSpec())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBackend_UserForImage(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"default_ubuntu_20": "ubuntu",
		"default_rocky_9":   "rocky",
		"docker_centos_8":   "centos",
		"custom":            "root",
	}
	for image, want := range tests {
		assert.Equal(t, want, userFor(image), image)
	}
}

func TestBackend_ConcurrentSlices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := New(WithReadyAfter(0))

	var wg sync.WaitGroup
	handles := make([]slice.Handle, 8)
	for i := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spec := slicetest.NewSpecBuilder(fmt.Sprintf("s%d", i)).WithNode("n1", "X", "img1").Build()
			h, err := b.Submit(ctx, spec)
			assert.NoError(t, err)
			handles[i] = h
		}()
	}
	wg.Wait()

	addrs := make(map[string]bool)
	for _, h := range handles {
		st, err := b.GetState(ctx, h)
		require.NoError(t, err)
		addrs[st.Nodes[0].Address] = true
	}
	assert.Len(t, addrs, len(handles), "addresses are unique")
}
