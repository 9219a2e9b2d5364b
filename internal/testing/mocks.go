package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/slicectl/internal/slice"
)

// MockClient is a testify mock of the provisioning client.
// It can be used across all tests that need a scripted backend.
type MockClient struct {
	mock.Mock
}

// Submit records the call and returns the configured handle.
func (m *MockClient) Submit(ctx context.Context, spec slice.ResourceSpec) (slice.Handle, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(slice.Handle), args.Error(1)
}

// GetState returns the configured backend report.
func (m *MockClient) GetState(ctx context.Context, h slice.Handle) (*slice.BackendState, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slice.BackendState), args.Error(1)
}

// GetSlice returns the configured handle for name.
func (m *MockClient) GetSlice(ctx context.Context, name string) (slice.Handle, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(slice.Handle), args.Error(1)
}

// ListNodes returns the configured nodes.
func (m *MockClient) ListNodes(ctx context.Context, h slice.Handle) ([]slice.NodeInfo, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slice.NodeInfo), args.Error(1)
}

// ListNetworks returns the configured networks.
func (m *MockClient) ListNetworks(ctx context.Context, h slice.Handle) ([]slice.NetworkInfo, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slice.NetworkInfo), args.Error(1)
}

// Teardown records the call.
func (m *MockClient) Teardown(ctx context.Context, h slice.Handle) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
