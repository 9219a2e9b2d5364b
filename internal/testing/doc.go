// Package testing provides test utilities, builders, and fixtures for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - SpecBuilder: Fluent builder for creating resource specs
//   - MockClient: Shared testify mock of the provisioning client
//   - Backend report fixtures for pending, ready and failed slices
//
// Usage:
//
//	spec := testing.NewSpecBuilder("s1").
//	    WithNode("n1", "X", "img1").
//	    Build()
//
//	client := &testing.MockClient{}
//	client.On("GetState", mock.Anything, h).Return(testing.ActiveState(spec), nil)
package testing
