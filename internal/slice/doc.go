// Package slice defines the desired-state and realized-state models for
// testbed slices, together with the error taxonomy shared by the
// orchestrator, the inspector and all backend implementations.
//
// # Model
//
//   - ResourceSpec: what the caller wants (nodes, networks, lease window)
//   - Slice: immutable snapshot of what the backend realized
//   - BackendState: what a backend reports on a single poll
//   - ConnectionInfo: per-node access data, derived once a slice is ready
//
// ResourceSpec.Validate checks every invariant locally so an invalid
// document is never sent to a backend.
//
// # Errors
//
// All packages report failures as *Error values carrying a Kind. Use
// errors.Is with the Err* sentinels, or KindOf, to branch on the outcome:
//
//	if errors.Is(err, slice.ErrNotFound) {
//	    // absent is a valid outcome here
//	}
package slice
