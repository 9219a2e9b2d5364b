// Package simulated provides an in-memory provisioning backend.
//
// The backend behaves like a remote testbed with deterministic timing:
// a submitted slice reports its resources as pending for a configurable
// number of polls (and optionally a minimum latency) and then as active,
// with node addresses drawn from 198.51.100.0/24 (TEST-NET-2).
//
// Failures can be injected to exercise error paths:
//
//	b := simulated.New(simulated.WithReadyAfter(2))
//	b.FailNode("s1", "n1", "no capacity")   // node reports error
//	b.FailNextCalls(3)                       // next 3 calls are BackendUnavailable
//	b.FailSubmit(err)                        // next Submit returns err
//
// It is used by tests and by the CLI's dry-run backend.
package simulated
