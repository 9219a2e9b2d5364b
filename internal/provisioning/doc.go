// Package provisioning drives testbed slices from a declarative spec to a
// usable, connectable state.
//
// # Components
//
//   - Client: the backend boundary (submit, poll, look up, list, tear down)
//   - Orchestrator: one per slice; owns the lifecycle state machine
//   - Resolve: turns a READY slice into per-node connection info
//   - Inspector: read-only lookups of existing slices
//
// # Lifecycle
//
//	PENDING --Submit ok--> CREATING --all resources active--> READY
//	PENDING --Submit error----------------------------------> FAILED
//	CREATING --resource error, retries exhausted, timeout---> FAILED
//	PENDING/CREATING/READY/FAILED --Teardown---------------> CLOSED
//
// Every transition publishes a new immutable slice.Slice snapshot, so
// readers calling Orchestrator.Snapshot never observe a partial update.
package provisioning
