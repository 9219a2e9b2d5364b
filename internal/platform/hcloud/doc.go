// Package hcloud realizes slices on the Hetzner Cloud API.
//
// # Mapping
//
// Each node becomes a server named <slice>-<node>. Its server type is the
// node's flavor, or the smallest type that satisfies its sizing. Sites that
// are Hetzner locations are used directly; any other site falls back to
// DefaultLocation.
//
// l2-private networks become cloud networks with one subnet and are attached
// when the servers are created. l3-public networks are realized by the
// public IPv4 of every bound server and recorded as server labels, so the
// state of a slice can be rebuilt from the API alone.
//
// Every resource carries the slice name and slice id as labels. GetState,
// GetSlice and Teardown select resources by these labels.
//
// # Generic Operations
//
// DeleteOperation and EnsureOperation give consistent get-or-create and
// idempotent delete semantics across resource types. Locked resources are
// retried with exponential backoff; invalid parameters fail immediately.
//
// # Errors
//
// API failures are classified into the slice error kinds: not_found becomes
// NotFound, invalid input becomes ValidationError, and rate limits, locks,
// authentication and transport failures become BackendUnavailable.
//
// # Configuration
//
// Timeouts and retry parameters are read from the environment by
// config.LoadTimeouts:
//
//   - HCLOUD_TIMEOUT_SERVER_CREATE: per-server create timeout (default: 2m)
//   - HCLOUD_TIMEOUT_DELETE: resource deletion timeout (default: 5m)
//   - HCLOUD_RETRY_MAX_ATTEMPTS: retries for locked resources (default: 5)
//   - SLICECTL_RETRY_INITIAL_DELAY: initial retry delay (default: 2s)
package hcloud
