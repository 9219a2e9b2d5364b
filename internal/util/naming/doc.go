// Package naming derives backend resource names from slice and node names.
//
// Backends that keep a flat namespace per project (such as Hetzner Cloud)
// need globally unique names, so every resource name is prefixed with the
// slice name.
package naming
