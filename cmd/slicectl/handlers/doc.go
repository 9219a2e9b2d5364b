// Package handlers implements the slicectl commands.
//
// Handlers build the provisioning client for the selected backend, run the
// orchestrator or inspector and render the result. Backend construction,
// the clock and the output writers are package variables so tests can
// replace them.
package handlers
