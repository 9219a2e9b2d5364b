// Package async runs independent backend operations concurrently.
//
// [RunParallel] starts every task, bounded by a concurrency limit, waits for
// all of them, and reports every failure rather than only the first one.
// The hcloud backend uses it to create the servers of a slice in parallel.
package async
