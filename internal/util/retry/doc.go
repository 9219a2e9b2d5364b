// Package retry provides exponential backoff for transient failures.
//
// [Do] retries an operation until it succeeds, returns a [Fatal] error,
// exhausts the configured attempts, or the context ends. [Backoff] exposes
// the same capped exponential delay sequence to callers that drive their
// own loop, such as the readiness poller in the provisioning package.
package retry
