package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imamik/slicectl/internal/util/retry"
)

// Timeouts holds all configurable timeout and retry values.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Interval between readiness polls
	WaitReady         time.Duration // Overall readiness deadline
	MaxPollRetries    int           // Consecutive transient poll failures tolerated
	RetryInitialDelay time.Duration // First backoff delay after a transient failure
	RetryMaxDelay     time.Duration // Backoff cap
	RetryMaxAttempts  int           // Retries for locked backend resources
	ServerCreate      time.Duration // Timeout for a single server create call
	Delete            time.Duration // Timeout for all delete operations
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - SLICECTL_POLL_INTERVAL (default: 10s)
//   - SLICECTL_WAIT_TIMEOUT (default: 20m)
//   - SLICECTL_MAX_POLL_RETRIES (default: 5)
//   - SLICECTL_RETRY_INITIAL_DELAY (default: 2s)
//   - SLICECTL_RETRY_MAX_DELAY (default: 1m)
//   - HCLOUD_RETRY_MAX_ATTEMPTS (default: 5)
//   - HCLOUD_TIMEOUT_SERVER_CREATE (default: 2m)
//   - HCLOUD_TIMEOUT_DELETE (default: 5m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("SLICECTL_POLL_INTERVAL", 10*time.Second),
		WaitReady:         parseDuration("SLICECTL_WAIT_TIMEOUT", 20*time.Minute),
		MaxPollRetries:    parseInt("SLICECTL_MAX_POLL_RETRIES", 5),
		RetryInitialDelay: parseDuration("SLICECTL_RETRY_INITIAL_DELAY", 2*time.Second),
		RetryMaxDelay:     parseDuration("SLICECTL_RETRY_MAX_DELAY", time.Minute),
		RetryMaxAttempts:  parseInt("HCLOUD_RETRY_MAX_ATTEMPTS", 5),
		ServerCreate:      parseDuration("HCLOUD_TIMEOUT_SERVER_CREATE", 2*time.Minute),
		Delete:            parseDuration("HCLOUD_TIMEOUT_DELETE", 5*time.Minute),
	}
}

// PollPolicy returns the backoff policy applied to transient poll failures.
func (t *Timeouts) PollPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:   t.MaxPollRetries,
		InitialDelay: t.RetryInitialDelay,
		MaxDelay:     t.RetryMaxDelay,
		Multiplier:   2,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a non-negative integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
