package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy holds retry configuration.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy returns the policy used when no options are given.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Option is a functional option for retry configuration.
type Option func(*Policy)

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(p *Policy) {
		p.MaxRetries = n
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		p.Multiplier = m
	}
}

// Backoff yields a capped exponential delay sequence. Not safe for concurrent use.
type Backoff struct {
	policy Policy
	next   time.Duration
}

// NewBackoff returns a Backoff starting at p.InitialDelay.
func NewBackoff(p Policy) *Backoff {
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = p.InitialDelay
	}
	return &Backoff{policy: p, next: p.InitialDelay}
}

// Next returns the current delay and advances the sequence.
func (b *Backoff) Next() time.Duration {
	d := b.next
	grown := time.Duration(float64(b.next) * b.policy.Multiplier)
	if grown > b.policy.MaxDelay {
		grown = b.policy.MaxDelay
	}
	b.next = grown
	return d
}

// Reset restarts the sequence at the initial delay.
func (b *Backoff) Reset() {
	b.next = b.policy.InitialDelay
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do executes operation with exponential backoff. Errors wrapped with
// Fatal are returned immediately without further attempts.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}

	backoff := NewBackoff(p)
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < p.MaxRetries {
			if err := Sleep(ctx, backoff.Next()); err != nil {
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, err)
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", p.MaxRetries+1, lastErr)
}

// FatalError marks an error as non-retryable.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks err as non-retryable. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
