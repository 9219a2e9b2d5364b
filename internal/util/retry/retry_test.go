package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Equal(t, 4, attempts, "1 attempt plus 3 retries")
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func() error {
		attempts++
		return errors.New("error")
	}, WithInitialDelay(10*time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return Fatal(errors.New("fatal error"))
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestBackoff_Sequence(t *testing.T) {
	t.Parallel()
	b := NewBackoff(Policy{InitialDelay: 100 * time.Millisecond, MaxDelay: 350 * time.Millisecond, Multiplier: 2})

	assert.Equal(t, 100*time.Millisecond, b.Next())
	assert.Equal(t, 200*time.Millisecond, b.Next())
	assert.Equal(t, 350*time.Millisecond, b.Next())
	assert.Equal(t, 350*time.Millisecond, b.Next(), "delay stays capped")

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Next())
}

func TestBackoff_Defaults(t *testing.T) {
	t.Parallel()
	b := NewBackoff(Policy{InitialDelay: time.Second})

	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, time.Second, b.Next(), "zero multiplier and max delay keep the delay constant")
}

func TestSleep(t *testing.T) {
	t.Parallel()
	require.NoError(t, Sleep(context.Background(), time.Millisecond))
	require.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestFatal(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))

	sentinel := errors.New("sentinel")
	err := fmt.Errorf("context: %w", Fatal(sentinel))
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "context: sentinel", err.Error())
	assert.False(t, IsFatal(sentinel))
}
