package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	var waits []time.Duration
	r := NewRetrier(fastConfig())
	r.OnRetry = func(attempt int, delay time.Duration, err error) {
		waits = append(waits, delay)
	}

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	calls := 0
	boom := errors.New("timeout")
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestRetry_Permanent(t *testing.T) {
	calls := 0
	denied := errors.New("unauthorized")
	err := NewRetrier(fastConfig()).Do(context.Background(), func() error {
		calls++
		return Permanent(denied)
	})

	assert.Same(t, denied, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, Permanent(nil))
}

func TestRetry_ContextCancelled(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewRetrier(cfg).Do(ctx, func() error { return errors.New("unreachable") })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
