package chictx

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// LoadPolicy configures retry behavior for LoadModule's on-disk source
// reads. It is grounded on the teacher's RetryConfig/ExponentialBackoffRetry
// (graph/retry.go), narrowed to the one failure mode that can plausibly be
// transient here: the filesystem read of a module's .chimod source (a full
// disk, an NFS hiccup, a half-written file from a concurrent editor save).
// A parse or validation failure is never retried through this policy —
// retrying a malformed document re-reads the same bytes and fails the same
// way.
type LoadPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultLoadPolicy mirrors the teacher's DefaultRetryConfig shape and
// constants.
func DefaultLoadPolicy() *LoadPolicy {
	return &LoadPolicy{
		MaxAttempts:   3,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// withRetry runs read with exponential backoff and jitter, per the
// teacher's ExponentialBackoffRetry, stopping as soon as read succeeds or
// attempts are exhausted.
func (p *LoadPolicy) withRetry(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	if p == nil {
		p = DefaultLoadPolicy()
	}

	delay := p.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		data, err := read()
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt == p.MaxAttempts {
			break
		}

		//nolint:gosec // jitter, not security-critical
		jitter := time.Duration(float64(delay) * 0.25 * (2*rand.Float64() - 1))
		wait := delay + jitter

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay = time.Duration(math.Min(float64(delay)*p.BackoffFactor, float64(p.MaxDelay)))
	}

	return nil, fmt.Errorf("chictx: giving up after %d attempts: %w", p.MaxAttempts, lastErr)
}
