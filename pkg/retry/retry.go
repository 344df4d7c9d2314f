package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Policy describes how many attempts to make and which errors deserve another one.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retriable   func(error) bool
}

// Do runs fn until it succeeds, returns a non-retriable error, the attempts are
// exhausted or ctx is done. Delays grow exponentially from BaseDelay with jitter.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts <= 0 {
		return zero, fmt.Errorf("max attempts must be > 0, got %d", p.MaxAttempts)
	}
	var lastErr error

	for i := range p.MaxAttempts {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retriable == nil || !p.Retriable(err) {
			return zero, err
		}

		if i < p.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(p.delay(i)):
			}
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}

func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(p.BaseDelay))) //nolint:gosec // jitter doesn't need crypto rand
	return time.Duration(math.Pow(2, float64(attempt)))*p.BaseDelay + jitter
}
