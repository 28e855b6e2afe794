package usecase

import (
	"context"
	"errors"
	"time"

	"shop-billing-service/internal/domain"
)

// retryPolicy retries transient store failures with exponential backoff.
// Only domain.ErrOperationFailed is considered retryable; validation and
// business outcomes are returned immediately.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: 3, backoff: 100 * time.Millisecond}
}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	if p.attempts <= 0 {
		p.attempts = 1
	}
	var err error
	for i := 0; i < p.attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrOperationFailed) {
			return err
		}
		if i == p.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(p.backoff << i):
		}
	}
	return err
}
