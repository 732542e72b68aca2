package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// MaxRetries bounds RetryGeneral, about a minute with the default exponential backoff.
var MaxRetries uint64 = 10

// RetryGeneral retries op with an exponential backoff until it succeeds, the retries
// are exhausted or the context is done. Errors wrapped by backoff.Permanent stop it
// immediately.
func RetryGeneral(ctx context.Context, op backoff.Operation) (err error) {
	err = backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			MaxRetries),
		ctx))
	return err
}

// Notify is called with the error of each failed attempt and the delay before the next one.
type Notify = backoff.Notify

// RetryConstant retries op with a fixed delay between the attempts, without a retry
// limit. It stops when op succeeds, when the context is done, or when op fails with one
// of the permanent errors, which is then returned as is.
func RetryConstant(ctx context.Context, delay time.Duration, op func() error, notify Notify, permanent ...error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}

		for _, target := range permanent {
			if errors.Is(err, target) {
				return backoff.Permanent(err)
			}
		}

		return err
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(delay), ctx)
	return backoff.RetryNotify(wrapped, b, notify)
}
