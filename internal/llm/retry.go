package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

// Backoff selects how the wait between attempts grows.
type Backoff string

const (
	BackoffFixed       Backoff = "fixed"
	BackoffExponential Backoff = "exponential"
)

// RetryMode selects which failures are retried.
type RetryMode string

const (
	// RetryAll retries every failure, including ones marked permanent.
	RetryAll RetryMode = "all"
	// RetryTransient gives up immediately on failures marked core.ErrPermanent.
	RetryTransient RetryMode = "transient"
)

// DefaultRetryDelay is the wait between attempts of the default policy.
const DefaultRetryDelay = 15 * time.Second

// RetryPolicy decides whether and when a failed model call is attempted again.
// The zero value of MaxAttempts and MaxElapsed means "no limit".
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     Backoff
	MaxDelay    time.Duration
	MaxElapsed  time.Duration
	Mode        RetryMode
}

// DefaultRetryPolicy retries every failure forever with a fixed 15 second wait.
// Only the caller's context can end it without a success.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Delay:   DefaultRetryDelay,
		Backoff: BackoffFixed,
		Mode:    RetryAll,
	}
}

// RetryPolicyFromConfig converts the configured retry settings.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.Delay,
		Backoff:     Backoff(cfg.Backoff),
		MaxDelay:    cfg.MaxDelay,
		MaxElapsed:  cfg.MaxElapsed,
		Mode:        RetryMode(cfg.Mode),
	}
}

// delayFor returns the wait after the given number of consecutive failures.
func (p RetryPolicy) delayFor(failures int) time.Duration {
	if p.Backoff != BackoffExponential || failures <= 1 {
		return p.capped(p.Delay)
	}
	d := p.Delay
	for i := 1; i < failures; i++ {
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			break
		}
		if d > time.Duration(1<<62)/2 {
			break
		}
		d *= 2
	}
	return p.capped(d)
}

func (p RetryPolicy) capped(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Mode == RetryTransient && errors.Is(err, core.ErrPermanent) {
		return false
	}
	return true
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext waits for d or until ctx is done, without blocking other goroutines.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retrier executes an operation under a RetryPolicy.
type retrier struct {
	policy    RetryPolicy
	sleep     sleepFunc
	now       func() time.Time
	onFailure func(attempt int, err error, wait time.Duration)
}

func (r *retrier) do(ctx context.Context, fn func(ctx context.Context) error) error {
	start := r.now()
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w (last error: %v)", ctxErr, err)
		}
		if !r.policy.retryable(err) {
			return &core.RetryExhaustedError{Attempts: attempt, Reason: "error is not retryable", Last: err}
		}
		if r.policy.MaxAttempts > 0 && attempt >= r.policy.MaxAttempts {
			return &core.RetryExhaustedError{Attempts: attempt, Reason: "max attempts reached", Last: err}
		}

		wait := r.policy.delayFor(attempt)
		if r.policy.MaxElapsed > 0 && r.now().Sub(start)+wait > r.policy.MaxElapsed {
			return &core.RetryExhaustedError{Attempts: attempt, Reason: "max elapsed time reached", Last: err}
		}

		if r.onFailure != nil {
			r.onFailure(attempt, err, wait)
		}
		if sleepErr := r.sleep(ctx, wait); sleepErr != nil {
			return fmt.Errorf("%w (last error: %v)", sleepErr, err)
		}
	}
}
