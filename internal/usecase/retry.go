package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/entity"
	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
	"github.com/ressKim-io/shopper-predict/api-service/internal/infrastructure/metrics"
)

// Error definitions for endpoint invocation
var (
	ErrEndpointUnavailable = errors.New("endpoint unavailable after retries")
	ErrEndpointError       = errors.New("endpoint error")
	ErrUnexpected          = errors.New("unexpected error")
)

// maxBackoffExponent keeps 2^attempt from overflowing a time.Duration
const maxBackoffExponent = 20

// RetryPolicy configures the retry loop around endpoint invocations
type RetryPolicy struct {
	MaxAttempts   int
	SlowThreshold time.Duration
	SlowPause     time.Duration
	BackoffUnit   time.Duration
}

// DefaultRetryPolicy returns three attempts, a 5s slowness threshold,
// a 1s pause after slow responses and 2^attempt second backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		SlowThreshold: 5 * time.Second,
		SlowPause:     time.Second,
		BackoffUnit:   time.Second,
	}
}

// Backoff returns the pause after a failed zero-based attempt
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt > maxBackoffExponent {
		attempt = maxBackoffExponent
	}
	return p.BackoffUnit * time.Duration(1<<attempt)
}

// SleepFunc pauses for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryResult is a successful endpoint response and the attempts it took
type RetryResult struct {
	Result   *service.InvokeResult
	Attempts []entity.RetryAttempt
}

// Retrier invokes an endpoint under a retry policy
type Retrier interface {
	Execute(ctx context.Context, features []float64) (*RetryResult, error)
}

type retryState int

const (
	stateAttempting retryState = iota
	stateBackoff
	stateSucceeded
	stateFailedRetryable
	stateFailedFatal
)

// transition is the evaluated result of one attempt
type transition struct {
	attempt entity.RetryAttempt
	next    retryState
	pause   time.Duration
	err     error
}

// RetryController wraps an Endpoint with bounded retries.
// Every remote failure is translated into one of ErrEndpointError,
// ErrEndpointUnavailable or ErrUnexpected before it leaves Execute.
type RetryController struct {
	endpoint service.Endpoint
	policy   RetryPolicy
	sleep    SleepFunc
	logger   *zap.Logger
}

// RetryOption customises a RetryController
type RetryOption func(*RetryController)

// WithSleepFunc replaces the timer-based pause
func WithSleepFunc(fn SleepFunc) RetryOption {
	return func(r *RetryController) {
		r.sleep = fn
	}
}

// NewRetryController creates a new retry controller
func NewRetryController(endpoint service.Endpoint, policy RetryPolicy, logger *zap.Logger, opts ...RetryOption) *RetryController {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &RetryController{
		endpoint: endpoint,
		policy:   policy,
		sleep:    sleepContext,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute invokes the endpoint until it succeeds, fails fatally or the
// attempts run out.
func (r *RetryController) Execute(ctx context.Context, features []float64) (*RetryResult, error) {
	attempts := make([]entity.RetryAttempt, 0, r.policy.MaxAttempts)
	state := stateAttempting

	for i := 0; i < r.policy.MaxAttempts && state == stateAttempting; i++ {
		result, err := r.endpoint.Invoke(ctx, features)
		t := r.evaluate(i, result, err)
		attempts = append(attempts, t.attempt)
		r.observe(t)

		switch t.next {
		case stateSucceeded:
			return &RetryResult{Result: result, Attempts: attempts}, nil

		case stateFailedFatal:
			return &RetryResult{Attempts: attempts}, t.err

		case stateFailedRetryable:
			return &RetryResult{Attempts: attempts},
				fmt.Errorf("%w (last error: %s)", ErrEndpointUnavailable, t.attempt.Code)

		case stateBackoff:
			state = stateBackoff
			if err := r.sleep(ctx, t.pause); err != nil {
				return &RetryResult{Attempts: attempts}, fmt.Errorf("%w: %v", ErrEndpointUnavailable, err)
			}
			state = stateAttempting
		}
	}

	return &RetryResult{Attempts: attempts}, ErrEndpointUnavailable
}

// evaluate decides what follows a single attempt. Slow successes are
// discarded while attempts remain and accepted on the last one.
func (r *RetryController) evaluate(i int, result *service.InvokeResult, err error) transition {
	last := i == r.policy.MaxAttempts-1
	attempt := entity.RetryAttempt{Index: i}

	if err == nil {
		attempt.Elapsed = result.Elapsed
		if result.Elapsed > r.policy.SlowThreshold && !last {
			attempt.Outcome = entity.AttemptOutcomeSlow
			return transition{attempt: attempt, next: stateBackoff, pause: r.policy.SlowPause}
		}
		attempt.Outcome = entity.AttemptOutcomeSuccess
		return transition{attempt: attempt, next: stateSucceeded}
	}

	var remoteErr *service.RemoteError
	if errors.As(err, &remoteErr) {
		attempt.Elapsed = remoteErr.Elapsed
		attempt.Code = remoteErr.Code
		if !remoteErr.Retryable() {
			attempt.Outcome = entity.AttemptOutcomeFatal
			return transition{
				attempt: attempt,
				next:    stateFailedFatal,
				err:     fmt.Errorf("%w: %s", ErrEndpointError, remoteErr.Code),
			}
		}
		attempt.Outcome = entity.AttemptOutcomeRetryable
		if last {
			return transition{attempt: attempt, next: stateFailedRetryable}
		}
		return transition{attempt: attempt, next: stateBackoff, pause: r.policy.Backoff(i)}
	}

	attempt.Outcome = entity.AttemptOutcomeUnclassified
	if last {
		return transition{
			attempt: attempt,
			next:    stateFailedFatal,
			err:     fmt.Errorf("%w: %s", ErrUnexpected, err.Error()),
		}
	}
	return transition{attempt: attempt, next: stateBackoff, pause: r.policy.Backoff(i), err: err}
}

func (r *RetryController) observe(t transition) {
	name := r.endpoint.Name()
	metrics.EndpointInvocationsTotal.WithLabelValues(name, string(t.attempt.Outcome)).Inc()
	if t.attempt.Succeeded() {
		metrics.EndpointLatency.WithLabelValues(name).Observe(t.attempt.Elapsed.Seconds())
	}

	fields := []zap.Field{
		zap.String("endpoint", name),
		zap.Int("attempt", t.attempt.Index+1),
		zap.Int("max_attempts", r.policy.MaxAttempts),
		zap.String("outcome", string(t.attempt.Outcome)),
		zap.Duration("elapsed", t.attempt.Elapsed),
	}
	if t.attempt.Code != "" {
		fields = append(fields, zap.String("code", t.attempt.Code))
	}
	if t.err != nil {
		fields = append(fields, zap.Error(t.err))
	}

	switch t.next {
	case stateSucceeded:
		r.logger.Debug("Endpoint invocation succeeded", fields...)
	case stateBackoff:
		r.logger.Warn("Endpoint invocation will be retried", append(fields, zap.Duration("pause", t.pause))...)
	default:
		r.logger.Error("Endpoint invocation failed", fields...)
	}
}

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
