package retry

import (
	"context"
	"math"
	"fmt"
	"time"

	"github.com/AlexZinkM/devnet-wallet/internal/logger"

	"go.uber.org/zap"
)

const (
	// Airdrop defaults: one retry after 2^1 * 1000ms
	DefaultMaxAttempts = 2
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 60 * time.Second
)

// Policy bounds a retry loop
type Policy struct {
	MaxAttempts int           // total attempts including the first, at least 1
	BaseDelay   time.Duration // wait after attempt n is BaseDelay * 2^n
	MaxDelay    time.Duration // cap for a single wait, 0 means no cap
}

// DefaultPolicy returns the airdrop policy: 2 attempts, 1s base delay
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Backoff returns the wait after failed attempt n (1-based).
// Logic: BaseDelay * 2^n, capped at MaxDelay. The result never overflows and never decreases with n.
func (p Policy) Backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 30 {
		attempt = 30
	}

	// compare before shifting, BaseDelay * 2^n can overflow int64
	if p.MaxDelay > 0 && p.BaseDelay > p.MaxDelay>>attempt {
		return p.MaxDelay
	}
	if p.BaseDelay > math.MaxInt64>>attempt {
		return math.MaxInt64
	}

	backoff := p.BaseDelay << attempt
	if p.MaxDelay > 0 && backoff > p.MaxDelay {
		return p.MaxDelay
	}
	return backoff
}

// State is a step of the retry state machine:
// Requested -> {Success | RateLimited -> BackoffWait -> Requested | Failed}
type State int

const (
	StateRequested State = iota
	StateRetryable
	StateBackoffWait
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateRetryable:
		return "retryable"
	case StateBackoffWait:
		return "backoff_wait"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExhaustedError is returned when every attempt failed with a retryable error
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Observer is called on every state transition
type Observer func(state State, attempt int, err error)

type runner struct {
	name     string
	log      *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	observer Observer
}

// Option configures Do
type Option func(*runner)

// WithName labels log lines with the operation name
func WithName(name string) Option {
	return func(r *runner) { r.name = name }
}

// WithLogger sets the logger for state transitions
func WithLogger(log *zap.Logger) Option {
	return func(r *runner) { r.log = logger.OrNop(log) }
}

// WithSleep replaces the backoff timer
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *runner) { r.sleep = sleep }
}

// WithObserver registers a state transition callback
func WithObserver(o Observer) Option {
	return func(r *runner) { r.observer = o }
}

// Do calls op until it succeeds, returns a non-retryable error, or attempts run out.
// It returns the value, the number of attempts made and the final error.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error), isRetryable func(error) bool, opts ...Option) (T, int, error) {
	r := &runner{
		name:  "operation",
		log:   zap.NewNop(),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var zero T
	for attempt := 1; ; attempt++ {
		r.transition(StateRequested, attempt, nil)

		value, err := op(ctx)
		if err == nil {
			r.transition(StateSuccess, attempt, nil)
			return value, attempt, nil
		}

		if isRetryable == nil || !isRetryable(err) {
			r.transition(StateFailed, attempt, err)
			return zero, attempt, err
		}

		r.transition(StateRetryable, attempt, err)
		if attempt >= maxAttempts {
			r.transition(StateFailed, attempt, err)
			return zero, attempt, &ExhaustedError{Attempts: attempt, Err: err}
		}

		delay := p.Backoff(attempt)
		r.log.Info("retrying after delay",
			zap.String("op", r.name),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
		)
		r.transition(StateBackoffWait, attempt, err)
		if err := r.sleep(ctx, delay); err != nil {
			r.transition(StateFailed, attempt, err)
			return zero, attempt, err
		}
	}
}

func (r *runner) transition(state State, attempt int, err error) {
	fields := []zap.Field{
		zap.String("op", r.name),
		zap.Stringer("state", state),
		zap.Int("attempt", attempt),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.log.Debug("retry state", fields...)

	if r.observer != nil {
		r.observer(state, attempt, err)
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
