package entity

import "time"

// AttemptOutcome is the classified result of a single endpoint invocation
type AttemptOutcome string

const (
	AttemptOutcomeSuccess      AttemptOutcome = "success"
	AttemptOutcomeSlow         AttemptOutcome = "slow"
	AttemptOutcomeRetryable    AttemptOutcome = "retryable"
	AttemptOutcomeFatal        AttemptOutcome = "fatal"
	AttemptOutcomeUnclassified AttemptOutcome = "unclassified"
)

// RetryAttempt records one pass through the retry loop.
// Index is zero-based; Code is set for remote errors only.
type RetryAttempt struct {
	Index   int
	Elapsed time.Duration
	Outcome AttemptOutcome
	Code    string
}

// Succeeded reports whether the attempt produced a usable response,
// including a slow response that was discarded in favour of a retry.
func (a RetryAttempt) Succeeded() bool {
	return a.Outcome == AttemptOutcomeSuccess || a.Outcome == AttemptOutcomeSlow
}
