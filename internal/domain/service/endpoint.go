package service

import (
	"context"
	"fmt"
	"time"
)

// ErrCodeModelError is the remote classification for a transient model
// failure; it is the only remote code worth retrying.
const ErrCodeModelError = "ModelError"

// InvokeResult is the raw outcome of a single successful endpoint call
type InvokeResult struct {
	Body    string
	Elapsed time.Duration
}

// Endpoint defines a remote inference endpoint.
// Invoke performs exactly one network call and never retries.
type Endpoint interface {
	// Name returns the endpoint identity; empty means unconfigured
	Name() string

	// Invoke sends the feature vector and returns the raw response body
	Invoke(ctx context.Context, features []float64) (*InvokeResult, error)
}

// RemoteError is a failure the remote service classified with an error code
type RemoteError struct {
	Code    string
	Message string
	Elapsed time.Duration
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error %s", e.Code)
	}
	return fmt.Sprintf("remote error %s: %s", e.Code, e.Message)
}

// Retryable reports whether the remote classification is transient
func (e *RemoteError) Retryable() bool {
	return e.Code == ErrCodeModelError
}
