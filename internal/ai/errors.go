package ai

import (
	"errors"
	"fmt"
	"time"
)

// QuotaError reports a provider-side rate or billing ceiling. The chain
// must not advance past it: every backend shares the same quota, so
// retrying elsewhere only burns more calls.
type QuotaError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("provider %s quota exceeded (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// TransientError reports a non-quota provider failure. The chain may
// advance to the next backend.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ExhaustedError is terminal: every backend in the chain was tried.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d providers failed, last: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// IsQuota reports whether err carries a quota classification anywhere in
// its chain.
func IsQuota(err error) bool {
	var quota *QuotaError
	return errors.As(err, &quota)
}
