package gridbase

import (
	"strconv"
	"strings"
	"time"
)

// Retry defaults.
const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = 500 * time.Millisecond
)

// defaultRetryableStatuses are the statuses retried when none are configured:
// rate limiting plus the transient server-side failures.
var defaultRetryableStatuses = []int{
	429, // Too Many Requests; see NoRetryIfRateLimited
	500, // Internal Server Error
	502, // Bad Gateway
	503, // Service Unavailable
	504, // Gateway Timeout
}

// RetryPolicy governs which responses are retried and how long to back off
// between attempts.
type RetryPolicy struct {
	// MaxRetries bounds the number of retried attempts. A request is
	// performed at most MaxRetries+1 times.
	MaxRetries int

	// InitialDelay is the un-jittered backoff for the first retry; each
	// subsequent retry doubles it.
	InitialDelay time.Duration

	// RetryableStatuses is the set of statuses eligible for retry.
	RetryableStatuses []int

	// NoRetryIfRateLimited excludes status 429 from retry even when it is a
	// member of RetryableStatuses. This switch takes precedence over set
	// membership.
	NoRetryIfRateLimited bool
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	if len(p.RetryableStatuses) == 0 {
		p.RetryableStatuses = defaultRetryableStatuses
	}
	return p
}

// shouldRetry reports whether the attempt-th response with the given status
// is eligible for another attempt.
func (p RetryPolicy) shouldRetry(attempt, status int) bool {
	if attempt >= p.MaxRetries {
		return false
	}
	if status == 429 && p.NoRetryIfRateLimited {
		return false
	}
	for _, s := range p.RetryableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// backoff computes the delay before the next attempt. A retry-delay hint that
// parses as a positive number of seconds is honored verbatim and takes full
// precedence over computed backoff. Otherwise the delay is
// InitialDelay x 2^attempt plus additive jitter of up to 20% of that base, so
// the final delay is always >= the un-jittered exponential base.
func (p RetryPolicy) backoff(attempt int, retryAfter string, jitter func() float64) time.Duration {
	if hint := strings.TrimSpace(retryAfter); hint != "" {
		if secs, err := strconv.ParseFloat(hint, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	base := p.backoffBase(attempt)
	return base + time.Duration(jitter()*0.2*float64(base))
}

// backoffBase is the un-jittered exponential component.
func (p RetryPolicy) backoffBase(attempt int) time.Duration {
	return p.InitialDelay << uint(attempt)
}
