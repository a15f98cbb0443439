package service

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	LinearBackOffStrategy      = "linear"
	ExponentialBackOffStrategy = "exponential"
)

// LinearBackOff waits Base, 2*Base, 3*Base, ... between consecutive retries.
type LinearBackOff struct {
	Base    time.Duration
	attempt int
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.Base * time.Duration(b.attempt)
}

func (b *LinearBackOff) Reset() {
	b.attempt = 0
}

// NewRetryBackOff returns a factory for the per-batch retry delay policy.
func NewRetryBackOff(strategy string, base time.Duration) (func() backoff.BackOff, error) {
	if base < 0 {
		return nil, fmt.Errorf("backoff base must not be negative, got %s", base)
	}
	switch strategy {
	case "", LinearBackOffStrategy:
		return func() backoff.BackOff {
			return &LinearBackOff{Base: base}
		}, nil
	case ExponentialBackOffStrategy:
		return func() backoff.BackOff {
			eb := backoff.NewExponentialBackOff()
			eb.InitialInterval = base
			eb.MaxInterval = 8 * base
			eb.MaxElapsedTime = 0
			eb.Reset()
			return eb
		}, nil
	default:
		return nil, fmt.Errorf("unknown backoff strategy %q", strategy)
	}
}
