package translate

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// breakerProvider wraps a Provider in a circuit breaker. When a backend
// keeps failing, the breaker opens and calls fail immediately; the
// scheduler then resolves those units through the fallback path instead of
// waiting out one timeout per paragraph.
type breakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker
}

// WithBreaker wraps a provider in a circuit breaker.
func WithBreaker(p Provider) Provider {
	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &breakerProvider{
		inner:   p,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerProvider) Name() string {
	return b.inner.Name()
}

func (b *breakerProvider) IsAvailable() error {
	return b.inner.IsAvailable()
}

func (b *breakerProvider) Translate(ctx context.Context, text, target string) (string, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.Translate(ctx, text, target)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
