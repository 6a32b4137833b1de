package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrUnavailable is returned while the breaker is open or the rate limit
// cannot be met before the context expires.
var ErrUnavailable = errors.New("ai assist temporarily unavailable")

// GuardSettings configures Guarded.
type GuardSettings struct {
	// RPS and Burst bound outbound calls; RPS <= 0 disables limiting.
	RPS   float64
	Burst int
	// FailureThreshold consecutive failures open the breaker for OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func DefaultGuardSettings() GuardSettings {
	return GuardSettings{RPS: 2, Burst: 4, FailureThreshold: 5, OpenTimeout: 30 * time.Second}
}

// Guarded wraps an LLMClient with a rate limiter and a circuit breaker.
type Guarded struct {
	next    LLMClient
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewGuarded(name string, next LLMClient, s GuardSettings) *Guarded {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = DefaultGuardSettings().FailureThreshold
	}
	g := &Guarded{next: next}
	if s.RPS > 0 {
		burst := s.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(s.RPS), burst)
	}
	threshold := s.FailureThreshold
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// caller cancellations say nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("ai assist breaker state changed")
		},
	})
	return g
}

func (g *Guarded) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Complete(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state ("closed", "half-open", "open").
func (g *Guarded) State() string {
	return g.breaker.State().String()
}
