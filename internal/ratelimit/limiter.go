package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Endpoint keys used by the Amadeus client.
const (
	EndpointToken        = "amadeus:token"
	EndpointFlightOffers = "amadeus:flight-offers"
)

type EndpointLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults RateLimitConfig
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig matches the Amadeus self-service test quota.
func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         1,
	}
}

func (c RateLimitConfig) Validate() error {
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.BurstSize < 1 {
		return fmt.Errorf("burst size must be at least 1, got %d", c.BurstSize)
	}
	return nil
}

func NewEndpointLimiter(config RateLimitConfig) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewEndpointLimiterWithDefaults() *EndpointLimiter {
	return NewEndpointLimiter(DefaultConfig())
}

func (l *EndpointLimiter) GetLimiter(endpoint string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[endpoint]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[endpoint]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[endpoint] = limiter
	return limiter
}

func (l *EndpointLimiter) SetEndpointLimit(endpoint string, config RateLimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[endpoint] = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.BurstSize)
}

// Wait blocks until the endpoint may be called or ctx is done. A nil
// limiter never blocks.
func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	if l == nil {
		return nil
	}
	return l.GetLimiter(endpoint).Wait(ctx)
}
