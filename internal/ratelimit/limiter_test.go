package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointLimiter_SameLimiterPerEndpoint(t *testing.T) {
	l := NewEndpointLimiterWithDefaults()

	a := l.GetLimiter(EndpointFlightOffers)
	assert.Same(t, a, l.GetLimiter(EndpointFlightOffers))
	assert.NotSame(t, a, l.GetLimiter(EndpointToken))
}

func TestEndpointLimiter_WaitHonoursContext(t *testing.T) {
	l := NewEndpointLimiter(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	require.NoError(t, l.Wait(context.Background(), EndpointFlightOffers))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, EndpointFlightOffers))
}

func TestEndpointLimiter_SetEndpointLimit(t *testing.T) {
	l := NewEndpointLimiterWithDefaults()
	l.SetEndpointLimit(EndpointToken, RateLimitConfig{RequestsPerSecond: 2, BurstSize: 5})

	assert.Equal(t, 5, l.GetLimiter(EndpointToken).Burst())
	assert.Equal(t, 1, l.GetLimiter(EndpointFlightOffers).Burst())
}

func TestEndpointLimiter_NilNeverBlocks(t *testing.T) {
	var l *EndpointLimiter
	assert.NoError(t, l.Wait(context.Background(), EndpointToken))
}

func TestRateLimitConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, RateLimitConfig{RequestsPerSecond: 0, BurstSize: 1}.Validate())
	assert.Error(t, RateLimitConfig{RequestsPerSecond: 1, BurstSize: 0}.Validate())
}
