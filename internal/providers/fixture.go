package providers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers/data"
)

var emptyResponse = json.RawMessage(`{"meta":{"count":0},"data":[]}`)

// FixtureProvider serves embedded sample responses so the service can run
// without Amadeus credentials. Dates in the query are ignored.
type FixtureProvider struct {
	routes map[string]json.RawMessage
	delay  time.Duration
}

func NewFixtureProvider(delay time.Duration) (*FixtureProvider, error) {
	raw, err := data.Routes()
	if err != nil {
		return nil, err
	}

	routes := make(map[string]json.RawMessage, len(raw))
	for route, body := range raw {
		routes[strings.ToUpper(route)] = json.RawMessage(body)
	}
	return &FixtureProvider{routes: routes, delay: delay}, nil
}

func (p *FixtureProvider) Name() string {
	return "fixture"
}

func (p *FixtureProvider) Search(ctx context.Context, q models.Query) (json.RawMessage, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, NewUpstreamError(p.Name(), opFlightOffers, ctx.Err())
		}
	}

	body, ok := p.routes[strings.ToUpper(q.Origin)+"-"+strings.ToUpper(q.Destination)]
	if !ok {
		return emptyResponse, nil
	}
	return body, nil
}
