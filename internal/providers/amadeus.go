package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/metrics"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

const (
	opToken        = "token"
	opFlightOffers = "flight-offers"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512

	// tokenExpiryMargin is subtracted from expires_in before caching.
	tokenExpiryMargin = 30 * time.Second
)

var amadeusHosts = map[string]string{
	"test": "https://test.api.amadeus.com",
	"prod": "https://api.amadeus.com",
}

type AmadeusConfig struct {
	APIKey    string
	APISecret string
	Env       string
	Version   string
	Timeout   time.Duration
	// BaseURL overrides the host selected by Env.
	BaseURL string
}

func DefaultAmadeusConfig() AmadeusConfig {
	return AmadeusConfig{
		Env:     "test",
		Version: "v2",
		Timeout: 30 * time.Second,
	}
}

type AmadeusProvider struct {
	cfg      AmadeusConfig
	baseURL  string
	client   *http.Client
	tokens   cache.TokenStore
	limiter  *ratelimit.EndpointLimiter
	tokenKey string
}

// NewAmadeusProvider rejects environments other than "test" and "prod".
// tokens and limiter may be nil.
func NewAmadeusProvider(cfg AmadeusConfig, tokens cache.TokenStore, limiter *ratelimit.EndpointLimiter) (*AmadeusProvider, error) {
	env := strings.ToLower(strings.TrimSpace(cfg.Env))
	host, ok := amadeusHosts[env]
	if !ok {
		return nil, models.ErrUnsupportedEnv
	}
	cfg.Env = env
	if cfg.BaseURL != "" {
		host = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Version == "" {
		cfg.Version = "v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if tokens == nil {
		tokens = cache.NewMemoryTokenStore()
	}

	return &AmadeusProvider{
		cfg:      cfg,
		baseURL:  host,
		client:   &http.Client{},
		tokens:   tokens,
		limiter:  limiter,
		tokenKey: cache.TokenKey(env, cfg.APIKey, cfg.APISecret),
	}, nil
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) Search(ctx context.Context, q models.Query) (json.RawMessage, error) {
	auth, err := p.authorization(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.limiter.Wait(ctx, ratelimit.EndpointFlightOffers); err != nil {
		return nil, NewUpstreamError(p.Name(), opFlightOffers, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.searchURL(q), nil)
	if err != nil {
		return nil, NewUpstreamError(p.Name(), opFlightOffers, err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/vnd.amadeus+json")

	start := time.Now()
	body, err := p.do(req, opFlightOffers)
	metrics.ObserveUpstream(p.Name(), opFlightOffers, start, err)
	if err != nil {
		return nil, err
	}

	slog.Debug("flight offers received",
		"origin", q.Origin,
		"destination", q.Destination,
		"departure", q.Departure.Format(timefmt.DateLayout),
		"bytes", len(body),
		"elapsed_ms", time.Since(start).Milliseconds())

	return json.RawMessage(body), nil
}

func (p *AmadeusProvider) searchURL(q models.Query) string {
	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Departure.Format(timefmt.DateLayout))
	if q.Return != nil {
		params.Set("returnDate", q.Return.Format(timefmt.DateLayout))
	}
	adults := q.Adults
	if adults < 1 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	params.Set("children", "0")
	params.Set("infants", "0")
	params.Set("travelClass", "ECONOMY")
	params.Set("currencyCode", "USD")

	return p.baseURL + "/" + p.cfg.Version + "/shopping/flight-offers?" + params.Encode()
}

// authorization returns the Authorization header value, reusing a stored
// token while it is valid.
func (p *AmadeusProvider) authorization(ctx context.Context) (string, error) {
	if token, ok := p.tokens.Get(ctx, p.tokenKey); ok {
		metrics.TokenCache.WithLabelValues("hit").Inc()
		return token, nil
	}
	metrics.TokenCache.WithLabelValues("miss").Inc()

	token, ttl, err := p.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	if err := p.tokens.Set(ctx, p.tokenKey, token, ttl); err != nil {
		slog.Warn("failed to store access token", "error", err)
	}
	return token, nil
}

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (p *AmadeusProvider) fetchToken(ctx context.Context) (string, time.Duration, error) {
	if err := p.limiter.Wait(ctx, ratelimit.EndpointToken); err != nil {
		return "", 0, NewUpstreamError(p.Name(), opToken, err)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.APIKey)
	form.Set("client_secret", p.cfg.APISecret)

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost,
		p.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, NewUpstreamError(p.Name(), opToken, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	body, err := p.do(req, opToken)
	metrics.ObserveUpstream(p.Name(), opToken, start, err)
	if err != nil {
		return "", 0, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, NewUpstreamError(p.Name(), opToken, fmt.Errorf("decode token response: %w", err))
	}
	if tr.AccessToken == "" {
		return "", 0, NewUpstreamError(p.Name(), opToken, errors.New("token response has no access_token"))
	}

	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryMargin

	return tokenType + " " + tr.AccessToken, ttl, nil
}

// do sends req and returns the body of a 2xx response.
func (p *AmadeusProvider) do(req *http.Request, op string) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(req.Context(), err) {
			return nil, NewUpstreamError(p.Name(), op, ErrTimeout)
		}
		return nil, NewUpstreamError(p.Name(), op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(req.Context(), err) {
			return nil, NewUpstreamError(p.Name(), op, ErrTimeout)
		}
		return nil, NewUpstreamError(p.Name(), op, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(body)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &UpstreamRequestError{
			Provider:   p.Name(),
			Operation:  op,
			StatusCode: resp.StatusCode,
			Body:       text,
		}
	}

	return body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
