package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/metrics"
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Point, error)
}

// GeocodeError is returned when a place cannot be resolved.
type GeocodeError struct {
	Place string
	Err   error
}

func (e *GeocodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not find coordinates for %q: %v", e.Place, e.Err)
	}
	return fmt.Sprintf("could not find coordinates for %q", e.Place)
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func DefaultNominatimConfig() NominatimConfig {
	return NominatimConfig{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "flightfinder/1.0",
		Timeout:   10 * time.Second,
	}
}

// NominatimGeocoder queries the OpenStreetMap Nominatim search API and takes
// its single best result.
type NominatimGeocoder struct {
	cfg    NominatimConfig
	client *http.Client
}

func NewNominatimGeocoder(cfg NominatimConfig) *NominatimGeocoder {
	def := DefaultNominatimConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &NominatimGeocoder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (Point, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Point{}, &GeocodeError{Place: place, Err: err}
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	p, err := g.do(req)
	metrics.ObserveUpstream("nominatim", "search", start, err)
	if err != nil {
		return Point{}, &GeocodeError{Place: place, Err: err}
	}
	return p, nil
}

func (g *NominatimGeocoder) do(req *http.Request) (Point, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return Point{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Point{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return Point{}, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		return Point{}, errors.New("no results")
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}
