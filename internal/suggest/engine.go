package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/airports"
	"github.com/dharmasatrya/flightfinder/internal/metrics"
)

const (
	DefaultRadiusMiles    = 30.0
	DefaultMatchThreshold = 60.0

	// coordinateTolerance is how close, in degrees, an indexed point must be
	// to a catalog record to be attributed to it.
	coordinateTolerance = 1e-5
)

// NoMatchError is returned when the input resembles no known city.
type NoMatchError struct {
	Input     string
	BestMatch string
	Score     float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching city found for %q, perhaps it is misspelled? enter a valid city name or airport code", e.Input)
}

type Suggestion struct {
	Airport       airports.Airport
	DistanceMiles float64
}

func (s Suggestion) Label() string {
	return s.Airport.Label()
}

// Suggestions are ordered nearest first.
type Suggestions []Suggestion

// Map returns label to IATA code.
func (s Suggestions) Map() map[string]string {
	out := make(map[string]string, len(s))
	for _, sg := range s {
		out[sg.Label()] = sg.Airport.IATACode
	}
	return out
}

type Engine struct {
	catalog   *airports.Catalog
	geocoder  Geocoder
	index     *Index
	cities    []string
	radius    float64
	threshold float64
}

type Option func(*Engine)

func WithRadius(miles float64) Option {
	return func(e *Engine) {
		if miles > 0 {
			e.radius = miles
		}
	}
}

func WithThreshold(score float64) Option {
	return func(e *Engine) {
		if score > 0 {
			e.threshold = score
		}
	}
}

// NewEngine builds the spatial index and city list once; the engine is
// read-only afterwards and safe for concurrent use.
func NewEngine(catalog *airports.Catalog, geocoder Geocoder, opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog,
		geocoder:  geocoder,
		index:     NewIndex(catalog.All()),
		cities:    catalog.Municipalities(),
		radius:    DefaultRadiusMiles,
		threshold: DefaultMatchThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MatchCity returns the catalog municipality closest to text.
func (e *Engine) MatchCity(text string) (string, error) {
	city, score := BestMatch(text, e.cities)
	if city == "" || score < e.threshold {
		return "", &NoMatchError{Input: text, BestMatch: city, Score: score}
	}
	return city, nil
}

// Suggest resolves free text to large airports within the search radius of
// the best matching city. An empty result is not an error.
func (e *Engine) Suggest(ctx context.Context, text string) (Suggestions, error) {
	city, err := e.MatchCity(text)
	if err != nil {
		metrics.Suggestions.WithLabelValues("no_match").Inc()
		return nil, err
	}

	target, err := e.geocoder.Geocode(ctx, city)
	if err != nil {
		metrics.Suggestions.WithLabelValues("geocode_error").Inc()
		return nil, err
	}

	nearby := e.index.Within(target, e.radius)

	out := make(Suggestions, 0, len(nearby))
	seen := make(map[string]struct{}, len(nearby))
	for _, n := range nearby {
		a, ok := e.matchCoordinates(n.Point)
		if !ok || a.Type != airports.TypeLarge {
			continue
		}
		if _, dup := seen[a.IATACode]; dup {
			continue
		}
		seen[a.IATACode] = struct{}{}
		out = append(out, Suggestion{Airport: a, DistanceMiles: math.Round(n.Miles*100) / 100})
	}

	slog.Debug("airport suggestions",
		"input", text,
		"city", city,
		"nearby", len(nearby),
		"suggestions", len(out))
	metrics.Suggestions.WithLabelValues("ok").Inc()

	return out, nil
}

// matchCoordinates returns the first catalog record within tolerance of p.
func (e *Engine) matchCoordinates(p Point) (airports.Airport, bool) {
	for _, a := range e.catalog.All() {
		if math.Abs(p.Lat-a.Latitude) < coordinateTolerance && math.Abs(p.Lon-a.Longitude) < coordinateTolerance {
			return a, true
		}
	}
	return airports.Airport{}, false
}

// IsAirportCode reports whether text is a catalog IATA code.
func (e *Engine) IsAirportCode(text string) bool {
	_, ok := e.catalog.Lookup(strings.TrimSpace(text))
	return ok
}
