package itinerary

import (
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/card"
	"github.com/dharmasatrya/flightfinder/internal/legs"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/offers"
	"github.com/dharmasatrya/flightfinder/internal/stops"
)

// Itinerary is one offer with its legs and display card.
type Itinerary struct {
	Offer          models.Offer `json:"offer"`
	Legs           []models.Leg `json:"legs"`
	Card           card.Card    `json:"card"`
	BestValueScore float64      `json:"best_value_score,omitempty"`
}

type Result struct {
	Itineraries  []Itinerary         `json:"itineraries"`
	MajorStops   []string            `json:"major_stops"`
	Dictionaries models.Dictionaries `json:"dictionaries"`
}

// Assemble runs a raw search response through the parse, stop expansion,
// leg grouping and card steps. requestedStops are usually the searched
// origin and destination.
func Assemble(raw []byte, requestedStops []string) (*Result, error) {
	parsed, err := offers.Parse(raw)
	if err != nil {
		return nil, err
	}

	locations := parsed.Dictionaries.Locations
	alts := stops.BuildAlternatives(locations)
	expanded := stops.ExpandMajorStops(requestedStops, alts, locations)
	majorStops := stops.NewSet(expanded...)

	result := &Result{
		Itineraries:  make([]Itinerary, 0, len(parsed.Offers)),
		MajorStops:   majorStops.Sorted(),
		Dictionaries: parsed.Dictionaries,
	}

	for _, offer := range parsed.Offers {
		grouped := legs.Group(offer.Segments, majorStops)
		result.Itineraries = append(result.Itineraries, Itinerary{
			Offer: offer,
			Legs:  grouped,
			Card:  card.Build(offer.Key, grouped, parsed.Dictionaries.Carriers),
		})
	}

	return result, nil
}

func (it Itinerary) Price() decimal.Decimal {
	if len(it.Offer.Segments) == 0 {
		return decimal.Zero
	}
	return it.Offer.Segments[0].Amount
}

// TotalMinutes sums the durations of the offer's itineraries.
func (it Itinerary) TotalMinutes() int {
	seen := make(map[int]bool)
	total := 0
	for _, s := range it.Offer.Segments {
		if seen[s.Itinerary] {
			continue
		}
		seen[s.Itinerary] = true
		total += s.TotalDuration.TotalMinutes()
	}
	return total
}

// MaxStops is the largest number of connections in any leg.
func (it Itinerary) MaxStops() int {
	most := 0
	for _, l := range it.Legs {
		if n := len(l.Segments) - 1; n > most {
			most = n
		}
	}
	return most
}

func (it Itinerary) CarrierCodes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range it.Offer.Segments {
		if !seen[s.CarrierCode] {
			seen[s.CarrierCode] = true
			out = append(out, s.CarrierCode)
		}
	}
	return out
}

func (it Itinerary) FirstDeparture() (models.Segment, bool) {
	if len(it.Legs) == 0 || len(it.Legs[0].Segments) == 0 {
		return models.Segment{}, false
	}
	return it.Legs[0].Segments[0], true
}
