package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

// CabinPlaceholder is used when a segment has no matching fare detail.
const CabinPlaceholder = "Cabin Type"

// Segment is one non-stop flight inside an itinerary. Offer and
// itinerary level fields are copied onto every segment.
type Segment struct {
	OfferPrice       string           `json:"offer_price"`
	Amount           decimal.Decimal  `json:"-"`
	Currency         string           `json:"currency"`
	TotalDuration    timefmt.Duration `json:"total_duration"`
	BookableSeats    int              `json:"bookable_seats"`
	ID               string           `json:"segment_id"`
	Itinerary        int              `json:"itinerary"`
	DepartureAirport string           `json:"departure_airport"`
	DepartureTime    time.Time        `json:"departure_time"`
	ArrivalAirport   string           `json:"arrival_airport"`
	ArrivalTime      time.Time        `json:"arrival_time"`
	CarrierCode      string           `json:"carrier_code"`
	FlightNumber     string           `json:"flight_number"`
	AircraftCode     string           `json:"aircraft_code"`
	Stops            int              `json:"stops"`
	Duration         timefmt.Duration `json:"duration"`
	Cabin            string           `json:"cabin"`
}

// segmentJSON carries departure and arrival as zone-less local times.
type segmentJSON struct {
	plainSegment
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

type plainSegment Segment

// MarshalJSON writes departure and arrival in the wall-clock layout they
// were received in, without a zone designator.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(segmentJSON{
		plainSegment:  plainSegment(s),
		DepartureTime: s.DepartureTime.Format(timefmt.TimestampLayout),
		ArrivalTime:   s.ArrivalTime.Format(timefmt.TimestampLayout),
	})
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var aux segmentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	dep, err := timefmt.ParseTimestamp(aux.DepartureTime)
	if err != nil {
		return err
	}
	arr, err := timefmt.ParseTimestamp(aux.ArrivalTime)
	if err != nil {
		return err
	}
	*s = Segment(aux.plainSegment)
	s.DepartureTime, s.ArrivalTime = dep, arr
	return nil
}

// Offer is one priced option from a search response. Segments keep
// itinerary-then-segment traversal order.
type Offer struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Segments []Segment `json:"segments"`
}

func OfferKey(id string) string {
	return "flight_offer_" + id
}

// SegmentKey returns the synthetic key of the i-th segment (0-based).
func SegmentKey(i int) string {
	return "flight_" + strconv.Itoa(i+1)
}

func (o Offer) Lookup(key string) (Segment, bool) {
	for i, s := range o.Segments {
		if SegmentKey(i) == key {
			return s, true
		}
	}
	return Segment{}, false
}

// Keyed returns the segment-key mapping of the offer.
func (o Offer) Keyed() map[string]Segment {
	out := make(map[string]Segment, len(o.Segments))
	for i, s := range o.Segments {
		out[SegmentKey(i)] = s
	}
	return out
}

// Itineraries returns the number of distinct itineraries in the offer.
func (o Offer) Itineraries() int {
	n := 0
	for _, s := range o.Segments {
		if s.Itinerary+1 > n {
			n = s.Itinerary + 1
		}
	}
	return n
}

// Leg is a run of consecutive segments ending at a major stop.
type Leg struct {
	Key      string    `json:"key"`
	Segments []Segment `json:"segments"`
}

const RemainingLegKey = "remaining_leg"

func LegKey(n int) string {
	return "leg_" + strconv.Itoa(n)
}

type Location struct {
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Dictionaries is the lookup block shared by all offers of one response.
type Dictionaries struct {
	Carriers  map[string]string   `json:"carriers"`
	Aircraft  map[string]string   `json:"aircraft"`
	Locations map[string]Location `json:"locations"`
}
