package offers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

// MalformedResponseError reports a structurally invalid search response.
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed response: missing %s", e.Path)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func missing(path string) error {
	return &MalformedResponseError{Path: path}
}

type Result struct {
	Offers       []models.Offer
	Dictionaries models.Dictionaries
}

// Index returns the offers keyed by "flight_offer_{id}". A repeated id keeps
// the last offer.
func (r *Result) Index() map[string]models.Offer {
	out := make(map[string]models.Offer, len(r.Offers))
	for _, o := range r.Offers {
		out[o.Key] = o
	}
	return out
}

// Parse decodes one raw flight-offers response into normalized offers.
// Any structural problem or unparseable timestamp/duration aborts the whole
// response.
func Parse(raw []byte) (*Result, error) {
	var resp rawResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&resp); err != nil {
		return nil, &MalformedResponseError{Path: "$", Err: err}
	}
	if resp.Data == nil {
		return nil, missing("data")
	}

	result := &Result{
		Offers:       make([]models.Offer, 0, len(*resp.Data)),
		Dictionaries: convertDictionaries(resp.Dictionaries),
	}

	for i, ro := range *resp.Data {
		offer, err := parseOffer(ro, fmt.Sprintf("data[%d]", i))
		if err != nil {
			return nil, err
		}
		result.Offers = append(result.Offers, offer)
	}

	return result, nil
}

func parseOffer(ro rawOffer, path string) (models.Offer, error) {
	if ro.ID == nil {
		return models.Offer{}, missing(path + ".id")
	}
	if ro.Price == nil {
		return models.Offer{}, missing(path + ".price")
	}
	if ro.Price.Total == nil {
		return models.Offer{}, missing(path + ".price.total")
	}
	if ro.Price.Currency == nil {
		return models.Offer{}, missing(path + ".price.currency")
	}
	if ro.BookableSeats == nil {
		return models.Offer{}, missing(path + ".numberOfBookableSeats")
	}
	if ro.Itineraries == nil {
		return models.Offer{}, missing(path + ".itineraries")
	}
	if ro.TravelerPricings == nil || len(*ro.TravelerPricings) == 0 {
		return models.Offer{}, missing(path + ".travelerPricings")
	}

	amount, err := decimal.NewFromString(*ro.Price.Total)
	if err != nil {
		return models.Offer{}, &MalformedResponseError{Path: path + ".price.total", Err: err}
	}

	cabins := make(map[string]string)
	for _, fd := range (*ro.TravelerPricings)[0].FareDetailsBySegment {
		if _, seen := cabins[fd.SegmentID]; !seen {
			cabins[fd.SegmentID] = fd.Cabin
		}
	}

	offer := models.Offer{
		ID:  *ro.ID,
		Key: models.OfferKey(*ro.ID),
	}

	for i, it := range *ro.Itineraries {
		itPath := fmt.Sprintf("%s.itineraries[%d]", path, i)
		if it.Duration == nil {
			return models.Offer{}, missing(itPath + ".duration")
		}
		if it.Segments == nil {
			return models.Offer{}, missing(itPath + ".segments")
		}

		total, err := timefmt.ParseDuration(*it.Duration)
		if err != nil {
			return models.Offer{}, fmt.Errorf("%s.duration: %w", itPath, err)
		}

		for j, rs := range *it.Segments {
			segPath := fmt.Sprintf("%s.segments[%d]", itPath, j)
			seg, err := parseSegment(rs, segPath)
			if err != nil {
				return models.Offer{}, err
			}

			seg.OfferPrice = *ro.Price.Total
			seg.Amount = amount
			seg.Currency = *ro.Price.Currency
			seg.BookableSeats = *ro.BookableSeats
			seg.TotalDuration = total
			seg.Itinerary = i
			seg.Cabin = models.CabinPlaceholder
			if cabin, ok := cabins[seg.ID]; ok {
				seg.Cabin = cabin
			}

			offer.Segments = append(offer.Segments, seg)
		}
	}

	return offer, nil
}

func parseSegment(rs rawSegment, path string) (models.Segment, error) {
	switch {
	case rs.ID == nil:
		return models.Segment{}, missing(path + ".id")
	case rs.Departure == nil:
		return models.Segment{}, missing(path + ".departure")
	case rs.Departure.IATACode == nil:
		return models.Segment{}, missing(path + ".departure.iataCode")
	case rs.Departure.At == nil:
		return models.Segment{}, missing(path + ".departure.at")
	case rs.Arrival == nil:
		return models.Segment{}, missing(path + ".arrival")
	case rs.Arrival.IATACode == nil:
		return models.Segment{}, missing(path + ".arrival.iataCode")
	case rs.Arrival.At == nil:
		return models.Segment{}, missing(path + ".arrival.at")
	case rs.CarrierCode == nil:
		return models.Segment{}, missing(path + ".carrierCode")
	case rs.Number == nil:
		return models.Segment{}, missing(path + ".number")
	case rs.Aircraft == nil || rs.Aircraft.Code == nil:
		return models.Segment{}, missing(path + ".aircraft.code")
	case rs.Stops == nil:
		return models.Segment{}, missing(path + ".numberOfStops")
	case rs.Duration == nil:
		return models.Segment{}, missing(path + ".duration")
	}

	dep, err := timefmt.ParseTimestamp(*rs.Departure.At)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s.departure.at: %w", path, err)
	}
	arr, err := timefmt.ParseTimestamp(*rs.Arrival.At)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s.arrival.at: %w", path, err)
	}
	dur, err := timefmt.ParseDuration(*rs.Duration)
	if err != nil {
		return models.Segment{}, fmt.Errorf("%s.duration: %w", path, err)
	}

	return models.Segment{
		ID:               *rs.ID,
		DepartureAirport: *rs.Departure.IATACode,
		DepartureTime:    dep,
		ArrivalAirport:   *rs.Arrival.IATACode,
		ArrivalTime:      arr,
		CarrierCode:      *rs.CarrierCode,
		FlightNumber:     *rs.Number,
		AircraftCode:     *rs.Aircraft.Code,
		Stops:            *rs.Stops,
		Duration:         dur,
	}, nil
}

func convertDictionaries(rd *rawDictionaries) models.Dictionaries {
	d := models.Dictionaries{
		Carriers:  map[string]string{},
		Aircraft:  map[string]string{},
		Locations: map[string]models.Location{},
	}
	if rd == nil {
		return d
	}

	for k, v := range rd.Carriers {
		d.Carriers[k] = v
	}
	for k, v := range rd.Aircraft {
		d.Aircraft[k] = v
	}
	for k, v := range rd.Locations {
		d.Locations[k] = models.Location{CityCode: v.CityCode, CountryCode: v.CountryCode}
	}
	return d
}
