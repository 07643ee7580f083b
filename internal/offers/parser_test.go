package offers_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/offers"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/round_trip.json")
	require.NoError(t, err)
	return raw
}

func TestParse_TwoItinerariesOfTwoSegments(t *testing.T) {
	res, err := offers.Parse(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, res.Offers, 2)

	idx := res.Index()
	offer, ok := idx["flight_offer_1"]
	require.True(t, ok)

	keyed := offer.Keyed()
	require.Len(t, keyed, 4)
	for _, key := range []string{"flight_1", "flight_2", "flight_3", "flight_4"} {
		seg, ok := keyed[key]
		require.True(t, ok, key)
		assert.Equal(t, "612.40", seg.OfferPrice)
		assert.Equal(t, "USD", seg.Currency)
		assert.Equal(t, 4, seg.BookableSeats)
	}

	// itinerary-scoped fields
	assert.Equal(t, keyed["flight_1"].TotalDuration, keyed["flight_2"].TotalDuration)
	assert.Equal(t, keyed["flight_3"].TotalDuration, keyed["flight_4"].TotalDuration)
	assert.Equal(t, "9h 00m", keyed["flight_1"].TotalDuration.String())
	assert.Equal(t, "8h 35m", keyed["flight_3"].TotalDuration.String())
	assert.Equal(t, 0, keyed["flight_2"].Itinerary)
	assert.Equal(t, 1, keyed["flight_3"].Itinerary)

	first := keyed["flight_1"]
	assert.Equal(t, "JFK", first.DepartureAirport)
	assert.Equal(t, "ORD", first.ArrivalAirport)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), first.DepartureTime)
	assert.Equal(t, "AA", first.CarrierCode)
	assert.Equal(t, "100", first.FlightNumber)
	assert.Equal(t, "321", first.AircraftCode)
	assert.Equal(t, "3h 00m", first.Duration.String())
	assert.Equal(t, "612.40", first.Amount.StringFixed(2))
}

func TestParse_CabinFallback(t *testing.T) {
	res, err := offers.Parse(loadFixture(t))
	require.NoError(t, err)

	offer := res.Index()["flight_offer_1"]
	assert.Equal(t, "ECONOMY", offer.Segments[0].Cabin)
	assert.Equal(t, "PREMIUM_ECONOMY", offer.Segments[2].Cabin)
	assert.Equal(t, models.CabinPlaceholder, offer.Segments[3].Cabin)
}

func TestParse_Dictionaries(t *testing.T) {
	res, err := offers.Parse(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "AMERICAN AIRLINES", res.Dictionaries.Carriers["AA"])
	assert.Equal(t, "BOEING 787-9", res.Dictionaries.Aircraft["789"])
	assert.Equal(t, "NYC", res.Dictionaries.Locations["LGA"].CityCode)
}

func TestParse_EmptyDataWithoutDictionaries(t *testing.T) {
	res, err := offers.Parse([]byte(`{"meta":{"count":0},"data":[]}`))
	require.NoError(t, err)
	assert.Empty(t, res.Offers)
	assert.NotNil(t, res.Dictionaries.Locations)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"invalid json", `{"data": [`, "$"},
		{"no data", `{"dictionaries": {}}`, "data"},
		{"no price", `{"data":[{"id":"1","numberOfBookableSeats":1,"itineraries":[],"travelerPricings":[{}]}]}`, "data[0].price"},
		{"no itineraries", `{"data":[{"id":"1","numberOfBookableSeats":1,"price":{"total":"1","currency":"USD"},"travelerPricings":[{}]}]}`, "data[0].itineraries"},
		{"no segments", `{"data":[{"id":"1","numberOfBookableSeats":1,"price":{"total":"1","currency":"USD"},"itineraries":[{"duration":"PT1H"}],"travelerPricings":[{}]}]}`, "data[0].itineraries[0].segments"},
		{"no departure", `{"data":[{"id":"1","numberOfBookableSeats":1,"price":{"total":"1","currency":"USD"},"itineraries":[{"duration":"PT1H","segments":[{"id":"1"}]}],"travelerPricings":[{}]}]}`, "data[0].itineraries[0].segments[0].departure"},
		{"bad price", `{"data":[{"id":"1","numberOfBookableSeats":1,"price":{"total":"abc","currency":"USD"},"itineraries":[],"travelerPricings":[{}]}]}`, "data[0].price.total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := offers.Parse([]byte(tt.raw))

			var merr *offers.MalformedResponseError
			require.True(t, errors.As(err, &merr), "got %v", err)
			assert.Equal(t, tt.path, merr.Path)
		})
	}
}

func TestParse_BadTimestampAbortsResponse(t *testing.T) {
	raw := `{"data":[{"id":"1","numberOfBookableSeats":1,"price":{"total":"1","currency":"USD"},
		"itineraries":[{"duration":"PT1H","segments":[{"id":"1",
			"departure":{"iataCode":"JFK","at":"yesterday"},"arrival":{"iataCode":"BOS","at":"2024-01-01T10:00:00"},
			"carrierCode":"B6","number":"1","aircraft":{"code":"320"},"numberOfStops":0,"duration":"PT1H"}]}],
		"travelerPricings":[{"fareDetailsBySegment":[]}]}]}`

	_, err := offers.Parse([]byte(raw))

	var perr *timefmt.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "timestamp", perr.Kind)
}
