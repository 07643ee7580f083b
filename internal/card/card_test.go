package card_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/card"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

func TestBuild(t *testing.T) {
	total := timefmt.Duration{Hours: 6}
	segs := []models.Segment{
		{
			Amount: decimal.RequireFromString("1248.9"), Currency: "USD", Cabin: "PREMIUM_ECONOMY", TotalDuration: total,
			DepartureAirport: "JFK", ArrivalAirport: "ORD", CarrierCode: "AA", FlightNumber: "100",
			DepartureTime: time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC), ArrivalTime: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC),
			Duration: timefmt.Duration{Hours: 3},
		},
		{
			Amount: decimal.RequireFromString("1248.9"), Currency: "USD", Cabin: "PREMIUM_ECONOMY", TotalDuration: total,
			DepartureAirport: "ORD", ArrivalAirport: "SFO", CarrierCode: "ZZ", FlightNumber: "9",
			DepartureTime: time.Date(2024, 6, 2, 0, 15, 0, 0, time.UTC), ArrivalTime: time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC),
			Duration: timefmt.Duration{Hours: 4, Minutes: 45},
		},
	}
	legs := []models.Leg{{Key: "leg_1", Segments: segs}}

	c := card.Build("flight_offer_1", legs, map[string]string{"AA": "AMERICAN AIRLINES"})

	assert.Equal(t, "flight_offer_1", c.OfferKey)
	assert.Equal(t, "$1,248.90", c.Price)
	assert.Equal(t, "Premium Economy", c.Cabin)
	require.Len(t, c.Legs, 1)

	leg := c.Legs[0]
	assert.Equal(t, "09:00 pm", leg.Departure)
	assert.Equal(t, "03:00 am", leg.Arrival)
	assert.Equal(t, "+1", leg.Overnight)
	assert.Equal(t, "6h 00m", leg.Duration)
	assert.Equal(t, "JFK – SFO", leg.Route)
	assert.Equal(t, "American Airlines", leg.Carrier)
	assert.Equal(t, "1 Stop", leg.Stops)

	require.Len(t, leg.Details, 2)
	assert.Equal(t, "JFK to ORD", leg.Details[0].Route)
	assert.Equal(t, "American Airlines 100", leg.Details[0].Flight)
	assert.Equal(t, "09:00 pm - 11:00 pm", leg.Details[0].Times)
	assert.Equal(t, "1h 15m • Change planes in ORD", leg.Details[0].Layover)
	assert.Equal(t, "ZZ 9", leg.Details[1].Flight)
	assert.Equal(t, "4h 45m", leg.Details[1].Duration)
	assert.Empty(t, leg.Details[1].Layover)
}

func TestBuild_UnknownCarrierAndEmpty(t *testing.T) {
	legs := []models.Leg{{Key: "remaining_leg", Segments: []models.Segment{{CarrierCode: "QQ", Cabin: "Cabin Type"}}}}
	c := card.Build("k", legs, nil)
	assert.Equal(t, "Unknown Carrier", c.Legs[0].Carrier)
	assert.Equal(t, "Nonstop", c.Legs[0].Stops)
	assert.Equal(t, "Cabin Type", c.Cabin)

	empty := card.Build("k", nil, nil)
	assert.Empty(t, empty.Legs)
}

func TestStopsLabel(t *testing.T) {
	assert.Equal(t, "Nonstop", card.StopsLabel(0))
	assert.Equal(t, "1 Stop", card.StopsLabel(1))
	assert.Equal(t, "3 Stops", card.StopsLabel(3))
}
