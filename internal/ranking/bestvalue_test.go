package ranking_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightfinder/internal/itinerary"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

func TestCalculateBestValue(t *testing.T) {
	segs := []models.Segment{
		{Amount: decimal.NewFromInt(400), TotalDuration: timefmt.Duration{Hours: 5}},
		{Amount: decimal.NewFromInt(400), TotalDuration: timefmt.Duration{Hours: 5}},
	}
	it := itinerary.Itinerary{
		Offer: models.Offer{Segments: segs},
		Legs:  []models.Leg{{Segments: segs}},
	}

	// price 50% of max, duration 100% of max, one stop
	got := ranking.CalculateBestValue(it, 800, 300)
	assert.Equal(t, 25.0+30.0+3.0, got)
}

func TestCalculateScores_Empty(t *testing.T) {
	assert.Empty(t, ranking.CalculateScores(nil))
}
