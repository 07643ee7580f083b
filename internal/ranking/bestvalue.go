package ranking

import (
	"math"

	"github.com/dharmasatrya/flightfinder/internal/itinerary"
)

const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2
)

func CalculateScores(items []itinerary.Itinerary) []itinerary.Itinerary {
	if len(items) == 0 {
		return items
	}

	maxPrice := findMaxPrice(items)
	maxDuration := findMaxDuration(items)

	result := make([]itinerary.Itinerary, len(items))
	for i, it := range items {
		result[i] = it
		result[i].BestValueScore = CalculateBestValue(it, maxPrice, maxDuration)
	}

	return result
}

// Lower score = better value
func CalculateBestValue(it itinerary.Itinerary, maxPrice, maxDuration float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (it.Price().InexactFloat64() / maxPrice) * 100
	}

	durationScore := 0.0
	if maxDuration > 0 {
		durationScore = (float64(it.TotalMinutes()) / maxDuration) * 100
	}

	stopsScore := float64(it.MaxStops()) * 15
	score := (priceScore * PriceWeight) + (durationScore * DurationWeight) + (stopsScore * StopsWeight)

	return math.Round(score*100) / 100
}

func findMaxPrice(items []itinerary.Itinerary) float64 {
	maxPrice := 0.0
	for _, it := range items {
		if p := it.Price().InexactFloat64(); p > maxPrice {
			maxPrice = p
		}
	}
	return maxPrice
}

func findMaxDuration(items []itinerary.Itinerary) float64 {
	maxDuration := 0.0
	for _, it := range items {
		dur := float64(it.TotalMinutes())
		if dur > maxDuration {
			maxDuration = dur
		}
	}
	return maxDuration
}
