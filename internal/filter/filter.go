package filter

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/itinerary"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
)

func Apply(items []itinerary.Itinerary, filters *models.SearchFilters, sortBy, sortOrder string) []itinerary.Itinerary {
	filtered := applyFilters(items, filters)

	if sortBy == "best_value" {
		filtered = ranking.CalculateScores(filtered)
	}

	return applySort(filtered, sortBy, sortOrder)
}

func applyFilters(items []itinerary.Itinerary, filters *models.SearchFilters) []itinerary.Itinerary {
	if filters == nil {
		return items
	}

	result := make([]itinerary.Itinerary, 0, len(items))
	for _, it := range items {
		if matchesFilters(it, filters) {
			result = append(result, it)
		}
	}
	return result
}

func matchesFilters(it itinerary.Itinerary, filters *models.SearchFilters) bool {
	if filters.PriceMax != nil && it.Price().InexactFloat64() > *filters.PriceMax {
		return false
	}

	if filters.MaxStops != nil && it.MaxStops() > *filters.MaxStops {
		return false
	}

	if len(filters.Airlines) > 0 {
		for _, code := range it.CarrierCodes() {
			if !containsFold(filters.Airlines, code) {
				return false
			}
		}
	}

	if filters.MaxHours != nil && it.TotalMinutes() > *filters.MaxHours*60 {
		return false
	}

	return true
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func applySort(items []itinerary.Itinerary, sortBy, sortOrder string) []itinerary.Itinerary {
	if len(items) == 0 {
		return items
	}

	ascending := strings.ToLower(sortOrder) != "desc"
	less := func(a, b bool) bool {
		if ascending {
			return a
		}
		return b
	}

	switch strings.ToLower(sortBy) {
	case "duration":
		sort.SliceStable(items, func(i, j int) bool {
			di, dj := items[i].TotalMinutes(), items[j].TotalMinutes()
			return less(di < dj, di > dj)
		})

	case "departure":
		sort.SliceStable(items, func(i, j int) bool {
			si, _ := items[i].FirstDeparture()
			sj, _ := items[j].FirstDeparture()
			return less(si.DepartureTime.Before(sj.DepartureTime), si.DepartureTime.After(sj.DepartureTime))
		})

	case "best_value":
		sort.SliceStable(items, func(i, j int) bool {
			bi, bj := items[i].BestValueScore, items[j].BestValueScore
			return less(bi < bj, bi > bj)
		})

	case "stops":
		sort.SliceStable(items, func(i, j int) bool {
			si, sj := items[i].MaxStops(), items[j].MaxStops()
			return less(si < sj, si > sj)
		})

	default:
		sort.SliceStable(items, func(i, j int) bool {
			pi, pj := items[i].Price(), items[j].Price()
			return less(pi.LessThan(pj), pi.GreaterThan(pj))
		})
	}

	return items
}
