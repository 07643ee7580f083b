package legs

import (
	"sort"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/stops"
)

// Group partitions segments into legs. Segments are ordered by departure
// time; a leg closes at every arrival into majorStops and anything left
// over becomes the "remaining_leg".
func Group(segments []models.Segment, majorStops stops.Set) []models.Leg {
	sorted := make([]models.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DepartureTime.Before(sorted[j].DepartureTime)
	})

	var (
		result  []models.Leg
		current []models.Segment
	)
	for _, seg := range sorted {
		current = append(current, seg)
		if majorStops.Contains(seg.ArrivalAirport) {
			result = append(result, models.Leg{Key: models.LegKey(len(result) + 1), Segments: current})
			current = nil
		}
	}
	if len(current) > 0 {
		result = append(result, models.Leg{Key: models.RemainingLegKey, Segments: current})
	}

	return result
}

// Flatten concatenates the segments of legs in order.
func Flatten(legs []models.Leg) []models.Segment {
	var out []models.Segment
	for _, l := range legs {
		out = append(out, l.Segments...)
	}
	return out
}
