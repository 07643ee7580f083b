package legs_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/legs"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/stops"
)

func seg(id, from, to string, dep, arr time.Time) models.Segment {
	return models.Segment{ID: id, DepartureAirport: from, ArrivalAirport: to, DepartureTime: dep, ArrivalTime: arr}
}

func at(day, hour int) time.Time {
	return time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC)
}

func jfkOrdSfo() []models.Segment {
	return []models.Segment{
		seg("1", "JFK", "ORD", at(1, 9), at(1, 11)),
		seg("2", "ORD", "SFO", at(1, 12), at(1, 15)),
	}
}

func ids(segs []models.Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.ID
	}
	return out
}

func TestGroup_DestinationStop(t *testing.T) {
	got := legs.Group(jfkOrdSfo(), stops.NewSet("SFO"))

	require.Len(t, got, 1)
	assert.Equal(t, "leg_1", got[0].Key)
	assert.Equal(t, []string{"1", "2"}, ids(got[0].Segments))
}

func TestGroup_ConnectionAsStop(t *testing.T) {
	got := legs.Group(jfkOrdSfo(), stops.NewSet("ORD"))

	require.Len(t, got, 2)
	assert.Equal(t, "leg_1", got[0].Key)
	assert.Equal(t, []string{"1"}, ids(got[0].Segments))
	assert.Equal(t, "remaining_leg", got[1].Key)
	assert.Equal(t, []string{"2"}, ids(got[1].Segments))
}

func TestGroup_EmptyStopsYieldsSingleRemainingLeg(t *testing.T) {
	got := legs.Group(jfkOrdSfo(), stops.NewSet())

	require.Len(t, got, 1)
	assert.Equal(t, "remaining_leg", got[0].Key)
	assert.Len(t, got[0].Segments, 2)
}

func TestGroup_EveryArrivalIsAStop(t *testing.T) {
	segments := []models.Segment{
		seg("1", "JFK", "ORD", at(1, 9), at(1, 11)),
		seg("2", "ORD", "SFO", at(1, 12), at(1, 15)),
		seg("3", "SFO", "JFK", at(8, 8), at(8, 16)),
	}
	got := legs.Group(segments, stops.NewSet("ORD", "SFO", "JFK"))

	require.Len(t, got, 3)
	for i, l := range got {
		assert.Equal(t, models.LegKey(i+1), l.Key)
		assert.Len(t, l.Segments, 1)
	}
}

func TestGroup_OrderIndependent(t *testing.T) {
	segments := []models.Segment{
		seg("1", "JFK", "ORD", at(1, 9), at(1, 11)),
		seg("2", "ORD", "SFO", at(1, 12), at(1, 15)),
		seg("3", "SFO", "DEN", at(8, 8), at(8, 11)),
		seg("4", "DEN", "LGA", at(8, 12), at(8, 18)),
		seg("5", "LGA", "BOS", at(9, 7), at(9, 8)),
	}
	majorStops := stops.NewSet("SFO", "LGA")
	want := []string{"1", "2", "3", "4", "5"}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Segment, len(segments))
		copy(shuffled, segments)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := legs.Group(shuffled, majorStops)
		assert.Equal(t, want, ids(legs.Flatten(got)))
		require.Len(t, got, 3)
		assert.Equal(t, "remaining_leg", got[2].Key)
	}
}

func TestGroup_StableForEqualDepartures(t *testing.T) {
	segments := []models.Segment{
		seg("a", "JFK", "ORD", at(1, 9), at(1, 11)),
		seg("b", "JFK", "BOS", at(1, 9), at(1, 10)),
	}
	got := legs.Group(segments, stops.NewSet())
	assert.Equal(t, []string{"a", "b"}, ids(legs.Flatten(got)))
}

func TestGroup_DoesNotMutateInput(t *testing.T) {
	segments := []models.Segment{
		seg("2", "ORD", "SFO", at(1, 12), at(1, 15)),
		seg("1", "JFK", "ORD", at(1, 9), at(1, 11)),
	}
	legs.Group(segments, stops.NewSet("SFO"))
	assert.Equal(t, "2", segments[0].ID)
}
