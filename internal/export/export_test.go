package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/sweep"
)

func loadFixture(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "offers", "testdata", "round_trip.json"))
	require.NoError(t, err)
	return raw
}

func TestRowsFromResponse(t *testing.T) {
	rows, err := RowsFromResponse("JFK-to-SFO (2024-06-01/2024-06-08)", loadFixture(t))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.Equal(t, 1, first.ItineraryID)
	assert.Equal(t, "612.40", first.TotalPrice.StringFixed(2))
	assert.Equal(t, 1, first.NumOfStops)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), first.DepartureDate)
	require.Len(t, first.Segments, 2)
	assert.Equal(t, "JFK", first.Segments[0].Origin)
	assert.Equal(t, "ORD", first.Segments[0].Destination)
	assert.Equal(t, "AMERICAN AIRLINES", first.Segments[0].Carrier)
	assert.Equal(t, "AIRBUS A321", first.Segments[0].Aircraft)
	assert.Equal(t, time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC), first.Segments[0].Arrival)

	assert.Equal(t, 2, rows[1].ItineraryID)
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), rows[1].DepartureDate)

	last := rows[3]
	assert.Equal(t, 4, last.ItineraryID)
	assert.Equal(t, "1248.90", last.TotalPrice.StringFixed(2))
	assert.Equal(t, 0, last.NumOfStops)
	assert.Equal(t, "UNITED AIRLINES", last.Segments[0].Carrier)
}

func TestWriteCSV(t *testing.T) {
	rows, err := RowsFromResponse("JFK-to-SFO (2024-06-01/2024-06-08)", loadFixture(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, Header(2), records[0])
	assert.Len(t, records[0], 5+2*8)
	assert.Equal(t, []string{
		"JFK-to-SFO (2024-06-01/2024-06-08)", "1", "612.40", "1", "2024-06-01",
		"JFK", "ORD", "2024-06-01 09:00:00", "2024-06-01 11:00:00", "AMERICAN AIRLINES", "100", "AIRBUS A321", "PT3H",
		"ORD", "SFO", "2024-06-01 12:00:00", "2024-06-01 15:00:00", "AMERICAN AIRLINES", "2201", "BOEING 737-800", "PT5H",
	}, records[1])

	// single-segment rows are padded
	assert.Len(t, records[3], len(records[0]))
	assert.Equal(t, "", records[3][len(records[3])-1])
	assert.Equal(t, "PT6H20M", records[3][12])
}

func TestRows_SkipsFailedEntries(t *testing.T) {
	raw := loadFixture(t)
	windows := []*sweep.Window{
		{Direction: models.DirectionEarlier, Entries: []sweep.Entry{
			{Label: "a", Response: raw},
			{Label: "b", Err: assert.AnError},
		}},
		{Direction: models.DirectionLater, Entries: []sweep.Entry{
			{Label: "c", Response: raw},
		}},
	}

	rows, err := Rows(windows)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "a", rows[0].Search)
	assert.Equal(t, "c", rows[4].Search)
	assert.Equal(t, 1, rows[4].ItineraryID)
}

func TestRows_MalformedResponse(t *testing.T) {
	windows := []*sweep.Window{{Entries: []sweep.Entry{{Label: "bad", Response: json.RawMessage(`{"nope":true}`)}}}}
	_, err := Rows(windows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export bad")
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "search_results")
	now := time.Date(2024, 5, 20, 14, 7, 0, 0, time.UTC)

	path, err := WriteFile(dir, now, "JFK", "SFO", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240520T1407_JFK_SFO.csv"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "search,itinerary_id,total_price,num_of_stops,departure_date\n", string(body))
}
