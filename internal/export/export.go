package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/offers"
	"github.com/dharmasatrya/flightfinder/internal/sweep"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

const (
	timeLayout     = "2006-01-02 15:04:05"
	fileTimeLayout = "20060102T1504"
)

// SegmentColumns are the per-segment cells of a row. Carrier and aircraft
// hold dictionary names, empty when the code is not in the dictionary.
type SegmentColumns struct {
	Origin       string
	Destination  string
	Departure    time.Time
	Arrival      time.Time
	Carrier      string
	FlightNumber string
	Aircraft     string
	Duration     timefmt.Duration
}

// Row is one itinerary of one search.
type Row struct {
	Search        string
	ItineraryID   int
	TotalPrice    decimal.Decimal
	NumOfStops    int
	DepartureDate time.Time
	Segments      []SegmentColumns
}

// Rows flattens every successful entry of the windows, in window then
// offset order.
func Rows(windows []*sweep.Window) ([]Row, error) {
	var out []Row
	for _, w := range windows {
		for _, e := range w.Entries {
			if e.Err != nil || e.Response == nil {
				continue
			}
			rows, err := RowsFromResponse(e.Label, e.Response)
			if err != nil {
				return nil, fmt.Errorf("export %s: %w", e.Label, err)
			}
			out = append(out, rows...)
		}
	}
	return out, nil
}

// RowsFromResponse emits one row per itinerary. Itinerary ids count from 1
// across the whole response.
func RowsFromResponse(label string, raw []byte) ([]Row, error) {
	res, err := offers.Parse(raw)
	if err != nil {
		return nil, err
	}

	var rows []Row
	counter := 1
	for _, offer := range res.Offers {
		var cur *Row
		lastItinerary := -1
		for _, seg := range offer.Segments {
			if cur == nil || seg.Itinerary != lastItinerary {
				if cur != nil {
					rows = append(rows, finish(*cur))
				}
				cur = &Row{
					Search:      label,
					ItineraryID: counter,
					TotalPrice:  seg.Amount,
				}
				counter++
				lastItinerary = seg.Itinerary
			}
			cur.Segments = append(cur.Segments, SegmentColumns{
				Origin:       seg.DepartureAirport,
				Destination:  seg.ArrivalAirport,
				Departure:    seg.DepartureTime,
				Arrival:      seg.ArrivalTime,
				Carrier:      res.Dictionaries.Carriers[seg.CarrierCode],
				FlightNumber: seg.FlightNumber,
				Aircraft:     res.Dictionaries.Aircraft[seg.AircraftCode],
				Duration:     seg.Duration,
			})
		}
		if cur != nil {
			rows = append(rows, finish(*cur))
		}
	}
	return rows, nil
}

func finish(r Row) Row {
	r.NumOfStops = len(r.Segments) - 1
	y, m, d := r.Segments[0].Departure.Date()
	r.DepartureDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return r
}

// Header returns the column names for rows with up to maxSegments segments.
func Header(maxSegments int) []string {
	header := []string{"search", "itinerary_id", "total_price", "num_of_stops", "departure_date"}
	for i := 1; i <= maxSegments; i++ {
		n := strconv.Itoa(i)
		header = append(header,
			"origin_"+n,
			"destination_"+n,
			"departure_time_"+n,
			"arrival_time_"+n,
			"carrier_"+n,
			"flight_number_"+n,
			"aircraft_"+n,
			"duration_"+n,
		)
	}
	return header
}

// WriteCSV writes the header and rows. Rows with fewer segments than the
// widest row leave the trailing cells empty.
func WriteCSV(w io.Writer, rows []Row) error {
	maxSegments := 0
	for _, r := range rows {
		maxSegments = max(maxSegments, len(r.Segments))
	}

	header := Header(maxSegments)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := make([]string, 0, len(header))
		record = append(record,
			r.Search,
			strconv.Itoa(r.ItineraryID),
			r.TotalPrice.StringFixed(2),
			strconv.Itoa(r.NumOfStops),
			r.DepartureDate.Format(timefmt.DateLayout),
		)
		for _, s := range r.Segments {
			record = append(record,
				s.Origin,
				s.Destination,
				s.Departure.Format(timeLayout),
				s.Arrival.Format(timeLayout),
				s.Carrier,
				s.FlightNumber,
				s.Aircraft,
				s.Duration.ISO(),
			)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName returns "{yyyymmddThhmm}_{origin}_{destination}.csv".
func FileName(now time.Time, origin, destination string) string {
	return fmt.Sprintf("%s_%s_%s.csv", now.Format(fileTimeLayout), origin, destination)
}

// WriteFile writes rows into dir and returns the file path.
func WriteFile(dir string, now time.Time, origin, destination string, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(now, origin, destination))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
