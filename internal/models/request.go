package models

import (
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

type SearchFilters struct {
	PriceMax *float64 `json:"price_max,omitempty"`
	MaxStops *int     `json:"max_stops,omitempty"`
	Airlines []string `json:"airlines,omitempty"`
	MaxHours *int     `json:"max_hours,omitempty"`
}

type SearchType string

const (
	SearchSimple         SearchType = "simple"
	SearchUnidirectional SearchType = "unidirectional"
	SearchBidirectional  SearchType = "bidirectional"
)

type Direction string

const (
	DirectionEarlier Direction = "earlier"
	DirectionLater   Direction = "later"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionEarlier:
		return DirectionEarlier, nil
	case DirectionLater:
		return DirectionLater, nil
	default:
		return "", ErrInvalidDirection
	}
}

func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case "", SearchSimple:
		return SearchSimple, nil
	case SearchUnidirectional:
		return SearchUnidirectional, nil
	case SearchBidirectional:
		return SearchBidirectional, nil
	default:
		return "", ErrUnsupportedSearchType
	}
}

// Query is a validated, parsed search as sent to a provider.
type Query struct {
	Origin      string
	Destination string
	Departure   time.Time
	Return      *time.Time
	Adults      int
}

// Shift moves both dates by days (negative for earlier).
func (q Query) Shift(days int) Query {
	out := q
	out.Departure = q.Departure.AddDate(0, 0, days)
	if q.Return != nil {
		r := q.Return.AddDate(0, 0, days)
		out.Return = &r
	}
	return out
}

type SearchRequest struct {
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    *string        `json:"return_date,omitempty"`
	Adults        int            `json:"adults"`
	SearchType    string         `json:"search_type,omitempty"`
	RangeDays     int            `json:"range_days,omitempty"`
	Direction     string         `json:"direction,omitempty"`
	Filters       *SearchFilters `json:"filters,omitempty"`
	SortBy        string         `json:"sort_by,omitempty"`
	SortOrder     string         `json:"sort_order,omitempty"`
}

// Validate normalizes the request, fills defaults and returns the parsed
// query.
func (r *SearchRequest) Validate() (Query, error) {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))

	if r.Origin == "" {
		return Query{}, ErrMissingOrigin
	}
	if r.Destination == "" {
		return Query{}, ErrMissingDestination
	}
	if r.DepartureDate == "" {
		return Query{}, ErrMissingDepartureDate
	}
	if r.Adults <= 0 {
		r.Adults = 1
	}
	if r.Adults > 9 {
		return Query{}, ErrTooManyAdults
	}
	if r.SortBy == "" {
		r.SortBy = "price"
	}
	if r.SortOrder == "" {
		r.SortOrder = "asc"
	}

	st, err := ParseSearchType(r.SearchType)
	if err != nil {
		return Query{}, err
	}
	r.SearchType = string(st)

	switch st {
	case SearchUnidirectional:
		if r.RangeDays < 1 {
			return Query{}, ErrInvalidRange
		}
		dir, err := ParseDirection(r.Direction)
		if err != nil {
			return Query{}, err
		}
		r.Direction = string(dir)
	case SearchBidirectional:
		if r.RangeDays < 1 {
			return Query{}, ErrInvalidRange
		}
	}

	dep, err := timefmt.ParseDate(r.DepartureDate)
	if err != nil {
		return Query{}, ErrInvalidDepartureDate
	}

	q := Query{
		Origin:      r.Origin,
		Destination: r.Destination,
		Departure:   dep,
		Adults:      r.Adults,
	}

	if r.ReturnDate != nil && *r.ReturnDate != "" {
		ret, err := timefmt.ParseDate(*r.ReturnDate)
		if err != nil {
			return Query{}, ErrInvalidReturnDate
		}
		if ret.Before(dep) {
			return Query{}, ErrReturnBeforeDeparture
		}
		q.Return = &ret
	}

	return q, nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrMissingDepartureDate  ValidationError = "departure_date is required"
	ErrInvalidDepartureDate  ValidationError = "departure_date must be YYYY-MM-DD"
	ErrInvalidReturnDate     ValidationError = "return_date must be YYYY-MM-DD"
	ErrReturnBeforeDeparture ValidationError = "return_date is earlier than departure_date"
	ErrTooManyAdults         ValidationError = "adults must be between 1 and 9"
	ErrUnsupportedSearchType ValidationError = "search_type must be one of simple, unidirectional, bidirectional"
	ErrInvalidDirection      ValidationError = "direction must be either earlier or later"
	ErrInvalidRange          ValidationError = "range_days must be at least 1 for wide searches"
	ErrUnsupportedEnv        ValidationError = `environment must be either "test" or "prod"`
	ErrRangeTooLarge         ValidationError = "range_days exceeds the allowed maximum"
	ErrCSVRequiresWideSearch ValidationError = "csv export is only available for wide searches"
	ErrMissingQuery          ValidationError = "q is required"
)
