package handler

import (
	"github.com/dharmasatrya/flightfinder/internal/itinerary"
	"github.com/dharmasatrya/flightfinder/internal/models"
)

type SearchResponse struct {
	SearchCriteria models.SearchCriteria `json:"search_criteria"`
	Metadata       models.SearchMetadata `json:"metadata"`
	Itineraries    []itinerary.Itinerary `json:"itineraries"`
	Dictionaries   models.Dictionaries   `json:"dictionaries"`
}

type DateResult struct {
	Label         string                `json:"label"`
	Offset        int                   `json:"offset"`
	DepartureDate string                `json:"departure_date"`
	ReturnDate    *string               `json:"return_date,omitempty"`
	MajorStops    []string              `json:"major_stops,omitempty"`
	Itineraries   []itinerary.Itinerary `json:"itineraries"`
	Error         string                `json:"error,omitempty"`
}

type WindowResponse struct {
	Direction string       `json:"direction"`
	Inclusive bool         `json:"inclusive"`
	Results   []DateResult `json:"results"`
}

type WideSearchResponse struct {
	SearchCriteria models.SearchCriteria `json:"search_criteria"`
	Metadata       models.WindowMetadata `json:"metadata"`
	Windows        []WindowResponse      `json:"windows"`
}

// AirportErrorResponse is returned when origin or destination is not a
// known airport code.
type AirportErrorResponse struct {
	models.ErrorResponse
	Field       string                     `json:"field"`
	Input       string                     `json:"input"`
	Suggestions []models.AirportSuggestion `json:"suggestions"`
}
