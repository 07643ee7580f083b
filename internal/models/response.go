package models

type SearchCriteria struct {
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    *string        `json:"return_date,omitempty"`
	Adults        int            `json:"adults"`
	SearchType    string         `json:"search_type"`
	RangeDays     int            `json:"range_days,omitempty"`
	Direction     string         `json:"direction,omitempty"`
	Filters       *SearchFilters `json:"filters,omitempty"`
	SortBy        string         `json:"sort_by"`
	SortOrder     string         `json:"sort_order"`
}

type SearchMetadata struct {
	TotalResults int      `json:"total_results"`
	MajorStops   []string `json:"major_stops,omitempty"`
	SearchTimeMs int64    `json:"search_time_ms"`
}

type WindowMetadata struct {
	Searches       int      `json:"searches"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	FailedSearches []string `json:"failed_searches,omitempty"`
	SearchTimeMs   int64    `json:"search_time_ms"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type AirportSuggestion struct {
	Label         string  `json:"label"`
	IATACode      string  `json:"iata_code"`
	DistanceMiles float64 `json:"distance_miles"`
}

type SuggestionResponse struct {
	Query       string              `json:"query"`
	Suggestions []AirportSuggestion `json:"suggestions"`
}
