package offers

// Wire shapes of the flight-offers response. Pointer fields let the decoder
// tell a missing key apart from a zero value.

type rawResponse struct {
	Data         *[]rawOffer      `json:"data"`
	Dictionaries *rawDictionaries `json:"dictionaries"`
}

type rawOffer struct {
	ID               *string            `json:"id"`
	BookableSeats    *int               `json:"numberOfBookableSeats"`
	Price            *rawPrice          `json:"price"`
	Itineraries      *[]rawItinerary    `json:"itineraries"`
	TravelerPricings *[]rawTravelerFare `json:"travelerPricings"`
}

type rawPrice struct {
	Total    *string `json:"total"`
	Currency *string `json:"currency"`
}

type rawItinerary struct {
	Duration *string       `json:"duration"`
	Segments *[]rawSegment `json:"segments"`
}

type rawSegment struct {
	ID          *string      `json:"id"`
	Departure   *rawEndpoint `json:"departure"`
	Arrival     *rawEndpoint `json:"arrival"`
	CarrierCode *string      `json:"carrierCode"`
	Number      *string      `json:"number"`
	Aircraft    *rawAircraft `json:"aircraft"`
	Stops       *int         `json:"numberOfStops"`
	Duration    *string      `json:"duration"`
}

type rawEndpoint struct {
	IATACode *string `json:"iataCode"`
	At       *string `json:"at"`
}

type rawAircraft struct {
	Code *string `json:"code"`
}

type rawTravelerFare struct {
	FareDetailsBySegment []rawFareDetail `json:"fareDetailsBySegment"`
}

type rawFareDetail struct {
	SegmentID string `json:"segmentId"`
	Cabin     string `json:"cabin"`
}

type rawDictionaries struct {
	Carriers  map[string]string      `json:"carriers"`
	Aircraft  map[string]string      `json:"aircraft"`
	Locations map[string]rawLocation `json:"locations"`
}

type rawLocation struct {
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}
