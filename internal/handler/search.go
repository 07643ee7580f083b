package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/airports"
	"github.com/dharmasatrya/flightfinder/internal/export"
	"github.com/dharmasatrya/flightfinder/internal/filter"
	"github.com/dharmasatrya/flightfinder/internal/itinerary"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/suggest"
	"github.com/dharmasatrya/flightfinder/internal/sweep"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

type SearchHandler struct {
	provider     providers.Provider
	sweeper      *sweep.Sweeper
	catalog      *airports.Catalog
	engine       *suggest.Engine
	maxRangeDays int
	now          func() time.Time
}

// NewSearchHandler wires the search endpoint. catalog and engine may be nil,
// in which case origin and destination are passed through unchecked.
func NewSearchHandler(provider providers.Provider, sweeper *sweep.Sweeper, catalog *airports.Catalog, engine *suggest.Engine, maxRangeDays int) *SearchHandler {
	return &SearchHandler{
		provider:     provider,
		sweeper:      sweeper,
		catalog:      catalog,
		engine:       engine,
		maxRangeDays: maxRangeDays,
		now:          time.Now,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	q, err := req.Validate()
	if err != nil {
		return respondError(c, err)
	}

	if h.maxRangeDays > 0 && req.RangeDays > h.maxRangeDays {
		return respondError(c, models.ErrRangeTooLarge)
	}

	wantCSV := c.QueryParam("format") == "csv"
	if wantCSV && models.SearchType(req.SearchType) == models.SearchSimple {
		return respondError(c, models.ErrCSVRequiresWideSearch)
	}

	if done, err := h.checkAirport(c, "origin", req.Origin); done {
		return err
	}
	if done, err := h.checkAirport(c, "destination", req.Destination); done {
		return err
	}

	switch models.SearchType(req.SearchType) {
	case models.SearchUnidirectional, models.SearchBidirectional:
		return h.handleWideSearch(c, req, q, wantCSV, startTime)
	default:
		return h.handleSimpleSearch(c, req, q, startTime)
	}
}

func (h *SearchHandler) handleSimpleSearch(c echo.Context, req models.SearchRequest, q models.Query, startTime time.Time) error {
	ctx := c.Request().Context()

	raw, err := h.provider.Search(ctx, q)
	if err != nil {
		return respondError(c, err)
	}

	result, err := itinerary.Assemble(raw, []string{q.Origin, q.Destination})
	if err != nil {
		return respondError(c, err)
	}

	filtered := filter.Apply(result.Itineraries, req.Filters, req.SortBy, req.SortOrder)

	return c.JSON(http.StatusOK, SearchResponse{
		SearchCriteria: buildSearchCriteria(req),
		Metadata: models.SearchMetadata{
			TotalResults: len(filtered),
			MajorStops:   result.MajorStops,
			SearchTimeMs: time.Since(startTime).Milliseconds(),
		},
		Itineraries:  filtered,
		Dictionaries: result.Dictionaries,
	})
}

func (h *SearchHandler) handleWideSearch(c echo.Context, req models.SearchRequest, q models.Query, wantCSV bool, startTime time.Time) error {
	ctx := c.Request().Context()

	var windows []*sweep.Window
	if models.SearchType(req.SearchType) == models.SearchUnidirectional {
		w, err := h.sweeper.SearchSingleDirection(ctx, q, models.Direction(req.Direction), req.RangeDays, true)
		if err != nil {
			return respondError(c, err)
		}
		windows = []*sweep.Window{w}
	} else {
		ws, err := h.sweeper.SearchBothDirections(ctx, q, req.RangeDays)
		if err != nil {
			return respondError(c, err)
		}
		windows = ws
	}

	if wantCSV {
		return h.writeCSV(c, q, windows)
	}

	meta := models.WindowMetadata{}
	out := make([]WindowResponse, 0, len(windows))
	for _, w := range windows {
		wr := WindowResponse{
			Direction: string(w.Direction),
			Inclusive: w.Inclusive,
			Results:   make([]DateResult, 0, len(w.Entries)),
		}
		for _, e := range w.Entries {
			meta.Searches++
			dr := DateResult{
				Label:         e.Label,
				Offset:        e.Offset,
				DepartureDate: e.Departure.Format(timefmt.DateLayout),
				Itineraries:   []itinerary.Itinerary{},
			}
			if e.Return != nil {
				ret := e.Return.Format(timefmt.DateLayout)
				dr.ReturnDate = &ret
			}

			if e.Err != nil {
				meta.Failed++
				meta.FailedSearches = append(meta.FailedSearches, e.Label)
				dr.Error = e.Err.Error()
				wr.Results = append(wr.Results, dr)
				continue
			}

			result, err := itinerary.Assemble(e.Response, []string{q.Origin, q.Destination})
			if err != nil {
				return respondError(c, fmt.Errorf("%s: %w", e.Label, err))
			}
			meta.Succeeded++
			dr.MajorStops = result.MajorStops
			dr.Itineraries = filter.Apply(result.Itineraries, req.Filters, req.SortBy, req.SortOrder)
			wr.Results = append(wr.Results, dr)
		}
		out = append(out, wr)
	}
	meta.SearchTimeMs = time.Since(startTime).Milliseconds()

	return c.JSON(http.StatusOK, WideSearchResponse{
		SearchCriteria: buildSearchCriteria(req),
		Metadata:       meta,
		Windows:        out,
	})
}

func (h *SearchHandler) writeCSV(c echo.Context, q models.Query, windows []*sweep.Window) error {
	rows, err := export.Rows(windows)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		return respondError(c, err)
	}

	name := export.FileName(h.now(), q.Origin, q.Destination)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// checkAirport answers the request with suggestions when code is not a
// known airport. With the bundled sample catalog any three-letter code is
// accepted as is. done reports whether a response was written.
func (h *SearchHandler) checkAirport(c echo.Context, field, code string) (done bool, err error) {
	if h.catalog == nil {
		return false, nil
	}
	if _, ok := h.catalog.Lookup(code); ok {
		return false, nil
	}
	if h.catalog.Sample() && isIATAShaped(code) {
		return false, nil
	}

	resp := AirportErrorResponse{
		ErrorResponse: models.ErrorResponse{
			Error:   "unknown_airport",
			Message: fmt.Sprintf("%s %q is not a known airport code", field, code),
			Code:    http.StatusUnprocessableEntity,
		},
		Field:       field,
		Input:       code,
		Suggestions: []models.AirportSuggestion{},
	}

	if h.engine != nil {
		suggestions, serr := h.engine.Suggest(c.Request().Context(), code)
		var noMatch *suggest.NoMatchError
		var geocodeErr *suggest.GeocodeError
		switch {
		case serr == nil:
			resp.Suggestions = toAirportSuggestions(suggestions)
		case errors.As(serr, &noMatch), errors.As(serr, &geocodeErr):
			resp.Message = serr.Error()
		default:
			slog.Warn("airport suggestion failed", "field", field, "input", code, "error", serr)
		}
	}

	return true, c.JSON(http.StatusUnprocessableEntity, resp)
}

func isIATAShaped(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func toAirportSuggestions(s suggest.Suggestions) []models.AirportSuggestion {
	out := make([]models.AirportSuggestion, 0, len(s))
	for _, sg := range s {
		out = append(out, models.AirportSuggestion{
			Label:         sg.Label(),
			IATACode:      sg.Airport.IATACode,
			DistanceMiles: sg.DistanceMiles,
		})
	}
	return out
}

func buildSearchCriteria(req models.SearchRequest) models.SearchCriteria {
	return models.SearchCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Adults,
		SearchType:    req.SearchType,
		RangeDays:     req.RangeDays,
		Direction:     req.Direction,
		Filters:       req.Filters,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
