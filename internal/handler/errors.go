package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/offers"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/suggest"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var (
		validationErr models.ValidationError
		noMatchErr    *suggest.NoMatchError
		geocodeErr    *suggest.GeocodeError
		upstreamErr   *providers.UpstreamRequestError
		malformedErr  *offers.MalformedResponseError
		parseErr      *timefmt.ParseError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error"
	case errors.As(err, &noMatchErr):
		return http.StatusUnprocessableEntity, "no_match"
	case errors.As(err, &geocodeErr):
		return http.StatusUnprocessableEntity, "geocode_error"
	case errors.Is(err, providers.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, "upstream_error"
	case errors.As(err, &malformedErr), errors.As(err, &parseErr):
		return http.StatusBadGateway, "malformed_response"
	default:
		return http.StatusInternalServerError, "search_error"
	}
}

func respondError(c echo.Context, err error) error {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"path", c.Path(),
			"status", status,
			"error", err)
	}
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	})
}
