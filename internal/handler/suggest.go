package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/suggest"
)

type SuggestHandler struct {
	engine *suggest.Engine
}

func NewSuggestHandler(engine *suggest.Engine) *SuggestHandler {
	return &SuggestHandler{engine: engine}
}

// Suggest handles GET /airports/suggest?q=.
func (h *SuggestHandler) Suggest(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return respondError(c, models.ErrMissingQuery)
	}

	suggestions, err := h.engine.Suggest(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.SuggestionResponse{
		Query:       q,
		Suggestions: toAirportSuggestions(suggestions),
	})
}
