package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Suggest returns the grouped candidate picklist for one free-text query so
// an interactive layer can let the user choose instead of taking the first
// match.
func (h *JourneyHandler) Suggest(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "validation_error", "q is required")
	}

	return c.JSON(http.StatusOK, h.resolver.Suggest(c.Request().Context(), query))
}
