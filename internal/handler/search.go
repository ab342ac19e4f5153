package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/londontime"
	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/planner"
	"github.com/tomwhitfield/journeyplanner/internal/ranking"
	"github.com/tomwhitfield/journeyplanner/internal/resolver"
	"github.com/tomwhitfield/journeyplanner/internal/session"
)

type JourneyHandler struct {
	resolver *resolver.Resolver
	planner  *planner.Planner
	sessions session.Store
	validate *validator.Validate
}

func NewJourneyHandler(r *resolver.Resolver, p *planner.Planner, s session.Store) *JourneyHandler {
	return &JourneyHandler{
		resolver: r,
		planner:  p,
		sessions: s,
		validate: validator.New(),
	}
}

// Search resolves both endpoints, runs the journey query, stores the outcome
// under the session, and returns itineraries ordered by the requested
// criterion.
func (h *JourneyHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.PlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	origin, err := h.resolveEndpoint(ctx, "origin", req.Origin)
	if err != nil {
		return locationError(c, err)
	}
	destination, err := h.resolveEndpoint(ctx, "destination", req.Destination)
	if err != nil {
		return locationError(c, err)
	}

	criteria := models.JourneySearchCriteria{
		Origin:                   *origin,
		Destination:              *destination,
		TimeIntent:               req.TimeIntent,
		Modes:                    req.Modes,
		AccessibilityPreferences: req.AccessibilityPreferences,
	}
	if req.DateTime != nil {
		criteria.When = londontime.ToLondon(*req.DateTime)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	outcome, planErr := h.planner.Plan(ctx, criteria)
	if planErr != nil {
		// A failed search still invalidates whatever the session held.
		if err := h.sessions.Delete(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("failed to clear session")
		}
		return outcomeError(c, planErr)
	}

	if err := h.sessions.Put(ctx, sessionID, outcome); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("failed to store outcome")
	}

	criterion := ranking.Parse(req.SortBy)
	return c.JSON(http.StatusOK, buildSearchResponse(sessionID, outcome, criterion))
}

// Sorted re-orders the stored outcome under a new criterion. It reads the
// session only; no upstream call is ever made here.
func (h *JourneyHandler) Sorted(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return badRequest(c, "validation_error", "session_id is required")
	}

	outcome, ok := h.sessions.Get(ctx, sessionID)
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "no_results",
			Message: "No stored results for this session. Run a search first.",
			Code:    http.StatusNotFound,
		})
	}

	criterion := ranking.Parse(c.QueryParam("sort"))
	return c.JSON(http.StatusOK, buildSearchResponse(sessionID, outcome, criterion))
}

// ClearSession drops the stored outcome, the explicit invalidation trigger
// for "clear selection" in a collaborating UI.
func (h *JourneyHandler) ClearSession(c echo.Context) error {
	sessionID := c.Param("id")
	if err := h.sessions.Delete(c.Request().Context(), sessionID); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_error",
			Message: "Failed to clear session: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
	return c.NoContent(http.StatusNoContent)
}

type locationNotFoundError struct {
	field string
	text  string
}

func (e *locationNotFoundError) Error() string {
	return "no location found for " + e.field + " " + strconv.Quote(e.text)
}

// resolveEndpoint prefers a location the user already picked; otherwise it
// auto-resolves the typed text. A picked location must satisfy the
// coordinate invariant before it is trusted.
func (h *JourneyHandler) resolveEndpoint(ctx context.Context, field string, q models.LocationQuery) (*models.ResolvedLocation, error) {
	if q.Selected != nil {
		if q.Selected.PreferCoordinates && q.Selected.Coordinates == nil {
			return nil, &invalidSelectionError{field: field}
		}
		return q.Selected, nil
	}

	if loc := h.resolver.Resolve(ctx, q.Text); loc != nil {
		return loc, nil
	}
	return nil, &locationNotFoundError{field: field, text: q.Text}
}

type invalidSelectionError struct {
	field string
}

func (e *invalidSelectionError) Error() string {
	return e.field + " selection prefers coordinates but carries none"
}

// locationError maps resolution failures: invalid selections are the
// caller's fault, unresolvable text is a not-found result.
func locationError(c echo.Context, err error) error {
	var invalid *invalidSelectionError
	if errors.As(err, &invalid) {
		return badRequest(c, "invalid_selection", err.Error())
	}
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "location_not_found",
		Message: err.Error() + ". Try a station, postcode, or landmark, e.g. 'Euston', 'NW1 2JH', or 'London Eye'.",
		Code:    http.StatusNotFound,
	})
}

// outcomeError maps the planner's failure taxonomy onto HTTP statuses.
func outcomeError(c echo.Context, err error) error {
	var oe *models.OutcomeError
	if !errors.As(err, &oe) {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	status := http.StatusBadGateway
	kind := "upstream_error"
	message := oe.Message

	switch oe.Kind {
	case models.ErrNotFound:
		status = http.StatusNotFound
		kind = "no_journey"
		if oe.RelaxationAttempted {
			message = "No journeys found even after relaxing accessibility filters."
		}
	case models.ErrTimeout:
		status = http.StatusGatewayTimeout
		kind = "timeout"
		message = "Request timed out. Please try again."
	case models.ErrMalformed:
		kind = "malformed_response"
	}

	return c.JSON(status, models.ErrorResponse{
		Error:               kind,
		Message:             message,
		Code:                status,
		RelaxationAttempted: oe.RelaxationAttempted,
	})
}

func badRequest(c echo.Context, kind, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
