package models

import "time"

// Transport modes the journey API accepts, in display order.
var TransportModes = []string{
	"tube", "bus", "dlr", "overground", "elizabeth-line", "national-rail", "walking",
}

// DefaultModes is used whenever a request selects no modes at all.
var DefaultModes = []string{"tube", "walking"}

// AccessibilityLabels maps human-facing labels to the canonical enum values
// the journey API expects on the wire.
var AccessibilityLabels = map[string]string{
	"No Requirements":       "NoRequirements",
	"No Solid Stairs":       "NoSolidStairs",
	"No Escalators":         "NoEscalators",
	"No Elevators":          "NoElevators",
	"Step-free to Vehicle":  "StepFreeToVehicle",
	"Step-free to Platform": "StepFreeToPlatform",
}

type TimeIntent string

const (
	LeaveNow TimeIntent = "leave_now"
	DepartAt TimeIntent = "depart_at"
	ArriveBy TimeIntent = "arrive_by"
)

// LocationQuery is one endpoint of a plan request: either free text to be
// resolved, or a location the user already picked from suggestions.
type LocationQuery struct {
	Text     string            `json:"text,omitempty"`
	Selected *ResolvedLocation `json:"selected,omitempty"`
}

type PlanRequest struct {
	SessionID   string        `json:"session_id,omitempty"`
	Origin      LocationQuery `json:"origin"`
	Destination LocationQuery `json:"destination"`
	TimeIntent  TimeIntent    `json:"time_intent,omitempty" validate:"omitempty,oneof=leave_now depart_at arrive_by"`
	// DateTime is required for depart_at and arrive_by. Interpreted in
	// London wall time regardless of the offset it arrives with.
	DateTime                 *time.Time `json:"datetime,omitempty"`
	Modes                    []string   `json:"modes,omitempty" validate:"dive,oneof=tube bus dlr overground elizabeth-line national-rail walking"`
	AccessibilityPreferences []string   `json:"accessibility_preferences,omitempty" validate:"dive,oneof=NoRequirements NoSolidStairs NoEscalators NoElevators StepFreeToVehicle StepFreeToPlatform"`
	SortBy                   string     `json:"sort_by,omitempty" validate:"omitempty,oneof=fastest cheapest least_walking"`
}

func (r *PlanRequest) Validate() error {
	if r.Origin.Text == "" && r.Origin.Selected == nil {
		return ErrMissingOrigin
	}
	if r.Destination.Text == "" && r.Destination.Selected == nil {
		return ErrMissingDestination
	}
	if r.TimeIntent == "" {
		r.TimeIntent = LeaveNow
	}
	if r.TimeIntent != LeaveNow && r.DateTime == nil {
		return ErrMissingDateTime
	}
	if len(r.Modes) == 0 {
		r.Modes = DefaultModes
	}
	if r.SortBy == "" {
		r.SortBy = "fastest"
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
	ErrMissingDateTime    ValidationError = "datetime is required for depart_at and arrive_by"
)

// JourneySearchCriteria is one fully resolved planning request, ready to be
// turned into a journey API call.
type JourneySearchCriteria struct {
	Origin      ResolvedLocation
	Destination ResolvedLocation
	TimeIntent  TimeIntent
	// When carries London wall time. Only meaningful for DepartAt/ArriveBy.
	When                     time.Time
	Modes                    []string
	AccessibilityPreferences []string
}

// WithoutAccessibility is the relaxed form of the criteria, used for the
// single retry after an accessibility-filtered query finds nothing.
func (c JourneySearchCriteria) WithoutAccessibility() JourneySearchCriteria {
	relaxed := c
	relaxed.AccessibilityPreferences = nil
	return relaxed
}
