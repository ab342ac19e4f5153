package models

// Presentation types returned by the HTTP layer. Times are London-local
// strings; the display layer renders them verbatim.

type JourneyView struct {
	Summary         string    `json:"summary"`
	DurationMinutes int       `json:"duration_minutes"`
	Departs         string    `json:"departs"`
	Arrives         string    `json:"arrives"`
	Date            string    `json:"date"`
	Interchanges    int       `json:"interchanges"`
	WalkingMinutes  int       `json:"walking_minutes"`
	Fare            string    `json:"fare"`
	Legs            []LegView `json:"legs"`
}

type LegView struct {
	Step            int    `json:"step"`
	Mode            string `json:"mode"`
	ModeName        string `json:"mode_name"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	Instruction     string `json:"instruction,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type SearchResponse struct {
	SessionID   string           `json:"session_id"`
	Origin      ResolvedLocation `json:"origin"`
	Destination ResolvedLocation `json:"destination"`
	Relaxed     bool             `json:"relaxed"`
	Notice      string           `json:"notice,omitempty"`
	SortedBy    string           `json:"sorted_by"`
	GeneratedAt string           `json:"generated_at"`
	Journeys    []JourneyView    `json:"journeys"`
}

// SuggestResponse mirrors the three labeled suggestion groups a picker UI
// offers: the postcode quick-pick, station/place matches, and the geocoded
// address fallback.
type SuggestResponse struct {
	Query    string             `json:"query"`
	Postcode *ResolvedLocation  `json:"postcode,omitempty"`
	Matches  []ResolvedLocation `json:"matches"`
	Address  *ResolvedLocation  `json:"address,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	// RelaxationAttempted discloses that accessibility filters were dropped
	// for a retry and the query still found nothing.
	RelaxationAttempted bool `json:"relaxation_attempted,omitempty"`
}
