package models

// Journey is one itinerary as returned by the TfL Journey API. Consumed, not
// owned: only the fields the pipeline reads are mapped.
type Journey struct {
	Duration        int    `json:"duration"`
	StartDateTime   string `json:"startDateTime"`
	ArrivalDateTime string `json:"arrivalDateTime"`
	Legs            []Leg  `json:"legs"`
	Fare            *Fare  `json:"fare,omitempty"`
}

type Leg struct {
	Duration       int          `json:"duration"`
	Mode           Mode         `json:"mode"`
	DeparturePoint *Point       `json:"departurePoint,omitempty"`
	ArrivalPoint   *Point       `json:"arrivalPoint,omitempty"`
	Instruction    *Instruction `json:"instruction,omitempty"`
}

type Mode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Point struct {
	CommonName string `json:"commonName"`
}

type Instruction struct {
	Summary string `json:"summary"`
}

type Fare struct {
	TotalCost *int `json:"totalCost,omitempty"`
}

// MissingSortValue pushes itineraries with unknown duration or fare behind
// every itinerary with real data, without special-casing comparisons.
const MissingSortValue = 1_000_000_000

// DurationMinutes is the reported total duration, or a sentinel when the API
// omitted it, so unknown durations sort last under "fastest".
func (j Journey) DurationMinutes() int {
	if j.Duration <= 0 {
		return MissingSortValue
	}
	return j.Duration
}

// WalkingMinutes sums leg durations over walking legs. Missing leg durations
// count as zero.
func (j Journey) WalkingMinutes() int {
	total := 0
	for _, leg := range j.Legs {
		if leg.Mode.ID == "walking" && leg.Duration > 0 {
			total += leg.Duration
		}
	}
	return total
}

func (j Journey) Interchanges() int {
	if len(j.Legs) == 0 {
		return 0
	}
	return len(j.Legs) - 1
}

// FarePence returns the fare in pence when the API provided one.
func (j Journey) FarePence() (int, bool) {
	if j.Fare == nil || j.Fare.TotalCost == nil {
		return 0, false
	}
	return *j.Fare.TotalCost, true
}

// FareSortValue is the fare in pence, or a sentinel placing fareless
// itineraries after every priced one.
func (j Journey) FareSortValue() int {
	if pence, ok := j.FarePence(); ok {
		return pence
	}
	return MissingSortValue
}
