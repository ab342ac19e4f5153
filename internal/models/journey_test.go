package models

import "testing"

func intPtr(v int) *int { return &v }

func TestWalkingMinutes(t *testing.T) {
	j := Journey{
		Legs: []Leg{
			{Mode: Mode{ID: "tube"}, Duration: 10},
			{Mode: Mode{ID: "walking"}, Duration: 4},
			{Mode: Mode{ID: "walking"}, Duration: 2},
		},
	}
	if got := j.WalkingMinutes(); got != 6 {
		t.Errorf("WalkingMinutes() = %d, want 6", got)
	}

	if got := (Journey{}).WalkingMinutes(); got != 0 {
		t.Errorf("WalkingMinutes() on empty journey = %d, want 0", got)
	}
}

func TestInterchanges(t *testing.T) {
	tests := []struct {
		name string
		legs int
		want int
	}{
		{"no legs", 0, 0},
		{"single leg", 1, 0},
		{"three legs", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := Journey{Legs: make([]Leg, tt.legs)}
			if got := j.Interchanges(); got != tt.want {
				t.Errorf("Interchanges() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFareSortValue(t *testing.T) {
	priced := Journey{Fare: &Fare{TotalCost: intPtr(340)}}
	if got := priced.FareSortValue(); got != 340 {
		t.Errorf("FareSortValue() = %d, want 340", got)
	}

	for _, j := range []Journey{{}, {Fare: &Fare{}}} {
		if got := j.FareSortValue(); got != MissingSortValue {
			t.Errorf("FareSortValue() without fare = %d, want sentinel", got)
		}
	}
}

func TestDurationMinutesSentinel(t *testing.T) {
	if got := (Journey{Duration: 25}).DurationMinutes(); got != 25 {
		t.Errorf("DurationMinutes() = %d, want 25", got)
	}
	if got := (Journey{}).DurationMinutes(); got != MissingSortValue {
		t.Errorf("DurationMinutes() without duration = %d, want sentinel", got)
	}
}

func TestLocator(t *testing.T) {
	byName := ResolvedLocation{Name: "Euston"}
	if got := byName.Locator(); got != "Euston" {
		t.Errorf("Locator() = %q, want %q", got, "Euston")
	}

	byCoords := ResolvedLocation{
		Name:              "Somewhere",
		Coordinates:       &Coordinates{Lat: 51.5, Lon: -0.1},
		PreferCoordinates: true,
	}
	if got := byCoords.Locator(); got != "51.5,-0.1" {
		t.Errorf("Locator() = %q, want %q", got, "51.5,-0.1")
	}
}

func TestPlanRequestValidate(t *testing.T) {
	base := func() PlanRequest {
		return PlanRequest{
			Origin:      LocationQuery{Text: "Euston"},
			Destination: LocationQuery{Text: "Bank"},
		}
	}

	t.Run("defaults applied", func(t *testing.T) {
		req := base()
		if err := req.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
		if req.TimeIntent != LeaveNow {
			t.Errorf("TimeIntent = %q, want %q", req.TimeIntent, LeaveNow)
		}
		if len(req.Modes) != 2 || req.Modes[0] != "tube" || req.Modes[1] != "walking" {
			t.Errorf("Modes = %v, want default set", req.Modes)
		}
		if req.SortBy != "fastest" {
			t.Errorf("SortBy = %q, want fastest", req.SortBy)
		}
	})

	t.Run("missing origin", func(t *testing.T) {
		req := base()
		req.Origin = LocationQuery{}
		if err := req.Validate(); err != ErrMissingOrigin {
			t.Errorf("Validate() = %v, want %v", err, ErrMissingOrigin)
		}
	})

	t.Run("depart_at needs datetime", func(t *testing.T) {
		req := base()
		req.TimeIntent = DepartAt
		if err := req.Validate(); err != ErrMissingDateTime {
			t.Errorf("Validate() = %v, want %v", err, ErrMissingDateTime)
		}
	})
}
