package models

import "fmt"

type LocationKind string

const (
	KindPostcode LocationKind = "Postcode"
	KindStop     LocationKind = "Stop"
	KindPlace    LocationKind = "Place"
	KindAddress  LocationKind = "Address"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ResolvedLocation is the system's best guess at what a free-text query
// refers to. It carries either a coordinate pair or a literal identifier
// string for the journey API. Never persisted: a fresh value is produced on
// every resolution attempt.
type ResolvedLocation struct {
	Name        string       `json:"name"`
	Display     string       `json:"display"`
	Kind        LocationKind `json:"kind"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	// PreferCoordinates selects the coordinate pair over Name when building
	// the journey request. Must only be set when Coordinates is present.
	PreferCoordinates bool `json:"prefer_coordinates"`
}

// Locator returns the string identifying this location on the journey API:
// "lat,lon" when coordinates are preferred and present, the name otherwise.
func (l ResolvedLocation) Locator() string {
	if l.PreferCoordinates && l.Coordinates != nil {
		return fmt.Sprintf("%v,%v", l.Coordinates.Lat, l.Coordinates.Lon)
	}
	return l.Name
}
