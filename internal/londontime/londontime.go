// Package londontime centralises Europe/London time handling. Journey API
// date/time parameters are London wall time while itinerary timestamps come
// back as UTC ISO-8601, so every conversion between the two lives here.
package londontime

import (
	"time"

	_ "time/tzdata"
)

var london *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		// tzdata is linked in, so this only happens if the zone name itself
		// is wrong.
		panic(err)
	}
	london = loc
}

func Location() *time.Location {
	return london
}

func Now() time.Time {
	return time.Now().In(london)
}

// ToLondon converts any instant to London wall time.
func ToLondon(t time.Time) time.Time {
	return t.In(london)
}

// DateParam and TimeParam format a London instant into the journey API's
// date/time query parameters.
func DateParam(t time.Time) string {
	return t.In(london).Format("20060102")
}

func TimeParam(t time.Time) string {
	return t.In(london).Format("1504")
}

// Clock is the short display time, e.g. "09:41".
func Clock(t time.Time) string {
	return t.In(london).Format("15:04")
}

// DisplayDate is the long display date, e.g. "Mon, 02 Jan 2006".
func DisplayDate(t time.Time) string {
	return t.In(london).Format("Mon, 02 Jan 2006")
}

// Stamp marks when a result set was generated, e.g. "2006-01-02 15:04 GMT".
func Stamp(t time.Time) string {
	return t.In(london).Format("2006-01-02 15:04 MST")
}

// ParseUTC parses an ISO-8601 timestamp with or without a Z suffix, as the
// journey API emits them, and returns the instant in UTC.
func ParseUTC(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
