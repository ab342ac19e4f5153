package tfl

import (
	"net/url"
	"strings"

	"github.com/tomwhitfield/journeyplanner/internal/londontime"
	"github.com/tomwhitfield/journeyplanner/internal/models"
)

// JourneyRequest is a built journey query: the path identifies the two
// endpoints, the query carries everything else. The app key is attached by
// the client, not here.
type JourneyRequest struct {
	Path  string
	Query url.Values
}

// BuildJourneyRequest maps resolved criteria onto the journey API's URL
// shape. Endpoint strings are percent-encoded with no characters treated as
// safe, so a "/" inside a place name cannot be read as a path separator.
func BuildJourneyRequest(c models.JourneySearchCriteria) JourneyRequest {
	origin := escapeStrict(c.Origin.Locator())
	destination := escapeStrict(c.Destination.Locator())

	query := url.Values{}

	modes := c.Modes
	if len(modes) == 0 {
		modes = models.DefaultModes
	}
	query.Set("mode", strings.Join(modes, ","))

	// leave_now omits date/time entirely; the server defaults to "now".
	// Values are London wall time, never UTC.
	switch c.TimeIntent {
	case models.DepartAt:
		query.Set("timeIs", "departing")
		query.Set("date", londontime.DateParam(c.When))
		query.Set("time", londontime.TimeParam(c.When))
		query.Set("calcOneDirection", "true")
	case models.ArriveBy:
		query.Set("timeIs", "arriving")
		query.Set("date", londontime.DateParam(c.When))
		query.Set("time", londontime.TimeParam(c.When))
		query.Set("calcOneDirection", "true")
	}

	if len(c.AccessibilityPreferences) > 0 {
		query.Set("accessibilityPreference", strings.Join(c.AccessibilityPreferences, ","))
	}

	return JourneyRequest{
		Path:  "/Journey/JourneyResults/" + origin + "/to/" + destination,
		Query: query,
	}
}

// escapeStrict percent-encodes every byte outside the unreserved set.
// url.PathEscape is not strict enough: it leaves sub-delimiters like ","
// alone, and coordinate pairs rely on the comma being encoded.
func escapeStrict(s string) string {
	const upperhex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case 'A' <= ch && ch <= 'Z', 'a' <= ch && ch <= 'z', '0' <= ch && ch <= '9',
			ch == '-', ch == '_', ch == '.', ch == '~':
			b.WriteByte(ch)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[ch>>4])
			b.WriteByte(upperhex[ch&0xf])
		}
	}
	return b.String()
}
