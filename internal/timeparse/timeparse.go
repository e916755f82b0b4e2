package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseable is returned when a time entry matches none of the
// supported conventions.
var ErrUnparseable = errors.New("unparseable time")

// Layouts tried in priority order against the normalized "date time"
// string. First full match wins. The no-space and dot variants are kept as
// fallbacks for inputs normalization did not catch.
var layouts = []string{
	"2006-01-02 3:04 pm",
	"2006-01-02 3 pm",
	"2006-01-02 15:04",
	"2006-01-02 3:04pm",
	"2006-01-02 3.04 pm",
	"2006-01-02 3.04pm",
	"2006-01-02 15.04",
}

// Parser turns a calendar date plus a free-text time entry into an instant
// anchored in a fixed zone. The modal's time fields are unconstrained text,
// so "2:30pm", "2 PM", "14:30" and "2.30pm" all have to land on the same
// clock reading.
type Parser struct {
	loc *time.Location
}

func New(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Parser{loc: loc}, nil
}

// Location returns the zone instants are anchored in.
func (p *Parser) Location() *time.Location { return p.loc }

// Parse combines dateStr (YYYY-MM-DD) with a free-text time entry.
func (p *Parser) Parse(dateStr, timeStr string) (time.Time, error) {
	for _, candidate := range []string{normalize(timeStr), strings.ToLower(strings.TrimSpace(timeStr))} {
		combined := dateStr + " " + candidate
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, combined, p.loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, timeStr)
}

// normalize lower-cases the entry, turns dot separators into colons, makes
// sure a glued am/pm suffix is preceded by a space, and collapses runs of
// spaces left behind.
func normalize(timeStr string) string {
	s := strings.ToLower(strings.TrimSpace(timeStr))
	s = strings.ReplaceAll(s, ".", ":")
	s = strings.ReplaceAll(s, "pm", " pm")
	s = strings.ReplaceAll(s, "am", " am")
	return strings.Join(strings.Fields(s), " ")
}
