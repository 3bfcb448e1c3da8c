// Package validation holds the pure field validators for write payloads.
// Each validator returns the full list of violated rules, not just the
// first, so the admin UI can show every problem at once. Existence of
// referenced rows is not checked here; the validators only verify shape.
package validation

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the canonical DB format screenings are stored in.
const DateTimeLayout = "2006-01-02 15:04:05"

// Movie field limits.
const (
	MaxTitleLen    = 255
	MaxDurationMin = 500
	MinYear        = 1900
	YearSlack      = 5 // releases may be scheduled a few years ahead
)

// RawNumber accepts a JSON number or a JSON string and keeps the raw token.
// HTML forms post numeric fields as strings, so the validators parse the
// token themselves instead of trusting the JSON type.
type RawNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *RawNumber) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if string(b) == "null" {
		b = nil
	}
	*n = RawNumber(b)
	return nil
}

// MovieInput is the write payload for movies.
type MovieInput struct {
	Title    string    `json:"title"`
	Duration RawNumber `json:"duration"`
	Year     RawNumber `json:"year"`
}

// ScreeningInput is the write payload for screenings.
type ScreeningInput struct {
	StartsAt   string    `json:"starts_at"`
	IsActive   bool      `json:"is_active"`
	MovieID    RawNumber `json:"movie_id"`
	RoomID     RawNumber `json:"room_id"`
	ShowtimeID RawNumber `json:"showtime_id"`
}

// ValidateMovie checks every movie field rule and returns one message per
// violated rule. An empty slice means the input is valid.
func ValidateMovie(in MovieInput) []string {
	var errs []string

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs = append(errs, "title is required")
	} else if len(in.Title) > MaxTitleLen {
		errs = append(errs, fmt.Sprintf("title must not exceed %d characters", MaxTitleLen))
	}

	if d, err := strconv.Atoi(string(in.Duration)); err != nil {
		errs = append(errs, "duration must be a valid number")
	} else if d <= 0 {
		errs = append(errs, "duration must be greater than 0 minutes")
	} else if d > MaxDurationMin {
		errs = append(errs, fmt.Sprintf("duration must not exceed %d minutes", MaxDurationMin))
	}

	maxYear := time.Now().Year() + YearSlack
	if y, err := strconv.Atoi(string(in.Year)); err != nil {
		errs = append(errs, "year must be a valid number")
	} else if y < MinYear || y > maxYear {
		errs = append(errs, fmt.Sprintf("year must be between %d and %d", MinYear, maxYear))
	}

	return errs
}

// ValidateScreening checks the screening payload shape: the date-time must
// parse and lie strictly in the future at validation time, and each
// reference must be a positive integer identifier. Whether the referenced
// rows exist is left to the store's foreign keys.
func ValidateScreening(in ScreeningInput) []string {
	var errs []string

	if strings.TrimSpace(in.StartsAt) == "" {
		errs = append(errs, "starts_at is required")
	} else if t, err := ParseDateTime(in.StartsAt); err != nil {
		errs = append(errs, "starts_at must be a valid date-time")
	} else if !t.After(time.Now().UTC()) {
		errs = append(errs, "starts_at must be in the future")
	}

	errs = appendRefError(errs, in.MovieID, "movie_id")
	errs = appendRefError(errs, in.RoomID, "room_id")
	errs = appendRefError(errs, in.ShowtimeID, "showtime_id")

	return errs
}

func appendRefError(errs []string, raw RawNumber, field string) []string {
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return append(errs, field+" is required and must be a positive integer")
	}
	return errs
}

// ParseDateTime parses the date-time formats the admin UI and API clients
// send and interprets them as UTC (the store runs with loc=UTC).
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{
		DateTimeLayout,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04", // HTML datetime-local
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}

// NormalizeDateTime converts any accepted input format to the canonical DB
// format. Callers must validate first; an unparseable value is returned
// unchanged.
func NormalizeDateTime(s string) string {
	t, err := ParseDateTime(s)
	if err != nil {
		return s
	}
	return t.Format(DateTimeLayout)
}
