package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMovieValid(t *testing.T) {
	cases := []MovieInput{
		{Title: "Dune", Duration: "155", Year: "2021"},
		{Title: "Short", Duration: "1", Year: "1900"},
		{Title: strings.Repeat("x", 255), Duration: "500", Year: RawNumber(fmt.Sprint(time.Now().Year() + 5))},
	}
	for _, in := range cases {
		assert.Empty(t, ValidateMovie(in), "input %+v should be valid", in)
	}
}

func TestValidateMovieReportsEveryViolatedRule(t *testing.T) {
	// One violation per field: both must surface, not just the first.
	errs := ValidateMovie(MovieInput{Title: "", Duration: "0", Year: "1800"})
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "title")
	assert.Contains(t, errs[1], "duration")
	assert.Contains(t, errs[2], "year")
}

func TestValidateMovieFieldRules(t *testing.T) {
	maxYear := time.Now().Year() + YearSlack
	cases := []struct {
		name string
		in   MovieInput
		want string
	}{
		{"blank title", MovieInput{Title: "   ", Duration: "90", Year: "2000"}, "title is required"},
		{"long title", MovieInput{Title: strings.Repeat("x", 256), Duration: "90", Year: "2000"}, "title must not exceed 255 characters"},
		{"non-numeric duration", MovieInput{Title: "ok", Duration: "abc", Year: "2000"}, "duration must be a valid number"},
		{"missing duration", MovieInput{Title: "ok", Duration: "", Year: "2000"}, "duration must be a valid number"},
		{"zero duration", MovieInput{Title: "ok", Duration: "0", Year: "2000"}, "duration must be greater than 0 minutes"},
		{"oversized duration", MovieInput{Title: "ok", Duration: "501", Year: "2000"}, "duration must not exceed 500 minutes"},
		{"non-numeric year", MovieInput{Title: "ok", Duration: "90", Year: "soon"}, "year must be a valid number"},
		{"ancient year", MovieInput{Title: "ok", Duration: "90", Year: "1899"}, fmt.Sprintf("year must be between 1900 and %d", maxYear)},
		{"far future year", MovieInput{Title: "ok", Duration: "90", Year: RawNumber(fmt.Sprint(maxYear + 1))}, fmt.Sprintf("year must be between 1900 and %d", maxYear)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateMovie(tc.in)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.want, errs[0])
		})
	}
}

func TestValidateScreeningValid(t *testing.T) {
	in := ScreeningInput{
		StartsAt:   "2035-06-01 18:00:00",
		IsActive:   true,
		MovieID:    "1",
		RoomID:     "2",
		ShowtimeID: "3",
	}
	assert.Empty(t, ValidateScreening(in))
}

func TestValidateScreeningRejectsPastDateTime(t *testing.T) {
	in := ScreeningInput{
		StartsAt:   "2001-01-01 18:00:00",
		MovieID:    "1",
		RoomID:     "1",
		ShowtimeID: "1",
	}
	errs := ValidateScreening(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "starts_at must be in the future", errs[0])
}

func TestValidateScreeningShape(t *testing.T) {
	cases := []struct {
		name string
		in   ScreeningInput
		want []string
	}{
		{
			"missing datetime",
			ScreeningInput{MovieID: "1", RoomID: "1", ShowtimeID: "1"},
			[]string{"starts_at is required"},
		},
		{
			"garbage datetime",
			ScreeningInput{StartsAt: "next tuesday", MovieID: "1", RoomID: "1", ShowtimeID: "1"},
			[]string{"starts_at must be a valid date-time"},
		},
		{
			"missing references",
			ScreeningInput{StartsAt: "2035-06-01 18:00:00"},
			[]string{
				"movie_id is required and must be a positive integer",
				"room_id is required and must be a positive integer",
				"showtime_id is required and must be a positive integer",
			},
		},
		{
			"zero and negative references",
			ScreeningInput{StartsAt: "2035-06-01 18:00:00", MovieID: "0", RoomID: "-4", ShowtimeID: "x"},
			[]string{
				"movie_id is required and must be a positive integer",
				"room_id is required and must be a positive integer",
				"showtime_id is required and must be a positive integer",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateScreening(tc.in))
		})
	}
}

func TestRawNumberAcceptsNumbersAndStrings(t *testing.T) {
	var in MovieInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","duration":155,"year":"2021"}`), &in))
	assert.Equal(t, RawNumber("155"), in.Duration)
	assert.Equal(t, RawNumber("2021"), in.Year)

	var in2 MovieInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","duration":null}`), &in2))
	assert.Equal(t, RawNumber(""), in2.Duration)
}

func TestParseDateTimeLayouts(t *testing.T) {
	want := time.Date(2035, 6, 1, 18, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2035-06-01 18:00:00",
		"2035-06-01T18:00:00",
		"2035-06-01T18:00",
		"2035-06-01T18:00:00Z",
	} {
		got, err := ParseDateTime(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), "parsing %q", s)
	}
	_, err := ParseDateTime("01/06/2035")
	assert.Error(t, err)
}

func TestNormalizeDateTime(t *testing.T) {
	assert.Equal(t, "2035-06-01 18:00:00", NormalizeDateTime("2035-06-01T18:00"))
	// Unparseable values pass through untouched; validation catches them first.
	assert.Equal(t, "bogus", NormalizeDateTime("bogus"))
}
