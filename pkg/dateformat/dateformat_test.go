package dateformat

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/wehubfusion/Prism/pkg/errors"
)

func TestConvertPattern(t *testing.T) {
	tests := []struct {
		pattern string
		layout  string
	}{
		{pattern: "MM/dd/yyyy", layout: "01/02/2006"},
		{pattern: "dd-MMM-yyyy", layout: "02-Jan-2006"},
		{pattern: "MMMM d, y", layout: "January 2, 2006"},
		{pattern: "EEEE", layout: "Monday"},
		{pattern: "EEE, dd MMM yy", layout: "Mon, 02 Jan 06"},
		{pattern: "hh:mm a", layout: "03:04 PM"},
		{pattern: "HH:mm:ss.sss", layout: "15:04:05.000"},
		{pattern: "MMM, YYYY", layout: "Jan, 2006"},
		{pattern: "yyyy-MM-dd'T'HH:mm", layout: "2006-01-02T15:04"},
		{pattern: "dddd", layout: "Monday"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.layout, ConvertPattern(tt.pattern))
		})
	}
}

func TestLayout_NamedFormatsWin(t *testing.T) {
	assert.Equal(t, "2006-01-02", Layout("DateOnly"))
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", Layout("RFC3339"))
	assert.Equal(t, "02.01.2006", Layout("dd.MM.yyyy"))
	assert.True(t, IsValidTimeFormat("Kitchen"))
	assert.False(t, IsValidTimeFormat("dd.MM.yyyy"))
}

func TestParse(t *testing.T) {
	utc := time.UTC
	want := time.Date(2024, time.March, 5, 14, 30, 0, 0, utc)

	tests := []struct {
		name  string
		input interface{}
		want  time.Time
	}{
		{name: "rfc3339", input: "2024-03-05T14:30:00Z", want: want},
		{name: "rfc3339 offset", input: "2024-03-05T15:30:00+01:00", want: want},
		{name: "datetime", input: "2024-03-05 14:30:00", want: want},
		{name: "datetime minutes", input: "2024-03-05 14:30", want: want},
		{name: "iso local", input: "2024-03-05T14:30:00", want: want},
		{name: "date only", input: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, utc)},
		{name: "us date", input: "03/05/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, utc)},
		{name: "month name", input: "March 5, 2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, utc)},
		{name: "year only", input: "2024", want: time.Date(2024, 1, 1, 0, 0, 0, 0, utc)},
		{name: "epoch millis float", input: float64(want.UnixMilli()), want: want},
		{name: "epoch millis int64", input: want.UnixMilli(), want: want},
		{name: "json number", input: json.Number("1709649000000"), want: want},
		{name: "time value", input: want, want: want},
		{name: "padded string", input: "  2024-03-05T14:30:00Z ", want: want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, utc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, utc, got.Location())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []interface{}{nil, "", "   ", "Apple", "13/45/2024", true, map[string]interface{}{}, time.Time{}}

	for _, in := range inputs {
		_, err := Parse(in, time.UTC)
		require.Error(t, err, "input %#v", in)

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
		assert.True(t, errors.Is(err, perrors.ErrInvalidDate))
	}
}

func TestParseWithAndFormat(t *testing.T) {
	got, err := ParseWith("05-Mar-2024", "dd-MMM-yyyy", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	assert.Equal(t, "Mar, 2024", Format(got, "MMM, yyyy"))
	assert.Equal(t, "2024-03-05", Format(got, "DateOnly"))

	_, err = ParseWith("not a date", "DateOnly", time.UTC)
	assert.ErrorIs(t, err, perrors.ErrInvalidDate)
}
