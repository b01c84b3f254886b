package dateformat

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Parse interprets value as a point in time. Supported inputs are time.Time,
// numbers (epoch milliseconds), json.Number and strings in any of the common
// ISO, RFC and US layouts. Strings without zone information are read in loc
// (time.Local when nil).
func Parse(value interface{}, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	switch v := value.(type) {
	case nil:
		return time.Time{}, newParseError(value, "value is nil")
	case time.Time:
		if v.IsZero() {
			return time.Time{}, newParseError(value, "zero time")
		}
		return v.In(loc), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, newParseError(value, "value is nil")
		}
		return Parse(*v, loc)
	case float64:
		return fromMillis(v, loc, value)
	case float32:
		return fromMillis(float64(v), loc, value)
	case int:
		return time.UnixMilli(int64(v)).In(loc), nil
	case int64:
		return time.UnixMilli(v).In(loc), nil
	case int32:
		return time.UnixMilli(int64(v)).In(loc), nil
	case uint64:
		return time.UnixMilli(int64(v)).In(loc), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, newParseError(value, err.Error())
		}
		return fromMillis(f, loc, value)
	case string:
		return parseString(v, loc)
	}
	return time.Time{}, newParseError(value, "unsupported type")
}

func fromMillis(ms float64, loc *time.Location, original interface{}) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, newParseError(original, "not a finite number")
	}
	return time.UnixMilli(int64(ms)).In(loc), nil
}

func parseString(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, newParseError(s, "empty string")
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, newParseError(s, "no known layout matches")
}

// ParseWith parses s with an explicit format (named or Unicode pattern).
func ParseWith(s, format string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout(format), strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, newParseError(s, err.Error())
	}
	return t, nil
}

// Format renders t with a named format or Unicode pattern.
func Format(t time.Time, format string) string {
	return t.Format(Layout(format))
}
