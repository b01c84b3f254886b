package dataset

import (
	"fmt"
	"time"

	"github.com/wehubfusion/Prism/pkg/dateformat"
)

// Relative day labels.
const (
	labelToday     = "Today"
	labelYesterday = "Yesterday"
	labelLast      = "Last "
)

// rollupLabel renders the bucket key of t for a time rollup mode, relative
// to now. Both are compared in now's location.
func rollupLabel(t time.Time, mode MatchMode, now time.Time, format string) string {
	t = t.In(now.Location())

	switch mode {
	case MatchHour:
		hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
		clock := hour.Format("03:04 PM")
		if dayDistance(t, now) == 0 {
			return labelToday + ", " + clock
		}
		return dateformat.Format(t, format) + ", " + clock

	case MatchDay:
		switch d := dayDistance(t, now); {
		case d == 0:
			return labelToday
		case d == -1:
			return labelYesterday
		case d >= -6 && d <= -2:
			return labelLast + t.Weekday().String()
		case d >= 1 && d <= 6:
			return t.Weekday().String()
		}
		return dateformat.Format(t, format)

	case MatchWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("Week %d, %d", week, year)

	case MatchMonth:
		return t.Format("Jan, 2006")

	case MatchYear:
		return t.Format("2006")
	}
	return dateformat.Format(t, format)
}

// dayDistance is the number of calendar days from now to t.
func dayDistance(t, now time.Time) int {
	a := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}
