package dateformat

// TimeFormat represents the named date/time formats
type TimeFormat string

// Named formats matching Go's time package
const (
	FormatANSIC       TimeFormat = "ANSIC"       // "Mon Jan _2 15:04:05 2006"
	FormatUnixDate    TimeFormat = "UnixDate"    // "Mon Jan _2 15:04:05 MST 2006"
	FormatRFC822      TimeFormat = "RFC822"      // "02 Jan 06 15:04 MST"
	FormatRFC850      TimeFormat = "RFC850"      // "Monday, 02-Jan-06 15:04:05 MST"
	FormatRFC1123     TimeFormat = "RFC1123"     // "Mon, 02 Jan 2006 15:04:05 MST"
	FormatRFC1123Z    TimeFormat = "RFC1123Z"    // "Mon, 02 Jan 2006 15:04:05 -0700"
	FormatRFC3339     TimeFormat = "RFC3339"     // "2006-01-02T15:04:05Z07:00"
	FormatRFC3339Nano TimeFormat = "RFC3339Nano" // "2006-01-02T15:04:05.999999999Z07:00"
	FormatKitchen     TimeFormat = "Kitchen"     // "3:04PM"
	FormatDateTime    TimeFormat = "DateTime"    // "2006-01-02 15:04:05"
	FormatDateOnly    TimeFormat = "DateOnly"    // "2006-01-02"
	FormatTimeOnly    TimeFormat = "TimeOnly"    // "15:04:05"
)

var namedLayouts = map[TimeFormat]string{
	FormatANSIC:       "Mon Jan _2 15:04:05 2006",
	FormatUnixDate:    "Mon Jan _2 15:04:05 MST 2006",
	FormatRFC822:      "02 Jan 06 15:04 MST",
	FormatRFC850:      "Monday, 02-Jan-06 15:04:05 MST",
	FormatRFC1123:     "Mon, 02 Jan 2006 15:04:05 MST",
	FormatRFC1123Z:    "Mon, 02 Jan 2006 15:04:05 -0700",
	FormatRFC3339:     "2006-01-02T15:04:05Z07:00",
	FormatRFC3339Nano: "2006-01-02T15:04:05.999999999Z07:00",
	FormatKitchen:     "3:04PM",
	FormatDateTime:    "2006-01-02 15:04:05",
	FormatDateOnly:    "2006-01-02",
	FormatTimeOnly:    "15:04:05",
}

// GetTimeFormatLayout returns the Go time layout string for a named format
func GetTimeFormatLayout(format TimeFormat) string {
	return namedLayouts[format] // Empty string indicates unknown format
}

// IsValidTimeFormat checks if a format string is a known named format
func IsValidTimeFormat(format string) bool {
	return GetTimeFormatLayout(TimeFormat(format)) != ""
}

// parseLayouts are tried in order when a string has to be interpreted as a date.
var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"Mon Jan _2 15:04:05 2006",
	"Mon Jan _2 15:04:05 MST 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2006-01",
	"2006",
}
