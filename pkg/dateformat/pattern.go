package dateformat

import "strings"

// patternTokens maps Unicode date pattern tokens to Go layout fragments.
// Longer tokens come first so that "yyyy" wins over "yy".
var patternTokens = []struct {
	token  string
	layout string
}{
	{"yyyy", "2006"},
	{"YYYY", "2006"},
	{"yy", "06"},
	{"YY", "06"},
	{"y", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"DD", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"sss", "000"},
	{"SSS", "000"},
	{"ss", "05"},
	{"s", "5"},
	{"a", "PM"},
	{"A", "PM"},
	{"Z", "-07:00"},
}

// ConvertPattern translates a Unicode date pattern ("dd-MMM-yyyy HH:mm")
// into a Go layout ("02-Jan-2006 15:04"). Text inside single quotes is
// copied literally; unknown letters pass through unchanged.
func ConvertPattern(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range patternTokens {
			if strings.HasPrefix(pattern[i:], t.token) && !continuesRun(pattern, i, t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		// "H" alone has no Go equivalent without padding.
		if pattern[i] == 'H' {
			b.WriteString("15")
			i++
			continue
		}
		b.WriteByte(pattern[i])
		i++
	}
	return b.String()
}

// continuesRun reports whether the token at i is followed by more of the same
// letter, e.g. "sss" must not be consumed as "ss" followed by "s".
func continuesRun(pattern string, i int, token string) bool {
	next := i + len(token)
	return next < len(pattern) && pattern[next] == token[len(token)-1] && isRepeatedLetter(token)
}

func isRepeatedLetter(token string) bool {
	for j := 1; j < len(token); j++ {
		if token[j] != token[0] {
			return false
		}
	}
	return true
}

// Layout resolves a format specification to a Go layout. Named formats
// (see TimeFormat) are looked up first, anything else is treated as a
// Unicode pattern.
func Layout(format string) string {
	if layout := GetTimeFormatLayout(TimeFormat(format)); layout != "" {
		return layout
	}
	return ConvertPattern(format)
}
