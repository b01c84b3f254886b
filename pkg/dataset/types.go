package dataset

import (
	"fmt"
	"strings"
)

// AllFields is the data field sentinel selecting the whole object as value.
const AllFields = "All Fields"

// OthersGroup is the bucket for items without a usable group value.
const OthersGroup = "Others"

// Item is the uniform descriptor produced for every dataset entry.
type Item struct {
	Key        interface{} `json:"key"`
	Label      string      `json:"label"`
	Value      interface{} `json:"value"`
	DataObject interface{} `json:"dataObject,omitempty"`
	Index      int         `json:"index"`
	ImgSrc     interface{} `json:"imgSrc,omitempty"`
	Children   []*Item     `json:"children,omitempty"`
}

// backing returns the object fields are read from.
func (it *Item) backing() interface{} {
	if it.DataObject != nil {
		return it.DataObject
	}
	return it.Value
}

// fields exposes the descriptor itself for path lookups such as "label".
func (it *Item) fields() map[string]interface{} {
	m := map[string]interface{}{
		"key":   it.Key,
		"label": it.Label,
		"value": it.Value,
		"index": it.Index,
	}
	if it.DataObject != nil {
		m["dataObject"] = it.DataObject
	}
	if it.ImgSrc != nil {
		m["imgSrc"] = it.ImgSrc
	}
	return m
}

// Group is one bucket of grouped items.
type Group struct {
	Key   string  `json:"key"`
	Items []*Item `json:"data"`
}

// Result is the output of a transform. Items is always the flat, ordered
// sequence; Groups is populated when grouping was requested.
type Result struct {
	Items     []*Item  `json:"items"`
	Groups    []*Group `json:"groups,omitempty"`
	GroupedBy string   `json:"groupedBy,omitempty"`
}

// Grouped reports whether the result carries buckets.
func (r *Result) Grouped() bool {
	return r.GroupedBy != ""
}

// MatchMode selects how group keys are derived.
type MatchMode uint8

const (
	MatchWord MatchMode = iota
	MatchAlphabet
	MatchHour
	MatchDay
	MatchWeek
	MatchMonth
	MatchYear
	matchModeCount
)

var matchModeNames = [...]string{
	MatchWord:     "word",
	MatchAlphabet: "alphabet",
	MatchHour:     "hour",
	MatchDay:      "day",
	MatchWeek:     "week",
	MatchMonth:    "month",
	MatchYear:     "year",
}

func (m MatchMode) String() string {
	if m < matchModeCount {
		return matchModeNames[m]
	}
	return fmt.Sprintf("MatchMode(%d)", uint8(m))
}

// Valid reports whether m is one of the declared modes.
func (m MatchMode) Valid() bool {
	return m < matchModeCount
}

// IsTimeRollup reports whether m buckets by date.
func (m MatchMode) IsTimeRollup() bool {
	switch m {
	case MatchHour, MatchDay, MatchWeek, MatchMonth, MatchYear:
		return true
	}
	return false
}

// ParseMatchMode parses a mode name. The empty string selects MatchWord.
func ParseMatchMode(s string) (MatchMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MatchWord, nil
	}
	for i, name := range matchModeNames {
		if name == s {
			return MatchMode(i), nil
		}
	}
	return MatchWord, NewConfigError("match", fmt.Sprintf("unknown match mode '%s', must be one of: %s", s, strings.Join(matchModeNames[:], ", ")))
}

// MarshalText encodes the mode by name. Undeclared modes fail.
func (m MatchMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, NewConfigError("match", fmt.Sprintf("invalid match mode %d", uint8(m)))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names ParseMatchMode accepts.
func (m *MatchMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMatchMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Direction is a sort direction.
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// OrderField is one "field:direction" entry of an order specification.
type OrderField struct {
	Path      string
	Direction Direction
}
