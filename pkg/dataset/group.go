package dataset

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/wehubfusion/Prism/pkg/config"
	"github.com/wehubfusion/Prism/pkg/dateformat"
	"github.com/wehubfusion/Prism/pkg/pathutil"
)

// GroupOptions configures GroupItems.
type GroupOptions struct {
	// GroupBy is the path of the grouping value. Empty disables grouping.
	GroupBy string
	Match   MatchMode

	// Root prefixes GroupBy and OrderBy paths on the backing object.
	Root string

	// OrderBy re-orders items inside each bucket.
	OrderBy string

	DateFormat        string
	DefaultDateFormat string

	// Now anchors relative day labels. Zero uses the current time.
	Now      time.Time
	Location *time.Location
	Locale   language.Tag
}

type bucket struct {
	group *Group
	// first is the sort value of the bucket's first item
	first    interface{}
	hasFirst bool
}

// GroupItems partitions items into buckets. Every item lands in exactly one
// bucket; values that are missing, blank or not dates in a time mode go to
// OthersGroup.
func GroupItems(items []*Item, opts GroupOptions) []*Group {
	return groupItems(items, opts, newStageEnv(opts.Locale, opts.Location))
}

func groupItems(items []*Item, opts GroupOptions, env *stageEnv) []*Group {
	if len(items) == 0 || opts.GroupBy == "" {
		return nil
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(env.location)
	format := opts.DateFormat
	if format == "" {
		format = opts.DefaultDateFormat
	}
	if format == "" {
		format = config.DefaultDateFormat
	}

	var buckets []*bucket
	index := make(map[string]*bucket)

	for _, it := range items {
		key, sortValue, ok := groupKey(it, opts, env, now, format)
		b, exists := index[key]
		if !exists {
			b = &bucket{group: &Group{Key: key}, first: sortValue, hasFirst: ok}
			index[key] = b
			buckets = append(buckets, b)
		}
		b.group.Items = append(b.group.Items, it)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.hasFirst != b.hasFirst {
			return a.hasFirst
		}
		if !a.hasFirst {
			return false
		}
		return env.compare(a.first, b.first) < 0
	})

	fields := ParseOrderBy(opts.OrderBy)
	groups := make([]*Group, len(buckets))
	for i, b := range buckets {
		if len(fields) > 0 {
			b.group.Items = orderItems(b.group.Items, fields, opts.Root, env)
		}
		groups[i] = b.group
	}
	return groups
}

// groupValue reads the grouping path from the backing object, then from
// the descriptor itself.
func groupValue(it *Item, opts GroupOptions) (interface{}, bool) {
	if v, ok := pathutil.Get(it.backing(), joinPath(opts.Root, opts.GroupBy)); ok {
		return v, true
	}
	return pathutil.Get(it.fields(), opts.GroupBy)
}

// groupKey returns the bucket key and the value buckets are sorted by.
// ok is false for items that belong to OthersGroup.
func groupKey(it *Item, opts GroupOptions, env *stageEnv, now time.Time, format string) (string, interface{}, bool) {
	v, found := groupValue(it, opts)
	if !found || v == nil || isBlank(v) {
		return OthersGroup, nil, false
	}

	switch {
	case opts.Match == MatchAlphabet:
		s := strings.TrimSpace(stringify(v))
		r, _ := utf8.DecodeRuneInString(s)
		return env.upper(string(r)), v, true

	case opts.Match.IsTimeRollup():
		t, err := dateformat.Parse(v, env.location)
		if err != nil {
			return OthersGroup, nil, false
		}
		return rollupLabel(t, opts.Match, now, format), t, true
	}
	return stringify(v), v, true
}
