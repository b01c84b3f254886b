package dataset

import (
	"time"

	"golang.org/x/text/language"

	"github.com/wehubfusion/Prism/pkg/cache"
	"github.com/wehubfusion/Prism/pkg/pathutil"
)

// Options configures a transform.
type Options struct {
	// DataField is the identity path. Empty or AllFields exposes whole objects.
	DataField string

	// DisplayField and DisplayLabel name the label path; the first non-empty wins.
	DisplayField string
	DisplayLabel string

	// DisplayExpression overrides the label when it yields a non-nil value.
	DisplayExpression Expression

	// ImageField and ImageExpression derive ImgSrc; the expression wins.
	ImageField      string
	ImageExpression Expression

	// OrderBy is "field:dir,field:dir" with dir asc or desc.
	OrderBy string

	// GroupBy is the path whose value buckets the items. Empty disables grouping.
	GroupBy string

	// DataPath selects the collection inside the dataset before normalization.
	DataPath string

	// Children extracts nested collections for recursive transformation.
	Children ChildrenRule

	Match MatchMode

	// DateFormat renders dates in time rollup group keys.
	DateFormat string
	// DefaultDateFormat is the app-wide fallback for DateFormat.
	DefaultDateFormat string

	// AllowEmpty keeps items with blank keys or labels.
	AllowEmpty bool

	// Offset is the first running index.
	Offset int

	// Location interprets zone-less dates and defines "today". Nil uses the transformer's.
	Location *time.Location

	// Locale drives collation and case mapping. The zero tag uses the transformer's.
	Locale language.Tag
}

// ChildrenRule locates an item's nested collection, either by path or by function.
type ChildrenRule struct {
	Field string
	Func  func(data interface{}) interface{}
	// Key identifies Func for memoization; empty disables caching.
	Key string
}

// ChildrenField builds a path-based rule.
func ChildrenField(path string) ChildrenRule {
	return ChildrenRule{Field: path}
}

// ChildrenFunc builds a function-based rule.
func ChildrenFunc(key string, fn func(data interface{}) interface{}) ChildrenRule {
	return ChildrenRule{Func: fn, Key: key}
}

// IsZero reports whether no rule is configured.
func (r ChildrenRule) IsZero() bool {
	return r.Field == "" && r.Func == nil
}

// Extract returns the nested collection for data.
func (r ChildrenRule) Extract(data interface{}) interface{} {
	if r.Func != nil {
		return r.Func(data)
	}
	if r.Field == "" {
		return nil
	}
	v, _ := pathutil.Get(data, r.Field)
	return v
}

// Validate checks if the options are valid
func (o Options) Validate() error {
	if !o.Match.Valid() {
		return NewConfigError("match", "unknown match mode "+o.Match.String())
	}
	if o.Offset < 0 {
		return NewConfigError("offset", "offset cannot be negative")
	}
	if o.Children.Field != "" && o.Children.Func != nil {
		return NewConfigError("itemchildren", "configure either a children field or a children function, not both")
	}
	return nil
}

// IsAllFields reports whether items expose whole objects.
func (o Options) IsAllFields() bool {
	return o.DataField == "" || o.DataField == AllFields
}

// DisplayPath returns the effective label path.
func (o Options) DisplayPath() string {
	for _, f := range []string{o.DisplayField, o.DisplayLabel} {
		if f != "" && f != AllFields {
			return f
		}
	}
	return ""
}

// optionsKey is the serializable view of Options used for memoization.
type optionsKey struct {
	DataField         string `json:"df"`
	DisplayPath       string `json:"dp"`
	DisplayExpression string `json:"de"`
	ImageField        string `json:"if"`
	ImageExpression   string `json:"ie"`
	OrderBy           string `json:"ob"`
	GroupBy           string `json:"gb"`
	DataPath          string `json:"dpath"`
	ChildrenField     string `json:"cf"`
	ChildrenFunc      string `json:"cfn"`
	Match             string `json:"m"`
	DateFormat        string `json:"fmt"`
	DefaultDateFormat string `json:"dfmt"`
	AllowEmpty        bool   `json:"ae"`
	Offset            int    `json:"off"`
	Location          string `json:"loc"`
	Locale            string `json:"lang"`
}

// CacheKey implements cache.Keyer. It is empty when a callback lacks a key.
func (o Options) CacheKey() string {
	k := optionsKey{
		DataField:         o.DataField,
		DisplayPath:       o.DisplayPath(),
		ImageField:        o.ImageField,
		OrderBy:           o.OrderBy,
		GroupBy:           o.GroupBy,
		DataPath:          o.DataPath,
		ChildrenField:     o.Children.Field,
		Match:             o.Match.String(),
		DateFormat:        o.DateFormat,
		DefaultDateFormat: o.DefaultDateFormat,
		AllowEmpty:        o.AllowEmpty,
		Offset:            o.Offset,
	}
	if o.IsAllFields() {
		k.DataField = AllFields
	}
	if o.Location != nil {
		k.Location = o.Location.String()
	}
	if o.Locale != language.Und {
		k.Locale = o.Locale.String()
	}

	var ok bool
	if k.DisplayExpression, ok = expressionKey(o.DisplayExpression); !ok {
		return ""
	}
	if k.ImageExpression, ok = expressionKey(o.ImageExpression); !ok {
		return ""
	}
	if o.Children.Func != nil {
		if o.Children.Key == "" {
			return ""
		}
		k.ChildrenFunc = o.Children.Key
	}

	data, err := cache.Marshal(k)
	if err != nil {
		return ""
	}
	return string(data)
}

func expressionKey(e Expression) (string, bool) {
	if e == nil {
		return "", true
	}
	key := e.CacheKey()
	return key, key != ""
}

var _ cache.Keyer = Options{}
