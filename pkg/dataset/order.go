package dataset

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wehubfusion/Prism/pkg/pathutil"
)

// ParseOrderBy parses "field:dir,field:dir". Unknown or missing directions
// are ascending; blank segments are ignored.
func ParseOrderBy(spec string) []OrderField {
	var fields []OrderField
	for _, segment := range strings.Split(spec, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		path, dir, _ := strings.Cut(segment, ":")
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		field := OrderField{Path: path}
		if strings.EqualFold(strings.TrimSpace(dir), "desc") {
			field.Direction = Descending
		}
		fields = append(fields, field)
	}
	return fields
}

// Order sorts items by orderBy, reading fields under root on each item's
// backing object. The input slice is never modified; without order fields
// a deep clone is returned.
func Order(items []*Item, orderBy string, root string) []*Item {
	return orderItems(items, ParseOrderBy(orderBy), root, newStageEnv(language.Und, nil))
}

func orderItems(items []*Item, fields []OrderField, root string, env *stageEnv) []*Item {
	if len(fields) == 0 {
		return cloneItems(items)
	}

	sorted := make([]*Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, f := range fields {
			c := env.compare(orderValue(sorted[i], f.Path, root), orderValue(sorted[j], f.Path, root))
			if c == 0 {
				continue
			}
			if f.Direction == Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return sorted
}

func joinPath(root, path string) string {
	if root == "" {
		return path
	}
	return root + "." + path
}

// orderValue falls back to the label when the field is absent.
func orderValue(it *Item, path, root string) interface{} {
	v, ok := pathutil.Get(it.backing(), joinPath(root, path))
	if !ok || v == nil {
		return it.Label
	}
	return v
}

// compare orders numbers numerically, bools false first, times
// chronologically and everything else by collation.
func (e *stageEnv) compare(a, b interface{}) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return e.collator().CompareString(stringify(a), stringify(b))
}

func cloneItems(items []*Item) []*Item {
	if items == nil {
		return nil
	}
	out := make([]*Item, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneItem(it *Item) *Item {
	if it == nil {
		return nil
	}
	return &Item{
		Key:        pathutil.DeepClone(it.Key),
		Label:      it.Label,
		Value:      pathutil.DeepClone(it.Value),
		DataObject: pathutil.DeepClone(it.DataObject),
		Index:      it.Index,
		ImgSrc:     pathutil.DeepClone(it.ImgSrc),
		Children:   cloneItems(it.Children),
	}
}
