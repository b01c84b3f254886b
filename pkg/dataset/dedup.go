package dataset

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wehubfusion/Prism/pkg/cache"
)

// sameItem compares descriptors while ignoring their position.
var sameItem = []cmp.Option{
	cmpopts.IgnoreFields(Item{}, "Key", "Index"),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Dedup removes duplicate items, keeping the first occurrence, and drops
// items with blank keys or labels when a display field is configured.
func Dedup(items []*Item, opts Options) []*Item {
	allFields := opts.IsAllFields()
	filterBlank := opts.DisplayPath() != "" && !opts.AllowEmpty

	out := make([]*Item, 0, len(items))
	byLabel := make(map[string][]*Item)
	seenKeys := make(map[string]struct{})

	for _, it := range items {
		if filterBlank {
			if isBlank(it.Label) || (!allFields && isBlank(it.Key)) {
				continue
			}
		}

		if allFields {
			if containsEqual(byLabel[it.Label], it) {
				continue
			}
			byLabel[it.Label] = append(byLabel[it.Label], it)
		} else {
			id := identity(it.Key)
			if _, dup := seenKeys[id]; dup {
				continue
			}
			seenKeys[id] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}

func containsEqual(candidates []*Item, it *Item) bool {
	for _, c := range candidates {
		if cmp.Equal(c, it, sameItem...) {
			return true
		}
	}
	return false
}

// identity distinguishes keys by type, so 1 and "1" never collide.
func identity(key interface{}) string {
	data, err := cache.Marshal(key)
	if err != nil {
		return fmt.Sprintf("%T|%v", key, key)
	}
	return fmt.Sprintf("%T|%s", key, data)
}
