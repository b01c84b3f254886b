package dataset

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wehubfusion/Prism/pkg/pathutil"
)

// orderedObject is a JSON object decoded with its document key order.
type orderedObject struct {
	keys   []string
	values map[string]interface{}
}

// Normalize turns a dataset of any supported shape into item descriptors.
// Indices start at offset; elements whose key resolves to nil are skipped
// without consuming an index.
func Normalize(dataset interface{}, opts Options, offset int) []*Item {
	return normalize(dataset, opts, offset, envFor(opts))
}

func normalize(dataset interface{}, opts Options, offset int, env *stageEnv) []*Item {
	dataset = prepare(dataset, opts.DataPath)

	switch data := dataset.(type) {
	case nil:
		return []*Item{}
	case string:
		return normalizeSlice(splitCSV(data), opts, offset)
	case orderedObject:
		return normalizeEntries(data.keys, data.values, opts, offset)
	}

	if elems, ok := asSlice(dataset); ok {
		return normalizeSlice(elems, opts, offset)
	}
	if obj, ok := asObject(dataset); ok {
		return normalizeEntries(sortedKeys(obj, env), obj, opts, offset)
	}
	return normalizeSlice([]interface{}{dataset}, opts, offset)
}

// prepare decodes raw JSON and applies the data path.
func prepare(dataset interface{}, dataPath string) interface{} {
	var raw []byte
	switch v := dataset.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	}

	if raw != nil {
		raw = bytes.TrimSpace(raw)
		if !gjson.ValidBytes(raw) {
			return string(raw)
		}
		res, ok := pathutil.GetJSON(raw, dataPath)
		if !ok {
			return nil
		}
		return decodeResult(res)
	}

	if dataPath == "" {
		return dataset
	}
	v, ok := pathutil.Get(dataset, dataPath)
	if !ok {
		return nil
	}
	return v
}

// decodeResult keeps the key order of a top-level object.
func decodeResult(res gjson.Result) interface{} {
	if !res.IsObject() {
		return res.Value()
	}
	obj := orderedObject{values: make(map[string]interface{})}
	res.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, seen := obj.values[k]; !seen {
			obj.keys = append(obj.keys, k)
		}
		obj.values[k] = value.Value()
		return true
	})
	return obj
}

func splitCSV(s string) []interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func sortedKeys(obj map[string]interface{}, env *stageEnv) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	coll := env.collator()
	sort.SliceStable(keys, func(i, j int) bool {
		return coll.CompareString(keys[i], keys[j]) < 0
	})
	return keys
}

// normalizeEntries enumerates a plain object: one item per entry.
func normalizeEntries(keys []string, obj map[string]interface{}, opts Options, offset int) []*Item {
	items := make([]*Item, 0, len(keys))
	for _, k := range keys {
		v := obj[k]
		it := &Item{
			Key:        k,
			Value:      k,
			DataObject: obj,
			Index:      offset + len(items),
		}
		scope := Scope{Item: it, Data: v}
		it.Label = labelOf(evaluate(opts.DisplayExpression, scope), v)
		it.ImgSrc = imageOf(opts, scope)
		items = append(items, it)
	}
	return items
}

func normalizeSlice(elems []interface{}, opts Options, offset int) []*Item {
	items := make([]*Item, 0, len(elems))
	for _, elem := range elems {
		var it *Item
		if isObjectLike(elem) {
			it = objectItem(elem, opts, offset+len(items))
		} else {
			it = primitiveItem(elem, opts, offset+len(items))
		}
		if it != nil {
			items = append(items, it)
		}
	}
	return items
}

func primitiveItem(elem interface{}, opts Options, index int) *Item {
	if elem == nil {
		return nil
	}
	it := &Item{Key: elem, Value: elem, Index: index}
	scope := Scope{Item: it, Data: elem}
	it.Label = labelOf(evaluate(opts.DisplayExpression, scope), elem)
	it.ImgSrc = imageOf(opts, scope)
	return it
}

func objectItem(elem interface{}, opts Options, index int) *Item {
	it := &Item{DataObject: elem, Index: index}
	if opts.IsAllFields() {
		it.Key = index
		it.Value = elem
	} else {
		key, ok := pathutil.Get(elem, opts.DataField)
		if !ok || key == nil {
			return nil
		}
		it.Key = key
		it.Value = key
	}

	scope := Scope{Item: it, Data: elem}
	if label := evaluate(opts.DisplayExpression, scope); label != nil {
		it.Label = stringify(label)
	} else if path := opts.DisplayPath(); path != "" {
		v, _ := pathutil.Get(elem, path)
		it.Label = stringify(v)
	} else {
		it.Label = stringify(it.Value)
	}
	it.ImgSrc = imageOf(opts, scope)
	return it
}

func evaluate(expr Expression, scope Scope) interface{} {
	if expr == nil {
		return nil
	}
	return expr.Evaluate(scope)
}

func labelOf(expr interface{}, fallback interface{}) string {
	if expr != nil {
		return stringify(expr)
	}
	return stringify(fallback)
}

func imageOf(opts Options, scope Scope) interface{} {
	if v := evaluate(opts.ImageExpression, scope); v != nil {
		return v
	}
	if opts.ImageField == "" {
		return nil
	}
	v, _ := pathutil.Get(scope.Data, opts.ImageField)
	return v
}
