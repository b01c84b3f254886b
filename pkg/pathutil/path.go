// Package pathutil resolves dotted field paths against generic decoded data.
//
// Paths accept dot notation ("user.address.city"), slash notation
// ("/user/address/city") and bracketed indices ("items[0].name"). A
// non-numeric segment applied to an array fans out over its elements and the
// collected values are flattened one level, so "orders.lines" over a list of
// orders yields every line of every order.
package pathutil

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Split breaks a path into its segments. Empty segments are dropped.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	path = strings.ReplaceAll(path, "/", ".")

	raw := strings.Split(path, ".")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Get returns the value at path inside data and whether it exists.
// A present key holding nil reports (nil, true).
func Get(data interface{}, path string) (interface{}, bool) {
	return walk(data, Split(path))
}

// wildcard fans out explicitly, e.g. "items.*.name".
const wildcard = "*"

func walk(current interface{}, parts []string) (interface{}, bool) {
	for i, part := range parts {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next

		case []interface{}:
			if part == wildcard {
				return fanOut(node, parts[i+1:])
			}
			if idx, err := strconv.Atoi(part); err == nil {
				if idx < 0 || idx >= len(node) {
					return nil, false
				}
				current = node[idx]
				continue
			}
			return fanOut(node, parts[i:])

		case []map[string]interface{}:
			items := make([]interface{}, len(node))
			for j, m := range node {
				items[j] = m
			}
			current = items
			return walk(current, parts[i:])

		case nil:
			return nil, false

		default:
			next, ok := walkReflect(node, part)
			if !ok {
				return nil, false
			}
			current = next
		}
	}
	return current, true
}

// fanOut applies the remaining path to every element and flattens one level.
func fanOut(items []interface{}, parts []string) (interface{}, bool) {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		v, ok := walk(item, parts)
		if !ok {
			continue
		}
		if nested, isSlice := v.([]interface{}); isSlice {
			out = append(out, nested...)
			continue
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}

// walkReflect handles typed maps, slices and structs that did not come from JSON decoding.
func walkReflect(node interface{}, part string) (interface{}, bool) {
	rv := reflect.ValueOf(node)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true

	case reflect.Struct:
		f := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, part)
		})
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

// GetJSON resolves path inside raw JSON without decoding the document.
// It follows the same rules as Get, including fan-out over arrays, and
// returns the matched gjson result so callers can keep object key order.
func GetJSON(raw []byte, path string) (gjson.Result, bool) {
	res := gjson.ParseBytes(raw)
	if !res.Exists() {
		return gjson.Result{}, false
	}
	return walkJSON(res, Split(path))
}

func walkJSON(current gjson.Result, parts []string) (gjson.Result, bool) {
	for i, part := range parts {
		switch {
		case current.IsArray():
			elems := current.Array()
			if part == wildcard {
				return fanOutJSON(elems, parts[i+1:])
			}
			if idx, err := strconv.Atoi(part); err == nil {
				if idx < 0 || idx >= len(elems) {
					return gjson.Result{}, false
				}
				current = elems[idx]
				continue
			}
			return fanOutJSON(elems, parts[i:])

		case current.IsObject():
			next, ok := jsonField(current, part)
			if !ok {
				return gjson.Result{}, false
			}
			current = next

		default:
			return gjson.Result{}, false
		}
	}
	return current, true
}

// jsonField looks a key up literally, so keys holding gjson syntax
// characters need no escaping. The last duplicate wins, as in decoding.
func jsonField(obj gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

// fanOutJSON mirrors fanOut and assembles the matches into a new array.
func fanOutJSON(elems []gjson.Result, parts []string) (gjson.Result, bool) {
	var b strings.Builder
	n := 0
	add := func(v gjson.Result) {
		if n > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Raw)
		n++
	}

	b.WriteByte('[')
	for _, elem := range elems {
		v, ok := walkJSON(elem, parts)
		if !ok {
			continue
		}
		if v.IsArray() {
			v.ForEach(func(_, nested gjson.Result) bool {
				add(nested)
				return true
			})
			continue
		}
		add(v)
	}
	b.WriteByte(']')

	if n == 0 {
		return gjson.Result{}, false
	}
	return gjson.Parse(b.String()), true
}
