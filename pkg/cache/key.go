package cache

import (
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Keyer is implemented by arguments that cannot be serialized directly,
// typically callbacks. CacheKey must identify the behaviour, not the instance.
// An empty key marks the argument as uncacheable.
type Keyer interface {
	CacheKey() string
}

// canonicalJSON sorts map keys so that equal maps always serialize identically.
var canonicalJSON = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// keyJSON is canonicalJSON with a tag key nobody sets, so struct fields are
// written under their Go names and json:"-" fields are not skipped. Path
// lookups reach those fields by name, so the key has to cover them too.
var keyJSON = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
	TagKey:                 "cachekey",
}.Froze()

const separator = "\x1f"

// Key builds a deterministic cache key from args. Every part carries the
// dynamic type of its argument, so values that encode to the same JSON but
// are normalized differently (a map and raw JSON text) never share a key.
// The second result is false
// when any argument cannot contribute to a stable key: a function, a Keyer
// with an empty key, or a value that fails to serialize.
func Key(args ...interface{}) (string, bool) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		part, ok := keyPart(arg)
		if !ok {
			return "", false
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, separator), true
}

func keyPart(arg interface{}) (string, bool) {
	if arg == nil {
		return "null", true
	}
	if k, ok := arg.(Keyer); ok {
		key := k.CacheKey()
		return "k:" + key, key != ""
	}
	rv := reflect.ValueOf(arg)
	typ := rv.Type().String()
	switch {
	case rv.Kind() == reflect.Func:
		return "", false
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return typ + ":" + string(rv.Bytes()), true
	}
	data, err := keyJSON.Marshal(arg)
	if err != nil {
		return "", false
	}
	return typ + ":" + string(data), true
}

// Marshal exposes the deterministic encoder for callers that need the same
// canonical form outside of key building.
func Marshal(v interface{}) ([]byte, error) {
	return canonicalJSON.Marshal(v)
}
