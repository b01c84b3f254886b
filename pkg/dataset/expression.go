package dataset

import (
	"regexp"
	"strings"

	"github.com/wehubfusion/Prism/pkg/pathutil"
)

// Scope is what an Expression is evaluated against.
type Scope struct {
	// Item is the descriptor being built. Label and ImgSrc are not yet set.
	Item *Item
	// Data is the backing object: the source object, or the raw value for primitives.
	Data interface{}
}

// Expression derives a display value for an item. Implementations must be
// pure: the same scope always yields the same value.
type Expression interface {
	Evaluate(scope Scope) interface{}
	// CacheKey identifies the expression's behaviour. An empty key disables
	// memoization for any transform using the expression.
	CacheKey() string
}

type exprFunc struct {
	key string
	fn  func(Scope) interface{}
}

func (e exprFunc) Evaluate(scope Scope) interface{} { return e.fn(scope) }
func (e exprFunc) CacheKey() string                 { return e.key }

// ExprFunc wraps a Go function as an Expression. key must change whenever
// the function's behaviour does; pass "" to opt out of caching.
func ExprFunc(key string, fn func(Scope) interface{}) Expression {
	return exprFunc{key: key, fn: fn}
}

// placeholderRe matches {{path}} or ${path}
var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}|\$\{([^}]+)\}`)

// TemplateExpression renders "{{path}}" placeholders against the scope.
// A template consisting of exactly one placeholder yields the raw value
// (not stringified); otherwise placeholders are expanded into a string and
// missing paths render as "". Paths resolve against the backing object
// first, then against the descriptor ("key", "label", "value", "index").
type TemplateExpression string

func (t TemplateExpression) CacheKey() string { return "tmpl:" + string(t) }

func (t TemplateExpression) Evaluate(scope Scope) interface{} {
	tmpl := string(t)
	if path, ok := singlePlaceholder(tmpl); ok {
		v, _ := resolveScopePath(scope, path)
		return v
	}

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		v, ok := resolveScopePath(scope, placeholderPath(match))
		if !ok || v == nil {
			return ""
		}
		return stringify(v)
	})
}

func resolveScopePath(scope Scope, path string) (interface{}, bool) {
	if v, ok := pathutil.Get(scope.Data, path); ok {
		return v, true
	}
	if scope.Item != nil {
		return pathutil.Get(scope.Item.fields(), path)
	}
	return nil, false
}

// singlePlaceholder checks if a template is exactly one placeholder reference
func singlePlaceholder(s string) (string, bool) {
	s = strings.TrimSpace(s)
	loc := placeholderRe.FindStringIndex(s)
	if loc == nil || loc[0] != 0 || loc[1] != len(s) {
		return "", false
	}
	return placeholderPath(s), true
}

// placeholderPath extracts the path from a placeholder
// Example: "{{user.name}}" returns "user.name"
func placeholderPath(match string) string {
	if strings.HasPrefix(match, "{{") {
		return strings.TrimSpace(match[2 : len(match)-2])
	}
	return strings.TrimSpace(match[2 : len(match)-1])
}

// FieldExpression reads a single path. It is equivalent to configuring a
// display field, but usable wherever an Expression is expected.
func FieldExpression(path string) Expression {
	return ExprFunc("field:"+path, func(s Scope) interface{} {
		v, _ := pathutil.Get(s.Data, path)
		return v
	})
}
