package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(items []*Item) []interface{} {
	out := make([]interface{}, len(items))
	for i, it := range items {
		out[i] = it.Key
	}
	return out
}

func labels(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestNormalize_EmptyInputs(t *testing.T) {
	tests := []struct {
		name    string
		dataset interface{}
	}{
		{name: "nil", dataset: nil},
		{name: "empty string", dataset: ""},
		{name: "blank string", dataset: "   "},
		{name: "empty slice", dataset: []interface{}{}},
		{name: "json null", dataset: json.RawMessage("null")},
		{name: "json empty array", dataset: []byte("[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Normalize(tt.dataset, Options{}, 0)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestNormalize_CommaSeparatedString(t *testing.T) {
	items := Normalize(" red , green ,blue", Options{}, 0)

	require.Len(t, items, 3)
	for i, want := range []string{"red", "green", "blue"} {
		assert.Equal(t, want, items[i].Key)
		assert.Equal(t, want, items[i].Value)
		assert.Equal(t, want, items[i].Label)
		assert.Equal(t, i, items[i].Index)
		assert.Nil(t, items[i].DataObject)
	}
}

func TestNormalize_Primitives(t *testing.T) {
	items := Normalize([]interface{}{1.5, true, "x", nil, 3}, Options{}, 10)

	require.Len(t, items, 4)
	assert.Equal(t, []interface{}{1.5, true, "x", 3}, keys(items))
	assert.Equal(t, []string{"1.5", "true", "x", "3"}, labels(items))
	assert.Equal(t, 10, items[0].Index)
	assert.Equal(t, 13, items[3].Index)
}

func TestNormalize_TypedSlice(t *testing.T) {
	items := Normalize([]string{"a", "b"}, Options{}, 0)
	assert.Equal(t, []interface{}{"a", "b"}, keys(items))
}

func TestNormalize_ObjectsAllFields(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"id": "a", "name": "Alpha"},
		map[string]interface{}{"id": "b", "name": "Beta"},
	}

	items := Normalize(rows, Options{DisplayField: "name"}, 5)

	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Key)
	assert.Equal(t, 6, items[1].Key)
	assert.Equal(t, rows[0], items[0].Value)
	assert.Equal(t, rows[0], items[0].DataObject)
	assert.Equal(t, []string{"Alpha", "Beta"}, labels(items))
}

func TestNormalize_AllFieldsLabelIsJSON(t *testing.T) {
	items := Normalize([]interface{}{map[string]interface{}{"b": 2.0, "a": 1.0}}, Options{DataField: AllFields}, 0)

	require.Len(t, items, 1)
	assert.Equal(t, `{"a":1,"b":2}`, items[0].Label)
}

func TestNormalize_KeyedSkipsNilKeys(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"id": 1.0, "name": "one"},
		map[string]interface{}{"name": "missing"},
		map[string]interface{}{"id": nil, "name": "null"},
		map[string]interface{}{"id": 2.0, "name": "two"},
	}

	items := Normalize(rows, Options{DataField: "id", DisplayField: "name"}, 0)

	require.Len(t, items, 2)
	assert.Equal(t, []interface{}{1.0, 2.0}, keys(items))
	assert.Equal(t, []string{"one", "two"}, labels(items))
	assert.Equal(t, 0, items[0].Index)
	assert.Equal(t, 1, items[1].Index, "skipped elements do not consume an index")
	assert.Equal(t, items[0].Key, items[0].Value)
}

func TestNormalize_NestedPaths(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{
			"user": map[string]interface{}{"id": "u1", "profile": map[string]interface{}{"name": "Ann"}},
		},
	}

	items := Normalize(rows, Options{DataField: "user.id", DisplayLabel: "user.profile.name"}, 0)

	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0].Key)
	assert.Equal(t, "Ann", items[0].Label)
}

func TestNormalize_LabelFallsBackToKey(t *testing.T) {
	rows := []interface{}{map[string]interface{}{"id": 7.0}}

	items := Normalize(rows, Options{DataField: "id"}, 0)

	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].Label)
}

func TestNormalize_MissingDisplayFieldIsEmptyLabel(t *testing.T) {
	rows := []interface{}{map[string]interface{}{"id": "a"}}

	items := Normalize(rows, Options{DataField: "id", DisplayField: "name"}, 0)

	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Label)
}

func TestNormalize_DisplayFieldPrecedence(t *testing.T) {
	rows := []interface{}{map[string]interface{}{"id": "a", "first": "F", "second": "S"}}

	items := Normalize(rows, Options{DataField: "id", DisplayField: "first", DisplayLabel: "second"}, 0)
	assert.Equal(t, "F", items[0].Label)

	items = Normalize(rows, Options{DataField: "id", DisplayLabel: "second"}, 0)
	assert.Equal(t, "S", items[0].Label)
}

func TestNormalize_PlainObjectEntries(t *testing.T) {
	obj := map[string]interface{}{"b": "Bee", "a": "Ay", "c10": "ten", "c9": "nine"}

	items := Normalize(obj, Options{}, 0)

	require.Len(t, items, 4)
	assert.Equal(t, []interface{}{"a", "b", "c9", "c10"}, keys(items))
	assert.Equal(t, []string{"Ay", "Bee", "nine", "ten"}, labels(items))
	for _, it := range items {
		assert.Equal(t, it.Key, it.Value)
		assert.Equal(t, obj, it.DataObject)
	}
}

func TestNormalize_JSONObjectKeepsDocumentOrder(t *testing.T) {
	raw := []byte(`{"zeta": "Z", "alpha": "A", "mid": {"n": 1}}`)

	items := Normalize(raw, Options{}, 0)

	require.Len(t, items, 3)
	assert.Equal(t, []interface{}{"zeta", "alpha", "mid"}, keys(items))
	assert.Equal(t, []string{"Z", "A", `{"n":1}`}, labels(items))
}

func TestNormalize_JSONArray(t *testing.T) {
	raw := json.RawMessage(`[{"id": 1, "name": "one"}, {"id": 2, "name": "two"}]`)

	items := Normalize(raw, Options{DataField: "id", DisplayField: "name"}, 0)

	require.Len(t, items, 2)
	assert.Equal(t, []interface{}{1.0, 2.0}, keys(items))
}

func TestNormalize_InvalidJSONBytesAreText(t *testing.T) {
	items := Normalize([]byte("a, b"), Options{}, 0)
	assert.Equal(t, []interface{}{"a", "b"}, keys(items))
}

func TestNormalize_DataPath(t *testing.T) {
	doc := map[string]interface{}{
		"orders": []interface{}{
			map[string]interface{}{"lines": []interface{}{
				map[string]interface{}{"sku": "A"},
				map[string]interface{}{"sku": "B"},
			}},
			map[string]interface{}{"lines": []interface{}{
				map[string]interface{}{"sku": "C"},
			}},
		},
	}

	items := Normalize(doc, Options{DataField: "sku", DataPath: "orders.lines"}, 0)
	assert.Equal(t, []interface{}{"A", "B", "C"}, keys(items))

	raw := []byte(`{"data": {"rows": [{"sku": "X"}, {"sku": "Y"}]}}`)
	items = Normalize(raw, Options{DataField: "sku", DataPath: "data.rows"}, 0)
	assert.Equal(t, []interface{}{"X", "Y"}, keys(items))

	items = Normalize(doc, Options{DataPath: "missing"}, 0)
	assert.Empty(t, items)
}

func TestNormalize_DataPathRawJSON(t *testing.T) {
	doc := `{"orders": [
		{"lines": [{"sku": "A"}, {"sku": "B"}]},
		{"lines": [{"sku": "C"}]},
		{"note": "no lines"}
	], "labels": {"zeta": "Z", "alpha": "A"}}`

	tests := []struct {
		name     string
		dataset  interface{}
		dataPath string
		want     []interface{}
	}{
		{name: "fan out over array", dataset: json.RawMessage(doc), dataPath: "orders.lines", want: []interface{}{"A", "B", "C"}},
		{name: "fan out from bytes", dataset: []byte(doc), dataPath: "orders.lines", want: []interface{}{"A", "B", "C"}},
		{name: "wildcard", dataset: json.RawMessage(doc), dataPath: "orders.*.lines", want: []interface{}{"A", "B", "C"}},
		{name: "index", dataset: json.RawMessage(doc), dataPath: "orders[1].lines", want: []interface{}{"C"}},
		{name: "missing", dataset: json.RawMessage(doc), dataPath: "orders.missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Normalize(tt.dataset, Options{DataField: "sku", DataPath: tt.dataPath}, 0)
			if tt.want == nil {
				assert.Empty(t, items)
				return
			}
			assert.Equal(t, tt.want, keys(items))
		})
	}

	// objects reached through the path keep document order
	items := Normalize(json.RawMessage(doc), Options{DataPath: "labels"}, 0)
	assert.Equal(t, []interface{}{"zeta", "alpha"}, keys(items))
	assert.Equal(t, []string{"Z", "A"}, labels(items))
}

func TestNormalize_Expressions(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"id": "a", "first": "Ada", "last": "Lovelace", "avatar": "a.png"},
	}

	opts := Options{
		DataField:         "id",
		DisplayField:      "first",
		DisplayExpression: TemplateExpression("{{first}} {{last}}"),
		ImageExpression:   TemplateExpression("{{avatar}}"),
	}
	items := Normalize(rows, opts, 0)

	require.Len(t, items, 1)
	assert.Equal(t, "Ada Lovelace", items[0].Label)
	assert.Equal(t, "a.png", items[0].ImgSrc)
}

func TestNormalize_NilExpressionResultFallsBack(t *testing.T) {
	rows := []interface{}{map[string]interface{}{"id": "a", "name": "Name"}}
	opts := Options{
		DataField:         "id",
		DisplayField:      "name",
		DisplayExpression: ExprFunc("nil", func(Scope) interface{} { return nil }),
	}

	items := Normalize(rows, opts, 0)

	assert.Equal(t, "Name", items[0].Label)
}

func TestNormalize_ImageField(t *testing.T) {
	rows := []interface{}{map[string]interface{}{"id": "a", "img": map[string]interface{}{"src": "x.png"}}}

	items := Normalize(rows, Options{DataField: "id", ImageField: "img.src"}, 0)

	assert.Equal(t, "x.png", items[0].ImgSrc)
}

func TestNormalize_Structs(t *testing.T) {
	type user struct {
		ID   int
		Name string
	}
	items := Normalize([]user{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}}, Options{DataField: "id", DisplayField: "name"}, 0)

	assert.Equal(t, []interface{}{1, 2}, keys(items))
	assert.Equal(t, []string{"Ann", "Bob"}, labels(items))
}
