package cache

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedKeyer string

func (k namedKeyer) CacheKey() string { return string(k) }

func TestKey_DeterministicForMaps(t *testing.T) {
	a := map[string]interface{}{"b": 2, "a": 1, "nested": map[string]interface{}{"y": true, "x": nil}}
	b := map[string]interface{}{"nested": map[string]interface{}{"x": nil, "y": true}, "a": 1, "b": 2}

	ka, ok := Key(a, "name", 3)
	assert.True(t, ok)
	kb, ok := Key(b, "name", 3)
	assert.True(t, ok)
	assert.Equal(t, ka, kb)
}

func TestKey_DistinguishesArguments(t *testing.T) {
	k1, _ := Key("a,b", "id")
	k2, _ := Key("a", "b,id")
	k3, _ := Key([]interface{}{"a", "b"}, "id")
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)

	n1, _ := Key(1)
	n2, _ := Key("1")
	assert.NotEqual(t, n1, n2)
}

func TestKey_Keyers(t *testing.T) {
	k1, ok := Key(namedKeyer("expr:{{name}}"))
	assert.True(t, ok)
	k2, _ := Key(namedKeyer("expr:{{code}}"))
	assert.NotEqual(t, k1, k2)

	_, ok = Key(namedKeyer(""))
	assert.False(t, ok)
}

func TestKey_FunctionsAreUncacheable(t *testing.T) {
	_, ok := Key("x", func() {})
	assert.False(t, ok)

	_, ok = Key(map[string]interface{}{"fn": func() {}})
	assert.False(t, ok)
}

func TestKey_Bytes(t *testing.T) {
	k, ok := Key([]byte(`{"a":1}`), nil)
	assert.True(t, ok)
	assert.Equal(t, "[]uint8:{\"a\":1}"+separator+"null", k)
}

func TestKey_SameJSONDifferentTypes(t *testing.T) {
	type row struct {
		A10 int `json:"a10"`
		A9  int `json:"a9"`
	}

	args := []interface{}{
		map[string]interface{}{"a10": 1, "a9": 2},
		json.RawMessage(`{"a10":1,"a9":2}`),
		[]byte(`{"a10":1,"a9":2}`),
		`{"a10":1,"a9":2}`,
		row{A10: 1, A9: 2},
	}

	seen := make(map[string]int)
	for i, arg := range args {
		k, ok := Key(arg)
		require.True(t, ok)
		if prev, dup := seen[k]; dup {
			t.Fatalf("arguments %d and %d share key %q", prev, i, k)
		}
		seen[k] = i
	}
}

func TestKey_CoversHiddenStructFields(t *testing.T) {
	type row struct {
		ID   int    `json:"id"`
		Name string `json:"-"`
	}

	k1, ok := Key([]row{{ID: 1, Name: "one"}})
	require.True(t, ok)
	k2, ok := Key([]row{{ID: 1, Name: "uno"}})
	require.True(t, ok)
	assert.NotEqual(t, k1, k2)
}

func TestMarshal_UsesJSONTags(t *testing.T) {
	type row struct {
		ID     int    `json:"id"`
		Secret string `json:"-"`
	}

	data, err := Marshal(row{ID: 7, Secret: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(data))
}
