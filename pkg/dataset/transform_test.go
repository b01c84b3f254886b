package dataset

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wehubfusion/Prism/pkg/cache"
	"github.com/wehubfusion/Prism/pkg/config"
	perrors "github.com/wehubfusion/Prism/pkg/errors"
	"github.com/wehubfusion/Prism/pkg/logging"
)

func newTestTransformer(opts ...TransformerOption) *Transformer {
	cfg := config.Default()
	cfg.Location = time.UTC
	opts = append([]TransformerOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewTransformer(cfg, opts...)
}

func TestTransform_Idempotent(t *testing.T) {
	tr := newTestTransformer()
	rows := []interface{}{
		map[string]interface{}{"id": "a", "name": "Alpha"},
		map[string]interface{}{"id": "b", "name": "Beta"},
	}
	opts := Options{DataField: "id", DisplayField: "name", OrderBy: "name:desc"}

	first, err := tr.Transform(rows, opts)
	require.NoError(t, err)
	second, err := tr.Transform(rows, opts)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), tr.CacheStats().Hits)
	assert.Equal(t, []interface{}{"b", "a"}, keys(first.Items))
}

func TestTransform_EqualArgumentsShareResult(t *testing.T) {
	tr := newTestTransformer()

	first, err := tr.Transform(map[string]interface{}{"b": 1.0, "a": 2.0}, Options{})
	require.NoError(t, err)
	second, err := tr.Transform(map[string]interface{}{"a": 2.0, "b": 1.0}, Options{})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestTransform_RawJSONDoesNotShareMapResult(t *testing.T) {
	tr := newTestTransformer()

	fromMap, err := tr.Transform(map[string]interface{}{"a10": 1, "a9": 2}, Options{})
	require.NoError(t, err)
	fromRaw, err := tr.Transform(json.RawMessage(`{"a10":1,"a9":2}`), Options{})
	require.NoError(t, err)

	assert.NotSame(t, fromMap, fromRaw)
	assert.Equal(t, []interface{}{"a9", "a10"}, keys(fromMap.Items))
	assert.Equal(t, []interface{}{"a10", "a9"}, keys(fromRaw.Items))
}

func TestTransform_StructFieldsHiddenFromJSON(t *testing.T) {
	type row struct {
		ID   int    `json:"id"`
		Name string `json:"-"`
	}
	tr := newTestTransformer()
	opts := Options{DataField: "id", DisplayField: "name"}

	first, err := tr.Transform([]row{{ID: 1, Name: "one"}}, opts)
	require.NoError(t, err)
	second, err := tr.Transform([]row{{ID: 1, Name: "uno"}}, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"one"}, labels(first.Items))
	assert.Equal(t, []string{"uno"}, labels(second.Items))
}

func TestTransform_GroupingIsPartition(t *testing.T) {
	tr := newTestTransformer()
	rows := []interface{}{
		map[string]interface{}{"id": 1.0, "cat": "x"},
		map[string]interface{}{"id": 2.0, "cat": "y"},
		map[string]interface{}{"id": 1.0, "cat": "dup"},
		map[string]interface{}{"id": 3.0},
		map[string]interface{}{"id": 4.0, "cat": "x"},
	}

	res, err := tr.Transform(rows, Options{DataField: "id", GroupBy: "cat", OrderBy: "id:desc"})
	require.NoError(t, err)

	require.True(t, res.Grouped())
	assert.Equal(t, "cat", res.GroupedBy)
	assert.Equal(t, []interface{}{4.0, 3.0, 2.0, 1.0}, keys(res.Items))

	var union []*Item
	for _, g := range res.Groups {
		union = append(union, g.Items...)
	}
	assert.ElementsMatch(t, res.Items, union)
	assert.Equal(t, []string{"x", "y", OthersGroup}, groupKeys(res.Groups))
}

func TestTransform_KeyNilExclusion(t *testing.T) {
	res, err := newTestTransformer().Transform([]interface{}{
		map[string]interface{}{"code": "a"},
		map[string]interface{}{"code": nil},
		map[string]interface{}{"other": "x"},
		map[string]interface{}{"code": "d"},
	}, Options{DataField: "code"})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"a", "d"}, keys(res.Items))
	assert.False(t, res.Grouped())
	assert.Nil(t, res.Groups)
}

func TestTransform_DedupByKey(t *testing.T) {
	res, err := newTestTransformer().Transform([]interface{}{
		map[string]interface{}{"id": 7.0, "name": "first"},
		map[string]interface{}{"id": 7.0, "name": "different"},
	}, Options{DataField: "id", DisplayField: "name"})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "first", res.Items[0].Label)
}

func TestTransform_OrderStability(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"amount": 1.0, "id": "a"},
		map[string]interface{}{"amount": 3.0, "id": "b"},
		map[string]interface{}{"amount": 3.0, "id": "c"},
		map[string]interface{}{"amount": 2.0, "id": "d"},
	}

	res, err := newTestTransformer().Transform(rows, Options{OrderBy: "amount:desc"})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"b", "c", "d", "a"}, ids(res.Items))
	assert.Equal(t, rows[1], res.Items[0].Value)
}

func TestTransform_AlphabetGroups(t *testing.T) {
	res, err := newTestTransformer().Transform("Apple,apricot,Banana", Options{GroupBy: "label", Match: MatchAlphabet})
	require.NoError(t, err)

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "A", res.Groups[0].Key)
	assert.Equal(t, []string{"Apple", "apricot"}, labels(res.Groups[0].Items))
	assert.Equal(t, "B", res.Groups[1].Key)
	assert.Equal(t, []string{"Banana"}, labels(res.Groups[1].Items))
}

func TestTransform_CommaParsing(t *testing.T) {
	res, err := newTestTransformer().Transform(" red , green ,blue", Options{})
	require.NoError(t, err)

	require.Len(t, res.Items, 3)
	for i, want := range []string{"red", "green", "blue"} {
		assert.Equal(t, want, res.Items[i].Key)
		assert.Equal(t, want, res.Items[i].Value)
		assert.Equal(t, want, res.Items[i].Label)
	}
}

func TestTransform_ChildrenAttachment(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"id": 1.0, "subItems": []interface{}{
			map[string]interface{}{"id": 11.0},
			map[string]interface{}{"id": 12.0},
		}},
	}

	res, err := newTestTransformer().Transform(rows, Options{DataField: "id", Children: ChildrenField("subItems")})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	children := res.Items[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, []interface{}{11.0, 12.0}, keys(children))
	for _, child := range children {
		assert.Equal(t, stringify(child.Key), child.Label)
		assert.NotNil(t, child.DataObject)
		assert.Nil(t, child.Children)
	}
}

func TestTransform_InvalidOptions(t *testing.T) {
	tr := newTestTransformer()

	_, err := tr.Transform("a", Options{Match: MatchMode(42)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, perrors.ErrInvalidConfig))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "match", cfgErr.Field)

	_, err = tr.Transform("a", Options{Offset: -1})
	assert.True(t, perrors.IsInvalidConfig(err))
}

func TestTransform_UncacheableExpression(t *testing.T) {
	tr := newTestTransformer()
	calls := 0
	opts := Options{DisplayExpression: ExprFunc("", func(s Scope) interface{} {
		calls++
		return "x"
	})}

	first, err := tr.Transform("a", opts)
	require.NoError(t, err)
	second, err := tr.Transform("a", opts)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, tr.CacheStats().Size)
}

func TestTransform_KeyedExpressionIsCached(t *testing.T) {
	tr := newTestTransformer()
	calls := 0
	keyLabel := ExprFunc("key-label-v1", func(s Scope) interface{} {
		calls++
		return s.Item.Key
	})

	_, err := tr.Transform("a,b", Options{DisplayExpression: keyLabel})
	require.NoError(t, err)
	_, err = tr.Transform("a,b", Options{DisplayExpression: keyLabel})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestTransform_TimeRollupKeyFollowsClock(t *testing.T) {
	now := fixedNow
	tr := newTestTransformer(WithClock(func() time.Time { return now }))
	opts := Options{GroupBy: "label", Match: MatchDay}

	res, err := tr.Transform("2024-05-15", opts)
	require.NoError(t, err)
	assert.Equal(t, "Today", res.Groups[0].Key)

	now = now.Add(24 * time.Hour)
	res, err = tr.Transform("2024-05-15", opts)
	require.NoError(t, err)
	assert.Equal(t, "Yesterday", res.Groups[0].Key)
}

func TestTransform_LRUEviction(t *testing.T) {
	lru, err := cache.NewLRU[*Result](2)
	require.NoError(t, err)
	tr := newTestTransformer(WithCache(lru))

	for _, ds := range []string{"a", "b", "c"} {
		_, err := tr.Transform(ds, Options{})
		require.NoError(t, err)
	}

	stats := tr.CacheStats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(1), stats.Evictions)

	tr.Purge()
	assert.Equal(t, 0, tr.CacheStats().Size)
}

func TestTransform_UnboundedCache(t *testing.T) {
	cfg := config.Default()
	cfg.CacheSize = 0
	tr := NewTransformer(cfg)

	for _, ds := range []string{"a", "b", "c"} {
		_, err := tr.Transform(ds, Options{})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, tr.CacheStats().Size)
	assert.Equal(t, 0, tr.CacheStats().Capacity)
}

func TestTransform_LogsCacheHits(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	tr := newTestTransformer(WithLogger(logging.NewZapLogger(zap.New(core))))

	_, err := tr.Transform("a", Options{})
	require.NoError(t, err)
	_, err = tr.Transform("a", Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, recorded.FilterMessage("Transformed dataset").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Transform cache hit").Len())
}

func TestTransform_PackageLevel(t *testing.T) {
	res, err := Transform("x,y", Options{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Same(t, Default(), Default())
}
