package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

func testSearcher(t *testing.T, keys []types.Key) *Searcher {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Keys = keys
	s, err := New([]map[string]any{{"x": "y"}}, cfg)
	require.NoError(t, err)
	return s
}

func TestAggregate_Empty(t *testing.T) {
	s := testSearcher(t, nil)
	assert.Equal(t, 1.0, s.aggregate(0, nil))
}

func TestAggregate_UnweightedMean(t *testing.T) {
	s := testSearcher(t, []types.Key{{Name: "title"}, {Name: "author"}})

	score := s.aggregate(0, []types.FieldMatch{
		{Key: "title", Score: 0.2},
		{Key: "author", Score: 0.4},
	})
	assert.InDelta(t, 0.3, score, 1e-9)
}

func TestAggregate_WeightedMinWins(t *testing.T) {
	s := testSearcher(t, []types.Key{
		{Name: "title", Weight: 0.5},
		{Name: "tags", Weight: 0.9},
		{Name: "author"},
	})

	// Unweighted author score is ignored once any weighted key matched.
	score := s.aggregate(0, []types.FieldMatch{
		{Key: "title", Score: 0.4},
		{Key: "tags", Score: 0.3},
		{Key: "author", Score: 0.01},
	})
	assert.InDelta(t, 0.2, score, 1e-9, "min(0.4*0.5, 0.3*0.9)")
}

func TestAggregate_WeightedOverridesMean(t *testing.T) {
	s := testSearcher(t, []types.Key{
		{Name: "a"},
		{Name: "b", Weight: 0.5},
	})

	// A weighted field gates the record even when the unweighted field
	// scored far better: min(0.9*0.5), not the mean of 0.2 and 0.45.
	score := s.aggregate(0, []types.FieldMatch{
		{Key: "a", Score: 0.2},
		{Key: "b", Score: 0.9},
	})
	assert.InDelta(t, 0.45, score, 1e-9)
}

func TestAggregate_UnknownKeyDefaultsToUnweighted(t *testing.T) {
	s := testSearcher(t, nil)

	score := s.aggregate(0, []types.FieldMatch{
		{Key: "", Score: 0.5},
	})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestHighlight(t *testing.T) {
	out := Highlight("The Great Gatsby", [][2]int{{4, 8}, {10, 15}}, "<em>", "</em>")
	assert.Equal(t, "The <em>Great</em> <em>Gatsby</em>", out)

	assert.Equal(t, "plain", Highlight("plain", nil, "<em>", "</em>"))

	// Out-of-bounds ranges are clamped or skipped, never panic.
	out = Highlight("abc", [][2]int{{1, 9}}, "[", "]")
	assert.Equal(t, "a[bc]", out)
	out = Highlight("abc", [][2]int{{5, 9}}, "[", "]")
	assert.Equal(t, "abc", out)
}
