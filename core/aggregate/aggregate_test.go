package aggregate

import (
	"testing"

	"github.com/asaidimu/go-sift/core/dataset"
	"github.com/stretchr/testify/assert"
)

func regionRows() []dataset.Row {
	return []dataset.Row{
		{Values: dataset.Values{"region": "East", "sales": 10.0}},
		{Values: dataset.Values{"region": "West", "sales": 5.0}},
		{Values: dataset.Values{"region": "East", "sales": 3.0}},
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	got := Aggregate(regionRows(), "region", "sales", ReducerSum)
	assert.Equal(t, Series{{Name: "East", Value: 13}, {Name: "West", Value: 5}}, got)
}

func TestAggregate_Reducers(t *testing.T) {
	rows := []dataset.Row{
		{Values: dataset.Values{"g": "a", "v": 4.0}},
		{Values: dataset.Values{"g": "a", "v": "2"}},
		{Values: dataset.Values{"g": "a", "v": "n/a"}},
		{Values: dataset.Values{"g": "b", "v": nil}},
	}

	tests := []struct {
		reducer  Reducer
		expected Series
	}{
		{ReducerSum, Series{{"a", 6}, {"b", 0}}},
		{ReducerCount, Series{{"a", 3}, {"b", 1}}},
		{ReducerAvg, Series{{"a", 2}, {"b", 0}}},
		{ReducerMin, Series{{"a", 2}, {"b", 0}}},
		{ReducerMax, Series{{"a", 4}, {"b", 0}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.reducer), func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(rows, "g", "v", tt.reducer))
		})
	}
}

func TestAggregate_NullGroupKey(t *testing.T) {
	rows := []dataset.Row{
		{Values: dataset.Values{"g": nil, "v": 1.0}},
		{Values: dataset.Values{"v": 2.0}},
		{Values: dataset.Values{"g": "x", "v": 3.0}},
	}
	got := Aggregate(rows, "g", "v", ReducerSum)
	assert.Equal(t, Series{{Name: "", Value: 3}, {Name: "x", Value: 3}}, got)
}

func TestAggregate_NumericGroupKey(t *testing.T) {
	rows := []dataset.Row{
		{Values: dataset.Values{"year": 2024.0, "v": 1.0}},
		{Values: dataset.Values{"year": "2024", "v": 2.0}},
	}
	assert.Equal(t, Series{{Name: "2024", Value: 3}}, Aggregate(rows, "year", "v", ReducerSum))
}

func TestAggregate_Degenerate(t *testing.T) {
	assert.Equal(t, Series{}, Aggregate(nil, "region", "sales", ReducerSum))
	assert.Equal(t, Series{}, Aggregate(regionRows(), "", "sales", ReducerSum))
	assert.Equal(t, Series{}, Aggregate(regionRows(), "region", "", ReducerSum))
}

func TestAggregate_UnsupportedReducerPanics(t *testing.T) {
	assert.Panics(t, func() { Aggregate(regionRows(), "region", "sales", "median") })
	assert.Panics(t, func() { Aggregate(nil, "region", "sales", "") })
}

func TestAggregate_Conservation(t *testing.T) {
	rows := []dataset.Row{
		{Values: dataset.Values{"g": "a", "v": 1.5}},
		{Values: dataset.Values{"g": "b", "v": 2.0}},
		{Values: dataset.Values{"g": "a", "v": "3"}},
		{Values: dataset.Values{"g": "c", "v": 4.0}},
	}
	var expected float64
	for _, r := range rows {
		v, _ := dataset.ToFloat64(r.Get("v"))
		expected += v
	}
	assert.InDelta(t, expected, Aggregate(rows, "g", "v", ReducerSum).Total(), 1e-9)
}

func TestAggregate_GroupCompleteness(t *testing.T) {
	rows := []dataset.Row{
		{Values: dataset.Values{"g": "a", "v": 1.0}},
		{Values: dataset.Values{"g": 2.0, "v": 1.0}},
		{Values: dataset.Values{"g": nil, "v": 1.0}},
		{Values: dataset.Values{"g": "a", "v": 1.0}},
	}

	distinct := map[string]struct{}{}
	for _, r := range rows {
		distinct[dataset.ToString(r.Get("g"))] = struct{}{}
	}
	keys := map[string]struct{}{}
	for _, p := range Aggregate(rows, "g", "v", ReducerSum) {
		keys[p.Name] = struct{}{}
	}
	assert.Equal(t, distinct, keys)
}

func TestAggregate_DoesNotMutate(t *testing.T) {
	rows := regionRows()
	Aggregate(rows, "region", "sales", ReducerAvg)
	assert.Equal(t, regionRows(), rows)
}

func TestReducer_Valid(t *testing.T) {
	assert.True(t, ReducerSum.Valid())
	assert.True(t, ReducerMax.Valid())
	assert.False(t, Reducer("median").Valid())
}
