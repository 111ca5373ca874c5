// Package aggregate groups rows on a column and reduces a value column into
// chart-ready series. The primitive keeps groups in first-seen order and
// never sorts or limits; Series helpers and the chart builders do that.
package aggregate

import (
	"fmt"
	"math"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Reducer specifies how member values of a group are combined.
type Reducer string

// Supported reducers.
const (
	ReducerSum   Reducer = "sum"
	ReducerCount Reducer = "count"
	ReducerAvg   Reducer = "avg"
	ReducerMin   Reducer = "min"
	ReducerMax   Reducer = "max"
)

// Valid reports whether r is a supported reducer.
func (r Reducer) Valid() bool {
	switch r {
	case ReducerSum, ReducerCount, ReducerAvg, ReducerMin, ReducerMax:
		return true
	}
	return false
}

// Point is one entry of a series.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Series is an ordered list of points.
type Series []Point

type group struct {
	sum     float64
	members int
	min     float64
	max     float64
	seen    bool // at least one parseable value
}

// Aggregate groups rows by the string form of groupBy (nil cells form the ""
// group) and reduces valueColumn with reducer. Points come out in the order
// their group key first appears. Unparseable values count as 0 for sum and
// avg and are skipped by min and max.
//
// An unsupported reducer is a caller error and panics. No rows or an empty
// column name yields an empty series.
func Aggregate(rows []dataset.Row, groupBy, valueColumn string, reducer Reducer) Series {
	if !reducer.Valid() {
		panic(fmt.Sprintf("aggregate: unsupported reducer %q", reducer))
	}
	if len(rows) == 0 || groupBy == "" || valueColumn == "" {
		return Series{}
	}
	return aggregateBy(rows, func(row dataset.Row) string {
		return dataset.ToString(row.Get(groupBy))
	}, valueColumn, reducer)
}

// aggregateBy is Aggregate with the group key derived by keyOf.
func aggregateBy(rows []dataset.Row, keyOf func(dataset.Row) string, valueColumn string, reducer Reducer) Series {
	index := make(map[string]int)
	order := make([]string, 0)
	groups := make([]group, 0)

	for _, row := range rows {
		key := keyOf(row)
		i, exists := index[key]
		if !exists {
			i = len(groups)
			index[key] = i
			order = append(order, key)
			groups = append(groups, group{})
		}
		g := &groups[i]
		g.members++

		v, ok := dataset.ToFloat64(row.Get(valueColumn))
		if !ok || math.IsNaN(v) {
			continue
		}
		g.sum += v
		if !g.seen || v < g.min {
			g.min = v
		}
		if !g.seen || v > g.max {
			g.max = v
		}
		g.seen = true
	}

	series := make(Series, 0, len(order))
	for i, key := range order {
		series = append(series, Point{Name: key, Value: groups[i].reduce(reducer)})
	}
	return series
}

func (g group) reduce(reducer Reducer) float64 {
	switch reducer {
	case ReducerCount:
		return float64(g.members)
	case ReducerAvg:
		if g.members == 0 {
			return 0
		}
		return g.sum / float64(g.members)
	case ReducerMin:
		if !g.seen {
			return 0
		}
		return g.min
	case ReducerMax:
		if !g.seen {
			return 0
		}
		return g.max
	default:
		return g.sum
	}
}

// Sum is Aggregate with ReducerSum.
func Sum(rows []dataset.Row, groupBy, valueColumn string) Series {
	return Aggregate(rows, groupBy, valueColumn, ReducerSum)
}
