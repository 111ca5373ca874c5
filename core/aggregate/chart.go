package aggregate

import (
	"github.com/asaidimu/go-sift/core/dataset"
)

// Granularity selects the period a time series buckets dates into.
type Granularity string

const (
	GranularityNone  Granularity = "none"  // group on the raw cell
	GranularityDay   Granularity = "day"   // 2006-01-02
	GranularityMonth Granularity = "month" // 2006-01
	GranularityYear  Granularity = "year"  // 2006
)

var periodLayouts = map[Granularity]string{
	GranularityDay:   "2006-01-02",
	GranularityMonth: "2006-01",
	GranularityYear:  "2006",
}

// PeriodKey returns the bucket name for a date cell at granularity g. Cells
// that are not dates, and GranularityNone, fall back to the cell's string
// form.
func PeriodKey(v any, g Granularity) string {
	layout, ok := periodLayouts[g]
	if !ok {
		return dataset.ToString(v)
	}
	t, ok := dataset.ToTime(v)
	if !ok {
		return dataset.ToString(v)
	}
	return t.UTC().Format(layout)
}

// BarChart sums valueColumn per groupBy value and returns the largest limit
// groups, largest first. limit <= 0 keeps every group.
func BarChart(rows []dataset.Row, groupBy, valueColumn string, limit int) Series {
	return Sum(rows, groupBy, valueColumn).SortByValue(true).Top(limit)
}

// TimeSeries sums valueColumn per period of dateColumn and orders the result
// chronologically. Undated rows collect under their raw string form and sort
// after the dated periods.
func TimeSeries(rows []dataset.Row, dateColumn, valueColumn string, g Granularity) Series {
	if len(rows) == 0 || dateColumn == "" || valueColumn == "" {
		return Series{}
	}
	return aggregateBy(rows, func(row dataset.Row) string {
		return PeriodKey(row.Get(dateColumn), g)
	}, valueColumn, ReducerSum).SortChronological()
}
