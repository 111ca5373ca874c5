package kpi

import (
	"math"
	"time"

	"github.com/asaidimu/go-sift/core/aggregate"
	"github.com/asaidimu/go-sift/core/dataset"
	"github.com/shopspring/decimal"
)

// Stat summarises one numeric column.
type Stat struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"` // rows with a numeric value
}

// DateRange is the span covered by the date column.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	Days     int       `json:"days"`
}

// Trend compares the earliest and latest calendar month of the date column.
type Trend struct {
	Measure        Role    `json:"measure"` // revenue, quantity, or "" for row counts
	EarliestPeriod string  `json:"earliestPeriod"`
	LatestPeriod   string  `json:"latestPeriod"`
	EarliestValue  float64 `json:"earliestValue"`
	LatestValue    float64 `json:"latestValue"`
	ChangeAmount   float64 `json:"changeAmount"`
	ChangePercent  float64 `json:"changePercent"`
	Direction      string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
}

// Summary is the KPI summary of a row set. Nil members mean the dataset has
// no column for that KPI or no usable value in it.
type Summary struct {
	RowCount           int        `json:"rowCount"`
	Revenue            *Stat      `json:"revenue,omitempty"`
	Quantity           *Stat      `json:"quantity,omitempty"`
	DistinctCustomers  int        `json:"distinctCustomers"`
	DistinctProducts   int        `json:"distinctProducts"`
	DistinctCategories int        `json:"distinctCategories"`
	TopCategory        string     `json:"topCategory,omitempty"`
	DateRange          *DateRange `json:"dateRange,omitempty"`
	Trend              *Trend     `json:"trend,omitempty"`
}

// Clone returns a copy of s that shares no pointers with it.
func (s Summary) Clone() Summary {
	out := s
	if s.Revenue != nil {
		v := *s.Revenue
		out.Revenue = &v
	}
	if s.Quantity != nil {
		v := *s.Quantity
		out.Quantity = &v
	}
	if s.DateRange != nil {
		v := *s.DateRange
		out.DateRange = &v
	}
	if s.Trend != nil {
		v := *s.Trend
		out.Trend = &v
	}
	return out
}

func monthOf(t time.Time) string {
	return aggregate.PeriodKey(t, aggregate.GranularityMonth)
}

type accumulator struct {
	total decimal.Decimal
	count int
}

func (a *accumulator) add(v any) (float64, bool) {
	f, ok := dataset.ToFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	a.total = a.total.Add(decimal.NewFromFloat(f))
	a.count++
	return f, true
}

func (a accumulator) stat() *Stat {
	if a.count == 0 {
		return nil
	}
	return &Stat{
		Total:   a.total.InexactFloat64(),
		Average: a.total.Div(decimal.NewFromInt(int64(a.count))).InexactFloat64(),
		Count:   a.count,
	}
}

type distinct map[string]struct{}

func (d distinct) add(v any) {
	if v == nil {
		return
	}
	if s := dataset.ToString(v); s != "" {
		d[s] = struct{}{}
	}
}

// CalculateKpis computes the summary of rows for the columns in set in a
// single pass. It never fails: missing columns and unusable cells simply
// leave the corresponding KPI at zero or nil.
func CalculateKpis(rows []dataset.Row, set ColumnSet) Summary {
	summary := Summary{RowCount: len(rows)}

	var revenue, quantity accumulator
	customers, products, categories := distinct{}, distinct{}, distinct{}

	categoryWeight := map[string]float64{}
	var categoryOrder []string

	var earliest, latest time.Time
	periods := map[string]float64{}

	for _, row := range rows {
		rv, hasRevenue := 0.0, false
		if set.RevenueColumn != "" {
			rv, hasRevenue = revenue.add(row.Get(set.RevenueColumn))
		}
		qv, hasQuantity := 0.0, false
		if set.QuantityColumn != "" {
			qv, hasQuantity = quantity.add(row.Get(set.QuantityColumn))
		}
		if set.CustomerColumn != "" {
			customers.add(row.Get(set.CustomerColumn))
		}
		if set.ProductColumn != "" {
			products.add(row.Get(set.ProductColumn))
		}
		if set.CategoryColumn != "" {
			cell := row.Get(set.CategoryColumn)
			categories.add(cell)
			if key := dataset.ToString(cell); key != "" {
				if _, seen := categoryWeight[key]; !seen {
					categoryOrder = append(categoryOrder, key)
				}
				categoryWeight[key] += weight(set, rv, hasRevenue)
			}
		}
		if set.DateColumn != "" {
			t, ok := dataset.ToTime(row.Get(set.DateColumn))
			if !ok {
				continue
			}
			t = t.UTC()
			if earliest.IsZero() || t.Before(earliest) {
				earliest = t
			}
			if latest.IsZero() || t.After(latest) {
				latest = t
			}
			periods[monthOf(t)] += trendValue(set, rv, hasRevenue, qv, hasQuantity)
		}
	}

	summary.Revenue = revenue.stat()
	summary.Quantity = quantity.stat()
	summary.DistinctCustomers = len(customers)
	summary.DistinctProducts = len(products)
	summary.DistinctCategories = len(categories)
	summary.TopCategory = top(categoryOrder, categoryWeight)

	if !earliest.IsZero() {
		summary.DateRange = &DateRange{
			Earliest: earliest,
			Latest:   latest,
			Days:     int(latest.Sub(earliest).Hours() / 24),
		}
		summary.Trend = trend(set, earliest, latest, periods)
	}
	return summary
}

// weight ranks categories by revenue when there is a revenue column and by
// row count otherwise.
func weight(set ColumnSet, revenue float64, hasRevenue bool) float64 {
	if set.RevenueColumn != "" {
		if hasRevenue {
			return revenue
		}
		return 0
	}
	return 1
}

func trendValue(set ColumnSet, revenue float64, hasRevenue bool, quantity float64, hasQuantity bool) float64 {
	switch {
	case set.RevenueColumn != "":
		if hasRevenue {
			return revenue
		}
		return 0
	case set.QuantityColumn != "":
		if hasQuantity {
			return quantity
		}
		return 0
	default:
		return 1
	}
}

func trendMeasure(set ColumnSet) Role {
	switch {
	case set.RevenueColumn != "":
		return RoleRevenue
	case set.QuantityColumn != "":
		return RoleQuantity
	}
	return ""
}

func top(order []string, weights map[string]float64) string {
	best := ""
	bestWeight := math.Inf(-1)
	for _, key := range order {
		if w := weights[key]; w > bestWeight {
			best, bestWeight = key, w
		}
	}
	return best
}

func trend(set ColumnSet, earliest, latest time.Time, periods map[string]float64) *Trend {
	t := &Trend{
		Measure:        trendMeasure(set),
		EarliestPeriod: monthOf(earliest),
		LatestPeriod:   monthOf(latest),
	}
	t.EarliestValue = periods[t.EarliestPeriod]
	t.LatestValue = periods[t.LatestPeriod]

	if t.EarliestPeriod == t.LatestPeriod {
		t.Direction = "insufficient data"
		return t
	}

	t.ChangeAmount = t.LatestValue - t.EarliestValue
	if t.EarliestValue != 0 {
		t.ChangePercent = t.ChangeAmount / math.Abs(t.EarliestValue) * 100
	}
	switch {
	case t.ChangeAmount > 0:
		t.Direction = "increased"
	case t.ChangeAmount < 0:
		t.Direction = "decreased"
	default:
		t.Direction = "unchanged"
	}
	return t
}
