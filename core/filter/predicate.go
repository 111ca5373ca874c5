package filter

import (
	"strings"
	"time"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Predicate is the compiled form of a Filter. The set of implementations is
// closed; use a type switch to inspect one.
type Predicate interface {
	// ColumnName returns the column the predicate reads.
	ColumnName() string

	predicateMarker()
}

// TextPredicate compares the lower-cased string form of a cell.
type TextPredicate struct {
	Column   string
	Operator Operator
	Value    string // already lower-cased
}

// NumberPredicate compares the numeric coercion of a cell. Bounds that failed
// to parse are NaN and every comparison against them is false.
type NumberPredicate struct {
	Column   string
	Operator Operator
	Value    float64
	ValueTo  float64
}

// Bound is one optional end of a date range.
type Bound struct {
	Set   bool // a bound was supplied
	Valid bool // the supplied bound parsed
	Time  time.Time
}

// DatePredicate keeps cells whose instant falls inside [From, To]. An unset
// bound leaves that side open.
type DatePredicate struct {
	Column string
	From   Bound
	To     Bound
}

// CategoryPredicate keeps cells whose string form is one of Values. An empty
// set keeps everything.
type CategoryPredicate struct {
	Column string
	Values map[string]struct{}
}

// PassPredicate matches every row. It stands in for filters that cannot be
// interpreted.
type PassPredicate struct {
	Column string
	Reason string
}

// PredicateFunc is a user-supplied test for a column type and operator pair
// the built-in table does not cover. It receives the cell and the filter it
// was compiled from and must not mutate either.
type PredicateFunc func(value any, f Filter) bool

// CustomPredicate runs a registered PredicateFunc.
type CustomPredicate struct {
	Column string
	Filter Filter
	Fn     PredicateFunc
}

func (p TextPredicate) ColumnName() string     { return p.Column }
func (p NumberPredicate) ColumnName() string   { return p.Column }
func (p DatePredicate) ColumnName() string     { return p.Column }
func (p CategoryPredicate) ColumnName() string { return p.Column }
func (p PassPredicate) ColumnName() string     { return p.Column }
func (p CustomPredicate) ColumnName() string   { return p.Column }

func (TextPredicate) predicateMarker()     {}
func (NumberPredicate) predicateMarker()   {}
func (DatePredicate) predicateMarker()     {}
func (CategoryPredicate) predicateMarker() {}
func (PassPredicate) predicateMarker()     {}
func (CustomPredicate) predicateMarker()   {}

// Compile turns a Filter into its typed predicate. It never fails; filters
// it cannot interpret become a PassPredicate. IsActive is not consulted.
func Compile(f Filter) Predicate {
	switch f.ColumnType {
	case dataset.ColumnTypeText:
		return compileText(f)
	case dataset.ColumnTypeNumber:
		return compileNumber(f)
	case dataset.ColumnTypeDate:
		return compileDate(f)
	case dataset.ColumnTypeCategory:
		return compileCategory(f)
	default:
		return PassPredicate{Column: f.ColumnName, Reason: "unsupported column type '" + string(f.ColumnType) + "'"}
	}
}

func compileText(f Filter) Predicate {
	switch f.Operator {
	case OperatorEquals, OperatorContains, OperatorStartsWith, OperatorEndsWith:
		return TextPredicate{
			Column:   f.ColumnName,
			Operator: f.Operator,
			Value:    strings.ToLower(dataset.ToString(f.Value)),
		}
	}
	return unsupportedOperator(f)
}

func compileNumber(f Filter) Predicate {
	switch f.Operator {
	case OperatorEquals, OperatorGreaterThan, OperatorLessThan, OperatorBetween:
		p := NumberPredicate{
			Column:   f.ColumnName,
			Operator: f.Operator,
			Value:    dataset.ToNumber(f.Value),
		}
		p.ValueTo = p.Value
		if f.ValueTo != nil && dataset.ToString(f.ValueTo) != "" {
			p.ValueTo = dataset.ToNumber(f.ValueTo)
		}
		return p
	}
	return unsupportedOperator(f)
}

func compileDate(f Filter) Predicate {
	if f.Operator != OperatorDateRange {
		return unsupportedOperator(f)
	}
	return DatePredicate{
		Column: f.ColumnName,
		From:   parseBound(f.From),
		To:     parseBound(f.To),
	}
}

func parseBound(s string) Bound {
	if strings.TrimSpace(s) == "" {
		return Bound{}
	}
	t, ok := dataset.ParseTime(s)
	return Bound{Set: true, Valid: ok, Time: t}
}

func compileCategory(f Filter) Predicate {
	set := make(map[string]struct{}, len(f.Values))
	for _, v := range f.Values {
		set[v] = struct{}{}
	}
	return CategoryPredicate{Column: f.ColumnName, Values: set}
}

func unsupportedOperator(f Filter) Predicate {
	return PassPredicate{
		Column: f.ColumnName,
		Reason: "operator '" + string(f.Operator) + "' is not supported for " + string(f.ColumnType) + " columns",
	}
}
