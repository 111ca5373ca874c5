package filter

import (
	"strings"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Evaluate reports whether row satisfies p.
func Evaluate(p Predicate, row dataset.Row) bool {
	switch p := p.(type) {
	case TextPredicate:
		cell := strings.ToLower(dataset.ToString(row.Get(p.Column)))
		switch p.Operator {
		case OperatorEquals:
			return cell == p.Value
		case OperatorContains:
			return strings.Contains(cell, p.Value)
		case OperatorStartsWith:
			return strings.HasPrefix(cell, p.Value)
		case OperatorEndsWith:
			return strings.HasSuffix(cell, p.Value)
		}
		return true

	case NumberPredicate:
		cell := dataset.ToNumber(row.Get(p.Column))
		switch p.Operator {
		case OperatorEquals:
			return cell == p.Value
		case OperatorGreaterThan:
			return cell > p.Value
		case OperatorLessThan:
			return cell < p.Value
		case OperatorBetween:
			return cell >= p.Value && cell <= p.ValueTo
		}
		return true

	case DatePredicate:
		if !p.From.Set && !p.To.Set {
			return true
		}
		cell, ok := dataset.ToTime(row.Get(p.Column))
		if !ok {
			return false
		}
		if p.From.Set && (!p.From.Valid || cell.Before(p.From.Time)) {
			return false
		}
		if p.To.Set && (!p.To.Valid || cell.After(p.To.Time)) {
			return false
		}
		return true

	case CategoryPredicate:
		if len(p.Values) == 0 {
			return true
		}
		cell := row.Get(p.Column)
		if cell == nil {
			return false
		}
		_, ok := p.Values[dataset.ToString(cell)]
		return ok

	case CustomPredicate:
		if p.Fn == nil {
			return true
		}
		return p.Fn(row.Get(p.Column), p.Filter)

	default:
		return true
	}
}

// EvaluatePredicate compiles f and evaluates it against row. IsActive is not
// consulted; callers deciding which filters apply use FilterRows.
func EvaluatePredicate(f Filter, row dataset.Row) bool {
	return Evaluate(Compile(f), row)
}

// FilterRows returns the rows that satisfy every active filter, in their
// original order. Rows are never copied or mutated, so identifiers carry
// through. With no active filters the input slice itself is returned.
//
// FilterRows has no column list, so a filter on a column the rows lack is
// evaluated against nil cells like any other missing value; a text equals
// "x" filter then hides every row. Use Engine.FilterDataset to treat filters
// on undeclared columns as always-true.
func FilterRows(rows []dataset.Row, filters []Filter) []dataset.Row {
	predicates := make([]Predicate, 0, len(filters))
	for _, f := range filters {
		if f.IsActive {
			predicates = append(predicates, Compile(f))
		}
	}
	return apply(rows, predicates)
}

func apply(rows []dataset.Row, predicates []Predicate) []dataset.Row {
	if len(predicates) == 0 {
		return rows
	}
	matched := make([]dataset.Row, 0, len(rows))
	for _, row := range rows {
		if matchAll(predicates, row) {
			matched = append(matched, row)
		}
	}
	return matched
}

func matchAll(predicates []Predicate, row dataset.Row) bool {
	for _, p := range predicates {
		if !Evaluate(p, row) {
			return false
		}
	}
	return true
}
