package filter

import (
	"fmt"
	"math"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Issue describes a problem with a filter definition.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Severity string `json:"severity,omitempty"` // "error" or "warning"
}

// Issue codes reported by Check.
const (
	IssueUnknownColumn       = "UNKNOWN_COLUMN"
	IssueTypeMismatch        = "TYPE_MISMATCH"
	IssueUnsupportedType     = "UNSUPPORTED_TYPE"
	IssueUnsupportedOperator = "UNSUPPORTED_OPERATOR"
	IssueInvalidNumber       = "INVALID_NUMBER"
	IssueInvalidDate         = "INVALID_DATE"
	IssueInvertedRange       = "INVERTED_RANGE"
)

// Check reports the problems a UI may want to surface for f against the
// dataset columns. It is advisory only; evaluation never consults it and a
// filter with issues still evaluates permissively.
func Check(f Filter, columns []dataset.Column) []Issue {
	var issues []Issue

	var col *dataset.Column
	for i := range columns {
		if columns[i].Name == f.ColumnName {
			col = &columns[i]
			break
		}
	}
	if col == nil {
		issues = append(issues, Issue{
			Code:     IssueUnknownColumn,
			Message:  fmt.Sprintf("column '%s' does not exist; the filter matches every row", f.ColumnName),
			Path:     "columnName",
			Severity: "warning",
		})
	} else if col.Type != f.ColumnType {
		issues = append(issues, Issue{
			Code:     IssueTypeMismatch,
			Message:  fmt.Sprintf("filter type '%s' differs from column type '%s'", f.ColumnType, col.Type),
			Path:     "columnType",
			Severity: "warning",
		})
	}

	if !f.ColumnType.Valid() {
		return append(issues, Issue{
			Code:     IssueUnsupportedType,
			Message:  fmt.Sprintf("column type '%s' is not supported; the filter matches every row", f.ColumnType),
			Path:     "columnType",
			Severity: "error",
		})
	}
	if !Supports(f.ColumnType, f.Operator) {
		return append(issues, Issue{
			Code:     IssueUnsupportedOperator,
			Message:  fmt.Sprintf("operator '%s' is not supported for %s columns; the filter matches every row", f.Operator, f.ColumnType),
			Path:     "operator",
			Severity: "error",
		})
	}

	switch p := Compile(f).(type) {
	case NumberPredicate:
		if math.IsNaN(p.Value) {
			issues = append(issues, Issue{Code: IssueInvalidNumber, Message: "value is not a number; no row matches", Path: "value", Severity: "error"})
		}
		if p.Operator == OperatorBetween {
			if math.IsNaN(p.ValueTo) {
				issues = append(issues, Issue{Code: IssueInvalidNumber, Message: "valueTo is not a number; no row matches", Path: "valueTo", Severity: "error"})
			} else if p.ValueTo < p.Value {
				issues = append(issues, Issue{Code: IssueInvertedRange, Message: "valueTo is below value; no row matches", Path: "valueTo", Severity: "warning"})
			}
		}
	case DatePredicate:
		if p.From.Set && !p.From.Valid {
			issues = append(issues, Issue{Code: IssueInvalidDate, Message: "from is not a date; no row matches", Path: "from", Severity: "error"})
		}
		if p.To.Set && !p.To.Valid {
			issues = append(issues, Issue{Code: IssueInvalidDate, Message: "to is not a date; no row matches", Path: "to", Severity: "error"})
		}
		if p.From.Valid && p.To.Valid && p.To.Time.Before(p.From.Time) {
			issues = append(issues, Issue{Code: IssueInvertedRange, Message: "to is before from; no row matches", Path: "to", Severity: "warning"})
		}
	}
	return issues
}
