// Package filter evaluates user-composed, typed filters against dataset rows.
//
// A Filter is the loose shape a UI produces. Compile turns it into one member
// of the closed Predicate union, carrying only the fields its column type
// needs, and Evaluate dispatches over that union. Evaluation never fails:
// unknown operators, unknown column types and mismatched values all resolve
// to a permissive result so a malformed filter cannot hide data.
package filter

import (
	"encoding/json"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Operator names a comparison. Which operators apply depends on the column
// type of the filter.
type Operator string

// Supported operators.
const (
	OperatorEquals      Operator = "equals"
	OperatorContains    Operator = "contains"
	OperatorStartsWith  Operator = "startsWith"
	OperatorEndsWith    Operator = "endsWith"
	OperatorGreaterThan Operator = "greaterThan"
	OperatorLessThan    Operator = "lessThan"
	OperatorBetween     Operator = "between"
	OperatorDateRange   Operator = "dateRange"
	OperatorIn          Operator = "in"
)

// operatorsByType lists the operators each column type understands.
var operatorsByType = map[dataset.ColumnType][]Operator{
	dataset.ColumnTypeText:     {OperatorEquals, OperatorContains, OperatorStartsWith, OperatorEndsWith},
	dataset.ColumnTypeNumber:   {OperatorEquals, OperatorGreaterThan, OperatorLessThan, OperatorBetween},
	dataset.ColumnTypeDate:     {OperatorDateRange},
	dataset.ColumnTypeCategory: {OperatorIn},
}

// OperatorsFor returns the operators valid for a column type, or nil for an
// unknown type.
func OperatorsFor(t dataset.ColumnType) []Operator {
	return operatorsByType[t]
}

// Supports reports whether op is valid for column type t. Category filters
// are an implicit set membership test, so any operator is accepted for them.
func Supports(t dataset.ColumnType, op Operator) bool {
	if t == dataset.ColumnTypeCategory {
		return true
	}
	for _, candidate := range operatorsByType[t] {
		if candidate == op {
			return true
		}
	}
	return false
}

// Filter is a single user-defined filter as the UI stores it. Inactive
// filters are kept so the UI can hold a definition without applying it.
type Filter struct {
	ID         string             `json:"id"`
	ColumnName string             `json:"columnName"`
	ColumnType dataset.ColumnType `json:"columnType"`
	Operator   Operator           `json:"operator"`
	IsActive   bool               `json:"isActive"`
	Value      any                `json:"value,omitempty"`
	ValueTo    any                `json:"valueTo,omitempty"`
	Values     []string           `json:"values,omitempty"`
	From       string             `json:"from,omitempty"`
	To         string             `json:"to,omitempty"`
}

// Key returns a content key for the filter, ignoring its ID. Two filters
// with the same key select the same rows.
func (f Filter) Key() string {
	shadow := f
	shadow.ID = ""
	b, err := json.Marshal(shadow)
	if err != nil {
		// Only unmarshalable Value payloads end up here.
		return f.ID
	}
	return string(b)
}

// Active returns the active filters of fs in their original order.
func Active(fs []Filter) []Filter {
	active := make([]Filter, 0, len(fs))
	for _, f := range fs {
		if f.IsActive {
			active = append(active, f)
		}
	}
	return active
}
