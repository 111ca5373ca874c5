// Package kpi picks the columns worth summarising without user configuration
// and computes summary KPIs over a (filtered) row set.
//
// Detection is a replaceable strategy: anything implementing Classifier can
// stand in for the default name-hint heuristic.
package kpi

import (
	"slices"
	"strings"

	"github.com/asaidimu/go-sift/core/dataset"
)

// Role is the part a column plays in the KPI summary.
type Role string

const (
	RoleRevenue  Role = "revenue"
	RoleQuantity Role = "quantity"
	RoleDate     Role = "date"
	RoleCustomer Role = "customer"
	RoleProduct  Role = "product"
	RoleCategory Role = "category"
)

// ColumnSet names the column chosen for each role. An empty name means the
// dataset has no column fitting that role.
type ColumnSet struct {
	RevenueColumn  string `json:"revenueColumn,omitempty"`
	QuantityColumn string `json:"quantityColumn,omitempty"`
	DateColumn     string `json:"dateColumn,omitempty"`
	CustomerColumn string `json:"customerColumn,omitempty"`
	ProductColumn  string `json:"productColumn,omitempty"`
	CategoryColumn string `json:"categoryColumn,omitempty"`
}

// Get returns the column assigned to role.
func (s ColumnSet) Get(role Role) string {
	switch role {
	case RoleRevenue:
		return s.RevenueColumn
	case RoleQuantity:
		return s.QuantityColumn
	case RoleDate:
		return s.DateColumn
	case RoleCustomer:
		return s.CustomerColumn
	case RoleProduct:
		return s.ProductColumn
	case RoleCategory:
		return s.CategoryColumn
	}
	return ""
}

// Has reports whether a column was assigned to role.
func (s ColumnSet) Has(role Role) bool {
	return s.Get(role) != ""
}

// IsEmpty reports whether no role was assigned.
func (s ColumnSet) IsEmpty() bool {
	return s == ColumnSet{}
}

func (s *ColumnSet) assign(role Role, column string) {
	switch role {
	case RoleRevenue:
		s.RevenueColumn = column
	case RoleQuantity:
		s.QuantityColumn = column
	case RoleDate:
		s.DateColumn = column
	case RoleCustomer:
		s.CustomerColumn = column
	case RoleProduct:
		s.ProductColumn = column
	case RoleCategory:
		s.CategoryColumn = column
	}
}

// Classifier assigns KPI roles to the columns of a dataset.
type Classifier interface {
	Classify(columns []dataset.Column) ColumnSet
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(columns []dataset.Column) ColumnSet

// Classify calls f(columns).
func (f ClassifierFunc) Classify(columns []dataset.Column) ColumnSet {
	return f(columns)
}

// RoleHints lists the name fragments that mark a column for a role. Types,
// when set, further restricts the role to columns of those types.
type RoleHints struct {
	Role  Role
	Hints []string
	Types []dataset.ColumnType
}

// matches reports whether col fits the hint set. name must be lower-cased.
func (h RoleHints) matches(col dataset.Column, name string) bool {
	if len(h.Types) > 0 && !slices.Contains(h.Types, col.Type) {
		return false
	}
	for _, hint := range h.Hints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// DefaultHints returns the hint sets used by DetectKpiColumns. They match on
// names only. Quantity is listed ahead of revenue so a column named like
// "Total Qty" counts units.
func DefaultHints() []RoleHints {
	return []RoleHints{
		{Role: RoleQuantity, Hints: []string{"quantity", "qty"}},
		{Role: RoleRevenue, Hints: []string{"price", "amount", "total", "revenue", "sales", "cost", "value", "payment", "fee"}},
		{Role: RoleCustomer, Hints: []string{"customer", "client"}},
		{Role: RoleProduct, Hints: []string{"product", "item"}},
		{Role: RoleCategory, Hints: []string{"category", "type"}},
	}
}

var (
	numeric = []dataset.ColumnType{dataset.ColumnTypeNumber}
	labels  = []dataset.ColumnType{dataset.ColumnTypeText, dataset.ColumnTypeCategory}
)

// TypedHints returns DefaultHints with revenue and quantity restricted to
// number columns and the grouping roles to text and category columns.
func TypedHints() []RoleHints {
	hints := DefaultHints()
	for i := range hints {
		switch hints[i].Role {
		case RoleQuantity, RoleRevenue:
			hints[i].Types = numeric
		default:
			hints[i].Types = labels
		}
	}
	return hints
}

// HintClassifier is the default, name-based Classifier. The first date-typed
// column becomes the date column. Every other column, in declaration order,
// takes the first still-unassigned role whose hints appear in its name
// (case-insensitive); a column holds at most one role.
type HintClassifier struct {
	Hints []RoleHints
}

// NewHintClassifier returns a HintClassifier using DefaultHints.
func NewHintClassifier() *HintClassifier {
	return &HintClassifier{Hints: DefaultHints()}
}

// NewTypedHintClassifier returns a HintClassifier using TypedHints.
func NewTypedHintClassifier() *HintClassifier {
	return &HintClassifier{Hints: TypedHints()}
}

// Classify implements Classifier.
func (c *HintClassifier) Classify(columns []dataset.Column) ColumnSet {
	var set ColumnSet
	for _, col := range columns {
		if col.Type == dataset.ColumnTypeDate {
			if set.DateColumn == "" {
				set.DateColumn = col.Name
			}
			continue
		}
		name := strings.ToLower(col.Name)
		for _, h := range c.Hints {
			if set.Has(h.Role) || !h.matches(col, name) {
				continue
			}
			set.assign(h.Role, col.Name)
			break
		}
	}
	return set
}

var defaultClassifier = NewHintClassifier()

// DetectKpiColumns assigns KPI roles with the default HintClassifier.
func DetectKpiColumns(columns []dataset.Column) ColumnSet {
	return defaultClassifier.Classify(columns)
}
