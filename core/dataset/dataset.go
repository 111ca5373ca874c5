// Package dataset defines the column type model shared by the filter,
// aggregation and KPI packages: typed columns, rows of loosely typed scalar
// cells and the dataset that groups them.
package dataset

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// ColumnType is the semantic type of a column. It is assigned once, outside
// this package, and drives every downstream decision.
type ColumnType string

const (
	ColumnTypeText     ColumnType = "text"     // Free text
	ColumnTypeNumber   ColumnType = "number"   // Numeric data
	ColumnTypeDate     ColumnType = "date"     // Date or timestamp
	ColumnTypeCategory ColumnType = "category" // One out of a small set of labels
)

// Valid reports whether t is one of the supported column types.
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeText, ColumnTypeNumber, ColumnTypeDate, ColumnTypeCategory:
		return true
	}
	return false
}

// Column describes a single named, typed column of a dataset.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Values holds the cells of one row keyed by column name. A cell is a string,
// a number, a time.Time or nil. A missing key and a nil cell both mean
// "missing".
type Values map[string]any

// Row is a single record. ID is an opaque identifier supplied by the caller
// (or generated by NewRow); it is carried through filtering unchanged so
// results can be correlated with the caller's store.
type Row struct {
	ID     string `json:"id,omitempty"`
	Values Values `json:"values"`
}

// NewRow returns a row with a freshly generated identifier.
func NewRow(values Values) Row {
	return Row{ID: uuid.New().String(), Values: values}
}

// Get returns the cell for column, or nil when the row has no such cell.
func (r Row) Get(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}

// Clone returns a copy of r whose Values map can be edited independently.
// Cell values themselves are not copied.
func (r Row) Clone() Row {
	return Row{ID: r.ID, Values: maps.Clone(r.Values)}
}

// Dataset is an ordered list of columns plus an ordered list of rows. It is
// owned by the caller; nothing in this module mutates it.
type Dataset struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Clone returns a copy of d with its own column slice, row slice and row
// value maps.
func (d Dataset) Clone() Dataset {
	out := Dataset{Columns: slices.Clone(d.Columns)}
	if d.Rows != nil {
		out.Rows = make([]Row, len(d.Rows))
		for i, r := range d.Rows {
			out.Rows[i] = r.Clone()
		}
	}
	return out
}

var (
	ErrColumnNotFound    = errors.New("column not found")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrEmptyColumnName   = errors.New("empty column name")
	ErrInvalidColumnType = errors.New("invalid column type")
)

// Column looks up a column definition by name.
func (d Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the dataset declares a column called name.
func (d Dataset) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// ColumnNames returns the column names in declaration order.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks that every column has a non-empty, unique name and a
// supported type. All problems found are joined into the returned error.
func (d Dataset) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(d.Columns))
	for i, c := range d.Columns {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName))
			continue
		}
		if _, dup := seen[c.Name]; dup {
			errs = append(errs, fmt.Errorf("column '%s': %w", c.Name, ErrDuplicateColumn))
		}
		seen[c.Name] = struct{}{}
		if !c.Type.Valid() {
			errs = append(errs, fmt.Errorf("column '%s' has type '%s': %w", c.Name, c.Type, ErrInvalidColumnType))
		}
	}
	return errors.Join(errs...)
}
