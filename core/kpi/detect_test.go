package kpi

import (
	"testing"

	"github.com/asaidimu/go-sift/core/dataset"
	"github.com/stretchr/testify/assert"
)

func TestDetectKpiColumns(t *testing.T) {
	tests := []struct {
		name     string
		columns  []dataset.Column
		expected ColumnSet
	}{
		{
			name: "typical sales sheet",
			columns: []dataset.Column{
				{Name: "Order Date", Type: dataset.ColumnTypeDate},
				{Name: "Customer Name", Type: dataset.ColumnTypeText},
				{Name: "Product", Type: dataset.ColumnTypeText},
				{Name: "Category", Type: dataset.ColumnTypeCategory},
				{Name: "Qty", Type: dataset.ColumnTypeNumber},
				{Name: "Total Amount", Type: dataset.ColumnTypeNumber},
			},
			expected: ColumnSet{
				RevenueColumn:  "Total Amount",
				QuantityColumn: "Qty",
				DateColumn:     "Order Date",
				CustomerColumn: "Customer Name",
				ProductColumn:  "Product",
				CategoryColumn: "Category",
			},
		},
		{
			name: "first matching column wins",
			columns: []dataset.Column{
				{Name: "unit_price", Type: dataset.ColumnTypeNumber},
				{Name: "revenue", Type: dataset.ColumnTypeNumber},
				{Name: "created", Type: dataset.ColumnTypeDate},
				{Name: "shipped", Type: dataset.ColumnTypeDate},
			},
			expected: ColumnSet{RevenueColumn: "unit_price", DateColumn: "created"},
		},
		{
			name: "match is case-insensitive substring",
			columns: []dataset.Column{
				{Name: "GrossSALES", Type: dataset.ColumnTypeNumber},
				{Name: "ClientID", Type: dataset.ColumnTypeText},
			},
			expected: ColumnSet{RevenueColumn: "GrossSALES", CustomerColumn: "ClientID"},
		},
		{
			name: "column holds one role",
			columns: []dataset.Column{
				{Name: "Total Qty", Type: dataset.ColumnTypeNumber},
				{Name: "Product Type", Type: dataset.ColumnTypeCategory},
			},
			expected: ColumnSet{QuantityColumn: "Total Qty", ProductColumn: "Product Type"},
		},
		{
			name: "second column takes the role the first could not",
			columns: []dataset.Column{
				{Name: "Product Type", Type: dataset.ColumnTypeCategory},
				{Name: "Item Type", Type: dataset.ColumnTypeCategory},
			},
			expected: ColumnSet{ProductColumn: "Product Type", CategoryColumn: "Item Type"},
		},
		{
			name: "types do not gate roles",
			columns: []dataset.Column{
				{Name: "Customer ID", Type: dataset.ColumnTypeNumber},
				{Name: "Sales", Type: dataset.ColumnTypeText},
			},
			expected: ColumnSet{RevenueColumn: "Sales", CustomerColumn: "Customer ID"},
		},
		{
			name: "hint order decides within a column",
			columns: []dataset.Column{
				{Name: "Payment Type", Type: dataset.ColumnTypeText},
				{Name: "Amount", Type: dataset.ColumnTypeText},
				{Name: "Customer", Type: dataset.ColumnTypeNumber},
			},
			expected: ColumnSet{RevenueColumn: "Payment Type", CustomerColumn: "Customer"},
		},
		{
			name:     "nothing fits",
			columns:  []dataset.Column{{Name: "notes", Type: dataset.ColumnTypeText}},
			expected: ColumnSet{},
		},
		{
			name:     "no columns",
			columns:  nil,
			expected: ColumnSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectKpiColumns(tt.columns))
		})
	}
}

func TestColumnSet_Get(t *testing.T) {
	set := ColumnSet{RevenueColumn: "r", DateColumn: "d"}
	assert.Equal(t, "r", set.Get(RoleRevenue))
	assert.Equal(t, "d", set.Get(RoleDate))
	assert.True(t, set.Has(RoleRevenue))
	assert.False(t, set.Has(RoleQuantity))
	assert.Equal(t, "", set.Get("unknown"))
	assert.False(t, set.IsEmpty())
	assert.True(t, ColumnSet{}.IsEmpty())
}

func TestClassifierFunc(t *testing.T) {
	var c Classifier = ClassifierFunc(func(columns []dataset.Column) ColumnSet {
		return ColumnSet{RevenueColumn: columns[len(columns)-1].Name}
	})
	got := c.Classify([]dataset.Column{{Name: "a"}, {Name: "b"}})
	assert.Equal(t, ColumnSet{RevenueColumn: "b"}, got)
}

func TestHintClassifier_CustomHints(t *testing.T) {
	c := &HintClassifier{Hints: []RoleHints{
		{Role: RoleRevenue, Hints: []string{"umsatz"}, Types: []dataset.ColumnType{dataset.ColumnTypeNumber}},
	}}
	got := c.Classify([]dataset.Column{
		{Name: "Amount", Type: dataset.ColumnTypeNumber},
		{Name: "Umsatz", Type: dataset.ColumnTypeNumber},
	})
	assert.Equal(t, ColumnSet{RevenueColumn: "Umsatz"}, got)
}

func TestTypedHintClassifier(t *testing.T) {
	columns := []dataset.Column{
		{Name: "Customer ID", Type: dataset.ColumnTypeNumber},
		{Name: "Payment Type", Type: dataset.ColumnTypeText},
		{Name: "Amount", Type: dataset.ColumnTypeText},
		{Name: "Sales", Type: dataset.ColumnTypeNumber},
		{Name: "Client", Type: dataset.ColumnTypeCategory},
	}
	got := NewTypedHintClassifier().Classify(columns)
	assert.Equal(t, ColumnSet{
		RevenueColumn:  "Sales",
		CustomerColumn: "Client",
		CategoryColumn: "Payment Type",
	}, got)

	// The default classifier stays unrestricted.
	for _, h := range DefaultHints() {
		assert.Empty(t, h.Types, h.Role)
	}
}
