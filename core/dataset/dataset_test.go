package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnType_Valid(t *testing.T) {
	tests := []struct {
		columnType ColumnType
		expected   bool
	}{
		{ColumnTypeText, true},
		{ColumnTypeNumber, true},
		{ColumnTypeDate, true},
		{ColumnTypeCategory, true},
		{"boolean", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.columnType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.columnType.Valid())
		})
	}
}

func TestDataset_Column(t *testing.T) {
	ds := Dataset{Columns: []Column{
		{Name: "region", Type: ColumnTypeText},
		{Name: "sales", Type: ColumnTypeNumber},
	}}

	col, ok := ds.Column("sales")
	assert.True(t, ok)
	assert.Equal(t, ColumnTypeNumber, col.Type)

	_, ok = ds.Column("missing")
	assert.False(t, ok)
	assert.True(t, ds.HasColumn("region"))
	assert.Equal(t, []string{"region", "sales"}, ds.ColumnNames())
}

func TestDataset_Validate(t *testing.T) {
	t.Run("valid dataset", func(t *testing.T) {
		ds := Dataset{Columns: []Column{{Name: "a", Type: ColumnTypeText}, {Name: "b", Type: ColumnTypeDate}}}
		assert.NoError(t, ds.Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		ds := Dataset{Columns: []Column{
			{Name: "a", Type: ColumnTypeText},
			{Name: "a", Type: ColumnTypeText},
			{Name: "", Type: ColumnTypeNumber},
			{Name: "c", Type: "blob"},
		}}
		err := ds.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateColumn))
		assert.True(t, errors.Is(err, ErrEmptyColumnName))
		assert.True(t, errors.Is(err, ErrInvalidColumnType))
	})
}

func TestRow_Get(t *testing.T) {
	row := Row{Values: Values{"a": "x", "b": nil}}
	assert.Equal(t, "x", row.Get("a"))
	assert.Nil(t, row.Get("b"))
	assert.Nil(t, row.Get("c"))
	assert.Nil(t, Row{}.Get("a"))
}

func TestNewRow(t *testing.T) {
	a := NewRow(Values{"a": 1})
	b := NewRow(Values{"a": 1})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDataset_Clone(t *testing.T) {
	ds := Dataset{
		Columns: []Column{{Name: "a", Type: ColumnTypeNumber}},
		Rows:    []Row{{ID: "r1", Values: Values{"a": 1.0}}},
	}
	clone := ds.Clone()
	assert.Equal(t, ds, clone)

	clone.Rows[0].Values["a"] = 2.0
	clone.Rows[0].ID = "changed"
	clone.Columns[0].Name = "b"
	assert.Equal(t, 1.0, ds.Rows[0].Values["a"])
	assert.Equal(t, "r1", ds.Rows[0].ID)
	assert.Equal(t, "a", ds.Columns[0].Name)

	assert.Equal(t, Dataset{}, Dataset{}.Clone())
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		success  bool
	}{
		{"int", 10, 10.0, true},
		{"int64", int64(50), 50.0, true},
		{"uint8", uint8(7), 7.0, true},
		{"float32", float32(60.5), 60.5, true},
		{"float64", 70.5, 70.5, true},
		{"string_valid_int", "100", 100.0, true},
		{"string_valid_float", "123.45", 123.45, true},
		{"string_padded", " 4 ", 4.0, true},
		{"string_empty", "", 0.0, false},
		{"string_invalid", "abc", 0.0, false},
		{"nil", nil, 0.0, false},
		{"bool", true, 0.0, false},
		{"unsupported_type", struct{}{}, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.success, ok)
			if tt.success {
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 3.0, ToNumber("3"))
	assert.True(t, math.IsNaN(ToNumber("three")))
	assert.True(t, math.IsNaN(ToNumber(nil)))
}

func TestToString(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "East", "East"},
		{"whole float", 10.0, "10"},
		{"fraction", 2.5, "2.5"},
		{"int", 42, "42"},
		{"bool", false, "false"},
		{"date", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2024-01-02"},
		{"timestamp", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToString(tt.input))
		})
	}
}

func TestToTime(t *testing.T) {
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected time.Time
		success  bool
	}{
		{"date only", "2024-01-02", jan2, true},
		{"rfc3339", "2024-01-02T00:00:00Z", jan2, true},
		{"date time", "2024-01-02 00:00:00", jan2, true},
		{"slashes", "2024/01/02", jan2, true},
		{"us format", "01/02/2024", jan2, true},
		{"month", "Jan-2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"time value", jan2, jan2, true},
		{"unix millis", float64(jan2.UnixMilli()), jan2, true},
		{"garbage", "not a date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToTime(tt.input)
			assert.Equal(t, tt.success, ok)
			if tt.success {
				assert.True(t, tt.expected.Equal(result), "expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestRowFromStruct(t *testing.T) {
	type sale struct {
		ID     string   `json:"id"`
		Region string   `json:"region"`
		Sales  float64  `json:"sales"`
		Note   string   `json:"note,omitempty"`
		Tags   []string `json:"tags"`
	}

	t.Run("struct", func(t *testing.T) {
		row, err := RowFromStruct(sale{ID: "s-1", Region: "East", Sales: 10, Tags: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, "s-1", row.ID)
		assert.Equal(t, "East", row.Get("region"))
		assert.Equal(t, 10.0, row.Get("sales"))
		assert.Equal(t, `["a"]`, row.Get("tags"))
		assert.NotContains(t, row.Values, "note")
		assert.NotContains(t, row.Values, "id")
	})

	t.Run("pointer", func(t *testing.T) {
		row, err := RowFromStruct(&sale{Region: "West"})
		require.NoError(t, err)
		assert.Equal(t, "West", row.Get("region"))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := RowFromStruct(nil)
		assert.Error(t, err)
		var nilSale *sale
		_, err = RowFromStruct(nilSale)
		assert.Error(t, err)
		_, err = RowFromStruct(42)
		assert.Error(t, err)
	})

	t.Run("slice", func(t *testing.T) {
		rows, err := RowsFromStructs([]sale{{Region: "East"}, {Region: "West"}})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "West", rows[1].Get("region"))
	})
}
