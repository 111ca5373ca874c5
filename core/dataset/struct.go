package dataset

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// RowFromStruct converts a tagged Go struct (or pointer to one) into a Row.
//
// The struct is marshalled to JSON and decoded back into a map, so `json`
// tags decide the column names and `omitempty` fields become missing cells.
// Numbers arrive as float64 and nested objects or arrays are kept as their
// raw JSON text, which is what the text predicates compare against. A field
// tagged `json:"id"` is lifted into Row.ID when it is a string.
//
// Example:
//
//	type Sale struct {
//		ID     string  `json:"id"`
//		Region string  `json:"region"`
//		Sales  float64 `json:"sales"`
//	}
//	row, err := RowFromStruct(Sale{ID: "s-1", Region: "East", Sales: 10})
//	// row.ID == "s-1", row.Values == Values{"region": "East", "sales": 10.0}
func RowFromStruct(record any) (Row, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return Row{}, fmt.Errorf("RowFromStruct: input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return Row{}, fmt.Errorf("RowFromStruct: input record cannot be a nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return Row{}, fmt.Errorf("RowFromStruct: input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return Row{}, fmt.Errorf("RowFromStruct: failed to marshal record: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Row{}, fmt.Errorf("RowFromStruct: failed to unmarshal record: %w", err)
	}

	row := Row{Values: make(Values, len(decoded))}
	for key, v := range decoded {
		switch nested := v.(type) {
		case map[string]any, []any:
			b, err := json.Marshal(nested)
			if err != nil {
				return Row{}, fmt.Errorf("RowFromStruct: error re-marshaling nested value for key '%s': %w", key, err)
			}
			row.Values[key] = string(b)
		default:
			row.Values[key] = v
		}
	}

	if id, ok := row.Values["id"].(string); ok {
		row.ID = id
		delete(row.Values, "id")
	}
	return row, nil
}

// RowsFromStructs converts a slice of structs with RowFromStruct.
func RowsFromStructs[T any](records []T) ([]Row, error) {
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		row, err := RowFromStruct(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
