package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/asaidimu/go-sift/core/aggregate"
	"github.com/asaidimu/go-sift/core/dataset"
	"github.com/asaidimu/go-sift/core/explorer"
	"github.com/asaidimu/go-sift/core/filter"
	"github.com/fatih/color"
)

var columns = []dataset.Column{
	{Name: "Order Date", Type: dataset.ColumnTypeDate},
	{Name: "Customer", Type: dataset.ColumnTypeText},
	{Name: "Product", Type: dataset.ColumnTypeText},
	{Name: "Category", Type: dataset.ColumnTypeCategory},
	{Name: "Region", Type: dataset.ColumnTypeCategory},
	{Name: "Qty", Type: dataset.ColumnTypeNumber},
	{Name: "Amount", Type: dataset.ColumnTypeNumber},
}

var orders = []dataset.Values{
	{"Order Date": "2024-01-04", "Customer": "Acme Ltd", "Product": "Desk", "Category": "Furniture", "Region": "East", "Qty": 2, "Amount": 480.00},
	{"Order Date": "2024-01-19", "Customer": "Globex", "Product": "Pen", "Category": "Office", "Region": "West", "Qty": 40, "Amount": 36.00},
	{"Order Date": "2024-02-02", "Customer": "Acme Ltd", "Product": "Chair", "Category": "Furniture", "Region": "East", "Qty": 4, "Amount": 396.00},
	{"Order Date": "2024-02-21", "Customer": "Initech", "Product": "Paper", "Category": "Office", "Region": "North", "Qty": "10", "Amount": "54.90"},
	{"Order Date": "2024-03-08", "Customer": "Globex", "Product": "Monitor", "Category": "Electronics", "Region": "West", "Qty": 3, "Amount": 657.00},
	{"Order Date": "2024-03-27", "Customer": "Umbrella", "Product": "Desk", "Category": "Furniture", "Region": "East", "Qty": 1, "Amount": 240.00},
	{"Order Date": "not recorded", "Customer": nil, "Product": "Pen", "Category": "Office", "Region": "", "Qty": "n/a", "Amount": nil},
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}
	fmt.Println(string(b))
}

func heading(title string) {
	color.Cyan("\n== %s ==", title)
}

func main() {
	rows := make([]dataset.Row, len(orders))
	for i, values := range orders {
		rows[i] = dataset.NewRow(values)
	}
	ds := dataset.Dataset{Columns: columns, Rows: rows}

	ex, err := explorer.New(ds, nil)
	if err != nil {
		log.Fatalf("Failed to create explorer: %v", err)
	}
	ex.Subscribe(explorer.EventFiltersChanged, func(ctx context.Context, event explorer.Event) error {
		color.Yellow("filters changed: %s (%d active)", event.Operation, event.ActiveFilters)
		return nil
	})

	heading("Detected KPI columns")
	printJSON(ex.KpiColumns())

	heading("Summary of all orders")
	printJSON(ex.Summary())

	heading("Revenue by category")
	printJSON(ex.Series("Category", "Amount", aggregate.ReducerSum).SortByValue(true))

	heading("Monthly revenue")
	printJSON(aggregate.TimeSeries(ex.Rows(), "Order Date", "Amount", aggregate.GranularityMonth))

	if _, err := ex.AddFilter(filter.Filter{
		ColumnName: "Region",
		ColumnType: dataset.ColumnTypeCategory,
		Operator:   filter.OperatorIn,
		IsActive:   true,
		Values:     []string{"East", "West"},
	}); err != nil {
		log.Fatalf("Failed to add filter: %v", err)
	}
	if _, err := ex.AddFilter(filter.Filter{
		ColumnName: "Order Date",
		ColumnType: dataset.ColumnTypeDate,
		Operator:   filter.OperatorDateRange,
		IsActive:   true,
		From:       "2024-02-01",
		To:         "2024-03-31",
	}); err != nil {
		log.Fatalf("Failed to add filter: %v", err)
	}

	heading("East and West, February to March")
	printJSON(ex.Summary())

	heading("Top products by quantity")
	printJSON(aggregate.BarChart(ex.Rows(), "Product", "Qty", 3))

	heading("Average order value by region")
	printJSON(ex.Series("Region", "Amount", aggregate.ReducerAvg))
}
