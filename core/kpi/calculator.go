package kpi

import (
	"github.com/asaidimu/go-sift/core/dataset"
	"go.uber.org/zap"
)

// Calculator pairs a Classifier with the KPI computation.
type Calculator struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewCalculator creates a Calculator. A nil classifier selects the default
// HintClassifier and a nil logger disables logging.
func NewCalculator(classifier Classifier, logger *zap.Logger) *Calculator {
	if classifier == nil {
		classifier = NewHintClassifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{classifier: classifier, logger: logger}
}

// Detect classifies columns and logs the roles that were assigned.
func (c *Calculator) Detect(columns []dataset.Column) ColumnSet {
	set := c.classifier.Classify(columns)
	c.logger.Debug("Detected KPI columns",
		zap.String("revenue", set.RevenueColumn),
		zap.String("quantity", set.QuantityColumn),
		zap.String("date", set.DateColumn),
		zap.String("customer", set.CustomerColumn),
		zap.String("product", set.ProductColumn),
		zap.String("category", set.CategoryColumn))
	if set.IsEmpty() {
		c.logger.Info("No KPI columns detected", zap.Int("columns", len(columns)))
	}
	return set
}

// Calculate computes the summary of rows for set.
func (c *Calculator) Calculate(rows []dataset.Row, set ColumnSet) Summary {
	summary := CalculateKpis(rows, set)
	c.logger.Debug("Calculated KPIs", zap.Int("rows", summary.RowCount))
	return summary
}

// Summarize detects the KPI columns of ds and summarises rows, which are
// normally the filtered subset of ds.Rows.
func (c *Calculator) Summarize(ds dataset.Dataset, rows []dataset.Row) Summary {
	return c.Calculate(rows, c.Detect(ds.Columns))
}
