package filter

import (
	"sync"

	"github.com/asaidimu/go-sift/core/dataset"
	"go.uber.org/zap"
)

// OperatorKey identifies a custom predicate registration.
type OperatorKey struct {
	ColumnType dataset.ColumnType
	Operator   Operator
}

// Engine compiles and applies filters. On top of the package-level
// functions it holds a registry of custom predicates and logs the filters
// that fall back to pass-through.
type Engine struct {
	custom map[OperatorKey]PredicateFunc
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewEngine creates a new Engine instance.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		custom: make(map[OperatorKey]PredicateFunc),
		logger: logger,
	}
}

// RegisterPredicate registers fn for filters of columnType using operator.
// Registrations take precedence over the built-in operator table.
func (e *Engine) RegisterPredicate(columnType dataset.ColumnType, operator Operator, fn PredicateFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.custom[OperatorKey{ColumnType: columnType, Operator: operator}] = fn
	e.logger.Info("Registered predicate function",
		zap.String("columnType", string(columnType)),
		zap.String("operator", string(operator)))
}

// RegisterPredicates registers multiple predicate functions from a map.
func (e *Engine) RegisterPredicates(functionMap map[OperatorKey]PredicateFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, fn := range functionMap {
		e.custom[key] = fn
		e.logger.Info("Registered predicate function",
			zap.String("columnType", string(key.ColumnType)),
			zap.String("operator", string(key.Operator)))
	}
}

// Compile compiles f, preferring a registered custom predicate.
func (e *Engine) Compile(f Filter) Predicate {
	e.mu.RLock()
	fn, ok := e.custom[OperatorKey{ColumnType: f.ColumnType, Operator: f.Operator}]
	e.mu.RUnlock()
	if ok {
		return CustomPredicate{Column: f.ColumnName, Filter: f, Fn: fn}
	}

	p := Compile(f)
	if pass, isPass := p.(PassPredicate); isPass {
		e.logger.Warn("Filter falls back to pass-through",
			zap.String("id", f.ID),
			zap.String("column", f.ColumnName),
			zap.String("reason", pass.Reason))
	}
	return p
}

// FilterRows is FilterRows with custom predicates applied.
func (e *Engine) FilterRows(rows []dataset.Row, filters []Filter) []dataset.Row {
	predicates := make([]Predicate, 0, len(filters))
	for _, f := range filters {
		if f.IsActive {
			predicates = append(predicates, e.Compile(f))
		}
	}
	matched := apply(rows, predicates)
	e.logger.Debug("Rows remaining after filters",
		zap.Int("input", len(rows)),
		zap.Int("activeFilters", len(predicates)),
		zap.Int("count", len(matched)))
	return matched
}

// FilterDataset filters the rows of ds. Filters naming a column the dataset
// does not declare are treated as always-true and skipped.
func (e *Engine) FilterDataset(ds dataset.Dataset, filters []Filter) []dataset.Row {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if !f.IsActive {
			continue
		}
		if !ds.HasColumn(f.ColumnName) {
			e.logger.Warn("Skipping filter on unknown column",
				zap.String("id", f.ID),
				zap.String("column", f.ColumnName))
			continue
		}
		kept = append(kept, f)
	}
	return e.FilterRows(ds.Rows, kept)
}

// Match reports whether row satisfies every active filter.
func (e *Engine) Match(filters []Filter, row dataset.Row) bool {
	for _, f := range filters {
		if f.IsActive && !Evaluate(e.Compile(f), row) {
			return false
		}
	}
	return true
}
