// Package explorer keeps one dataset and its filter set together and serves
// the filtered rows, KPI summary and chart series derived from them.
//
// Results are memoized by a content key of the dataset revision and the
// active filters, so they are recomputed after every change to either and
// served from cache otherwise. Changes and recomputations are published on a
// typed event bus.
package explorer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-sift/core/aggregate"
	"github.com/asaidimu/go-sift/core/dataset"
	"github.com/asaidimu/go-sift/core/filter"
	"github.com/asaidimu/go-sift/core/kpi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrFilterNotFound  = errors.New("filter not found")
	ErrDuplicateFilter = errors.New("filter id already in use")
	ErrRowNotFound     = errors.New("row not found")
	ErrDuplicateRow    = errors.New("row id already in use")
)

// Explorer holds a dataset and filter set and serves derived results.
type Explorer struct {
	mu       sync.Mutex
	ds       dataset.Dataset
	revision uint64
	filters  []filter.Filter
	kpiSet   kpi.ColumnSet
	cache    *cache

	engine     *filter.Engine
	calculator *kpi.Calculator
	logger     *zap.Logger

	bus           *events.TypedEventBus[Event]
	subscriptions map[string]func()
	subMu         sync.Mutex
}

// New creates an Explorer over a copy of ds. ds must pass dataset
// validation. Later changes to ds are not seen; edit through the Explorer.
func New(ds dataset.Dataset, opts *Options) (*Explorer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	bus, err := events.NewTypedEventBus[Event](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	e := &Explorer{
		ds:            ds.Clone(),
		revision:      1,
		cache:         newCache(opts.CacheSize),
		engine:        filter.NewEngine(logger.Named("filter")),
		calculator:    kpi.NewCalculator(opts.Classifier, logger.Named("kpi")),
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]func()),
	}
	e.kpiSet = e.calculator.Detect(ds.Columns)
	return e, nil
}

// Engine returns the filter engine, for registering custom predicates.
// Registering changes how existing filters evaluate, so call ClearCache
// afterwards if results were already served.
func (e *Explorer) Engine() *filter.Engine {
	return e.engine
}

// ClearCache drops every memoized result.
func (e *Explorer) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.reset()
}

// Dataset returns a copy of the current dataset. Editing the copy does not
// affect the Explorer; use SetDataset or the row edit methods.
func (e *Explorer) Dataset() dataset.Dataset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ds.Clone()
}

// SetDataset replaces the dataset with a copy of ds, re-detects the KPI
// columns and invalidates every cached result. Filters are kept.
func (e *Explorer) SetDataset(ds dataset.Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	e.mu.Lock()
	e.ds = ds.Clone()
	e.revision++
	e.kpiSet = e.calculator.Detect(ds.Columns)
	e.cache.reset()
	event := e.describe(EventDatasetChanged, "set_dataset", "")
	e.mu.Unlock()

	e.logger.Info("Dataset replaced",
		zap.Uint64("revision", event.Revision),
		zap.Int("columns", len(ds.Columns)),
		zap.Int("rows", len(ds.Rows)))
	e.emit(event)
	return nil
}

// AddRow appends a row and returns its id, generating one when row.ID is
// empty.
func (e *Explorer) AddRow(row dataset.Row) (string, error) {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row = row.Clone()
	err := e.editRows("add_row", row.ID, func(rows []dataset.Row, i int) ([]dataset.Row, error) {
		if i >= 0 {
			return nil, ErrDuplicateRow
		}
		return append(rows, row), nil
	})
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

// UpdateRow merges values into the cells of the row with the given id. A nil
// value clears that cell.
func (e *Explorer) UpdateRow(id string, values dataset.Values) error {
	return e.editRows("update_row", id, func(rows []dataset.Row, i int) ([]dataset.Row, error) {
		if i < 0 {
			return nil, ErrRowNotFound
		}
		row := rows[i].Clone()
		if row.Values == nil {
			row.Values = make(dataset.Values, len(values))
		}
		for column, v := range values {
			row.Values[column] = v
		}
		rows[i] = row
		return rows, nil
	})
}

// SetCell sets a single cell of the row with the given id.
func (e *Explorer) SetCell(id, column string, value any) error {
	return e.UpdateRow(id, dataset.Values{column: value})
}

// RemoveRow deletes the row with the given id.
func (e *Explorer) RemoveRow(id string) error {
	return e.editRows("remove_row", id, func(rows []dataset.Row, i int) ([]dataset.Row, error) {
		if i < 0 {
			return nil, ErrRowNotFound
		}
		return slices.Delete(rows, i, i+1), nil
	})
}

// editRows applies fn to a copy of the row slice, then installs the result
// as a new dataset revision. i is the index of the row with id, or -1.
// Previously returned results keep referring to the old rows.
func (e *Explorer) editRows(operation, id string, fn func(rows []dataset.Row, i int) ([]dataset.Row, error)) error {
	e.mu.Lock()
	i := -1
	if id != "" {
		i = slices.IndexFunc(e.ds.Rows, func(r dataset.Row) bool { return r.ID == id })
	}
	rows, err := fn(slices.Clone(e.ds.Rows), i)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s '%s': %w", operation, id, err)
	}
	e.ds.Rows = rows
	e.revision++
	e.cache.reset()
	event := e.describe(EventDatasetChanged, operation, "")
	event.RowID = id
	e.mu.Unlock()

	e.logger.Debug("Dataset row edited",
		zap.String("operation", operation),
		zap.String("row", id),
		zap.Uint64("revision", event.Revision))
	e.emit(event)
	return nil
}

// KpiColumns returns the KPI roles detected for the current dataset.
func (e *Explorer) KpiColumns() kpi.ColumnSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.kpiSet
}

// Filters returns a copy of the filter set, active and inactive.
func (e *Explorer) Filters() []filter.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.filters)
}

// AddFilter appends f to the filter set and returns its id, generating one
// when f.ID is empty.
func (e *Explorer) AddFilter(f filter.Filter) (string, error) {
	e.mu.Lock()
	if f.ID == "" {
		f.ID = uuid.New().String()
	} else if e.indexOf(f.ID) >= 0 {
		e.mu.Unlock()
		return "", fmt.Errorf("add filter '%s': %w", f.ID, ErrDuplicateFilter)
	}
	e.filters = append(e.filters, f)
	event := e.describe(EventFiltersChanged, "add_filter", f.ID)
	e.mu.Unlock()

	e.emit(event)
	return f.ID, nil
}

// UpdateFilter replaces the filter with the same id.
func (e *Explorer) UpdateFilter(f filter.Filter) error {
	return e.mutateFilter(f.ID, "update_filter", func(i int) {
		e.filters[i] = f
	})
}

// SetFilterActive turns a filter on or off without discarding it.
func (e *Explorer) SetFilterActive(id string, active bool) error {
	return e.mutateFilter(id, "set_filter_active", func(i int) {
		e.filters[i].IsActive = active
	})
}

// RemoveFilter deletes a filter from the set.
func (e *Explorer) RemoveFilter(id string) error {
	return e.mutateFilter(id, "remove_filter", func(i int) {
		e.filters = slices.Delete(e.filters, i, i+1)
	})
}

// ClearFilters removes every filter.
func (e *Explorer) ClearFilters() {
	e.mu.Lock()
	e.filters = nil
	event := e.describe(EventFiltersChanged, "clear_filters", "")
	e.mu.Unlock()
	e.emit(event)
}

func (e *Explorer) mutateFilter(id, operation string, fn func(i int)) error {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%s '%s': %w", operation, id, ErrFilterNotFound)
	}
	fn(i)
	event := e.describe(EventFiltersChanged, operation, id)
	e.mu.Unlock()

	e.emit(event)
	return nil
}

func (e *Explorer) indexOf(id string) int {
	return slices.IndexFunc(e.filters, func(f filter.Filter) bool { return f.ID == id })
}

// Issues reports the problems of one filter against the dataset columns.
func (e *Explorer) Issues(id string) ([]filter.Issue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("issues '%s': %w", id, ErrFilterNotFound)
	}
	return filter.Check(e.filters[i], e.ds.Columns), nil
}

// Rows returns the rows matching every active filter. The returned slice is
// shared with the cache and must not be modified.
func (e *Explorer) Rows() []dataset.Row {
	e.mu.Lock()
	rows, event := e.rowsLocked()
	e.mu.Unlock()
	e.emitIf(event)
	return rows
}

// Summary returns the KPI summary of the filtered rows. The result is a
// copy and may be modified freely.
func (e *Explorer) Summary() kpi.Summary {
	e.mu.Lock()
	key := e.key("summary")
	if cached, ok := e.cache.get(key); ok {
		e.mu.Unlock()
		return cached.(kpi.Summary).Clone()
	}
	rows, event := e.rowsLocked()
	summary := e.calculator.Calculate(rows, e.kpiSet)
	e.cache.put(key, summary)
	e.mu.Unlock()

	e.emitIf(event)
	return summary.Clone()
}

// Series aggregates the filtered rows. An unsupported reducer panics, as
// with aggregate.Aggregate.
func (e *Explorer) Series(groupBy, valueColumn string, reducer aggregate.Reducer) aggregate.Series {
	if !reducer.Valid() {
		panic(fmt.Sprintf("explorer: unsupported reducer %q", reducer))
	}

	e.mu.Lock()
	key := e.key("series", groupBy, valueColumn, string(reducer))
	if cached, ok := e.cache.get(key); ok {
		e.mu.Unlock()
		return cached.(aggregate.Series).Clone()
	}
	rows, event := e.rowsLocked()
	series := aggregate.Aggregate(rows, groupBy, valueColumn, reducer)
	e.cache.put(key, series)
	e.mu.Unlock()

	e.logger.Debug("Aggregated series",
		zap.String("groupBy", groupBy),
		zap.String("value", valueColumn),
		zap.String("reducer", string(reducer)),
		zap.Int("points", len(series)))
	e.emitIf(event)
	return series.Clone()
}

// rowsLocked returns the filtered rows, computing them on a cache miss. The
// returned event is non-nil when a recompute happened. e.mu must be held.
func (e *Explorer) rowsLocked() ([]dataset.Row, *Event) {
	key := e.key("rows")
	if cached, ok := e.cache.get(key); ok {
		return cached.([]dataset.Row), nil
	}

	start := time.Now()
	rows := e.engine.FilterDataset(e.ds, e.filters)
	e.cache.put(key, rows)

	event := newEvent(EventResultsRecomputed, "filter_rows", start)
	event.Revision = e.revision
	event.Rows = len(e.ds.Rows)
	event.ActiveFilters = countActive(e.filters)
	event.Matched = len(rows)
	return rows, &event
}

func (e *Explorer) describe(t EventType, operation, filterID string) Event {
	event := newEvent(t, operation, time.Time{})
	event.FilterID = filterID
	event.Revision = e.revision
	event.Rows = len(e.ds.Rows)
	event.ActiveFilters = countActive(e.filters)
	return event
}

func (e *Explorer) emitIf(event *Event) {
	if event != nil {
		e.emit(*event)
	}
}

func countActive(fs []filter.Filter) int {
	n := 0
	for _, f := range fs {
		if f.IsActive {
			n++
		}
	}
	return n
}
