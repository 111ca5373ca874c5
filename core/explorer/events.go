package explorer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names an explorer event.
type EventType string

const (
	EventFiltersChanged    EventType = "filters.changed"
	EventDatasetChanged    EventType = "dataset.changed"
	EventResultsRecomputed EventType = "results.recomputed"
)

// Event is emitted on the explorer's bus whenever its inputs change or a
// result is recomputed rather than served from the cache.
type Event struct {
	Type          EventType `json:"type"`
	Timestamp     int64     `json:"timestamp"`
	Operation     string    `json:"operation"`
	FilterID      string    `json:"filterId,omitempty"`
	RowID         string    `json:"rowId,omitempty"`
	Revision      uint64    `json:"revision"`
	Rows          int       `json:"rows"`
	ActiveFilters int       `json:"activeFilters"`
	Matched       int       `json:"matched,omitempty"`
	Duration      *int64    `json:"duration,omitempty"` // milliseconds, recompute events only
}

// EventCallback handles an explorer event.
type EventCallback func(ctx context.Context, event Event) error

func newEvent(t EventType, operation string, startTime time.Time) Event {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}
	return Event{
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
		Operation: operation,
		Duration:  duration,
	}
}

func (e *Explorer) emit(event Event) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

// Subscribe registers callback for events of type t and returns an id for
// Unsubscribe.
func (e *Explorer) Subscribe(t EventType, callback EventCallback) string {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	unsubscribe := e.bus.Subscribe(string(t), func(ctx context.Context, event Event) error {
		return callback(ctx, event)
	})
	id := uuid.New().String()
	e.subscriptions[id] = unsubscribe
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (e *Explorer) Unsubscribe(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	if unsubscribe, ok := e.subscriptions[id]; ok {
		unsubscribe()
		delete(e.subscriptions, id)
	}
}
