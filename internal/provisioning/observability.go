package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/slicectl/internal/slice"
)

// Observer receives structured events while a slice is provisioned.
type Observer interface {
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Slice     string            // Slice name
	Resource  string            // Node or network name if applicable
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventSubmitted indicates the backend accepted a slice.
	EventSubmitted EventType = "slice.submitted"
	// EventStateChanged indicates a lifecycle transition.
	EventStateChanged EventType = "slice.state"
	// EventProgress reports how many resources are active.
	EventProgress EventType = "slice.progress"
	// EventPollRetry indicates a transient poll failure that will be retried.
	EventPollRetry EventType = "poll.retry"
	// EventResourceFailed indicates a node or network reported an error.
	EventResourceFailed EventType = "resource.failed"
	// EventKeyAttached indicates an SSH key reference was added to a node.
	EventKeyAttached EventType = "key.attached"
)

// LogObserver writes events to a logr.Logger.
type LogObserver struct {
	logger logr.Logger
}

// NewLogObserver returns an observer logging through logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type), "slice", event.Slice}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Fields[k])
	}

	if event.Type == EventProgress || event.Type == EventPollRetry {
		o.logger.V(1).Info(event.Message, kv...)
		return
	}
	o.logger.Info(event.Message, kv...)
}

// Helper functions for common events

func emitTransition(o Observer, name string, from, to slice.State, cause error) {
	e := Event{
		Type:    EventStateChanged,
		Slice:   name,
		Message: fmt.Sprintf("%s -> %s", from, to),
		Fields:  map[string]string{"from": string(from), "to": string(to)},
	}
	if cause != nil {
		e.Fields["cause"] = cause.Error()
	}
	o.Event(e)
}

func emitProgress(o Observer, name string, active, total int) {
	o.Event(Event{
		Type:    EventProgress,
		Slice:   name,
		Message: fmt.Sprintf("%d/%d resources active", active, total),
		Fields: map[string]string{
			"active": fmt.Sprint(active),
			"total":  fmt.Sprint(total),
		},
	})
}

func emitPollRetry(o Observer, name string, attempt int, delay time.Duration, err error) {
	o.Event(Event{
		Type:    EventPollRetry,
		Slice:   name,
		Message: fmt.Sprintf("backend unavailable, retrying in %v", delay),
		Fields: map[string]string{
			"attempt": fmt.Sprint(attempt),
			"error":   err.Error(),
		},
	})
}
