package events

import (
	"sync"
)

// EventLog is an append-only, inspectable record of every emitted event.
// It decouples "what the engine emitted" from the ledger's own state so
// observers and tests can assert against the emission history directly.
type EventLog struct {
	mu      sync.RWMutex
	entries []TokenEvent
}

func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]TokenEvent, 0),
	}
}

// Append records an event at the end of the log
func (el *EventLog) Append(event TokenEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.entries = append(el.entries, event)
}

// Events returns a snapshot of the log in emission order
func (el *EventLog) Events() []TokenEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	snapshot := make([]TokenEvent, len(el.entries))
	copy(snapshot, el.entries)
	return snapshot
}

// Len returns the number of recorded events
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()

	return len(el.entries)
}

// Last returns the most recent event, nil if the log is empty
func (el *EventLog) Last() TokenEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if len(el.entries) == 0 {
		return nil
	}
	return el.entries[len(el.entries)-1]
}
