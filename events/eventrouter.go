package events

// EventRouter fans every engine event into the append-only log and out to
// live bus subscribers. The engine only ever talks to the router, so the two
// sinks cannot drift apart.
type EventRouter struct {
	eventBus *EventBus
	eventLog *EventLog
}

// NewEventRouter creates a new EventRouter instance
func NewEventRouter(eventBus *EventBus, eventLog *EventLog) *EventRouter {
	return &EventRouter{
		eventBus: eventBus,
		eventLog: eventLog,
	}
}

// PublishTokenEvent appends the event to the log, then notifies subscribers
func (er *EventRouter) PublishTokenEvent(event TokenEvent) {
	if er == nil {
		return
	}
	if er.eventLog != nil {
		er.eventLog.Append(event)
	}
	if er.eventBus != nil {
		er.eventBus.Publish(event)
	}
}

// Subscribe subscribes to all token events
func (er *EventRouter) Subscribe() (SubscriberID, chan TokenEvent) {
	return er.eventBus.Subscribe()
}

// Unsubscribe removes a subscription
func (er *EventRouter) Unsubscribe(id SubscriberID) bool {
	return er.eventBus.Unsubscribe(id)
}

// Log exposes the append-only event log for inspection
func (er *EventRouter) Log() *EventLog {
	return er.eventLog
}
