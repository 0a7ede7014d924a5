package events

import (
	"time"
)

// Event is an in-process notification emitted after a state change has
// been durably recorded. Handlers run asynchronously; delivery is
// best-effort and never blocks or fails the triggering mutation.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
}

// EventHandler consumes published events
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventBus fans events out to subscribed handlers
type EventBus interface {
	Publish(event Event)
	Subscribe(eventTypes []string, handler EventHandler)
}

// BaseEvent is the standard Event implementation
type BaseEvent struct {
	EventType string
	Stream    string
	EventData interface{}
	EventTime time.Time
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// NewEvent creates an event stamped with the current time
func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now(),
	}
}
