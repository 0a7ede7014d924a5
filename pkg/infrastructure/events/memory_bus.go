package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryBus is a process-local EventBus. Handlers run on their own
// goroutines; handler errors are logged and dropped.
type InMemoryBus struct {
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewInMemoryBus creates an empty bus
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryBus{
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

var _ EventBus = (*InMemoryBus)(nil)

// Publish delivers the event to every handler subscribed to its type
func (b *InMemoryBus) Publish(event Event) {
	b.mutex.RLock()
	handlers := make([]EventHandler, len(b.subscribers[event.Type()]))
	copy(handlers, b.subscribers[event.Type()])
	b.mutex.RUnlock()

	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		go func(h EventHandler, e Event) {
			if err := h.Handle(e); err != nil {
				b.logger.Warn("event handler failed",
					zap.String("event_type", e.Type()),
					zap.String("stream_id", e.StreamID()),
					zap.Error(err))
			}
		}(handler, event)
	}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryBus) Subscribe(eventTypes []string, handler EventHandler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	}
}
