package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// continue processing other handlers despite errors
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// SubscribeAuditLogger attaches a zap-backed subscriber for every security
// event type so rejections land in the structured log.
func SubscribeAuditLogger(d Dispatcher, logger *zap.Logger) {
	audit := func(_ context.Context, e Event) error {
		logger.Info("security event",
			zap.String("type", string(e.Type)),
			zap.String("subject_id", e.SubjectID),
			zap.String("client_ip", e.ClientIP),
			zap.String("method", e.Method),
			zap.String("path", e.Path),
			zap.Time("occurred_at", e.OccurredAt),
			zap.Any("details", e.Details),
		)
		return nil
	}

	for _, t := range []EventType{
		EventLoginSucceeded,
		EventLoginFailed,
		EventTokenRejected,
		EventCsrfRejected,
		EventRateLimitExceeded,
	} {
		d.Subscribe(t, audit)
	}
}
