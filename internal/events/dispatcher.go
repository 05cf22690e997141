package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher decouples publishing an event from processing it. Publish
// returns before any handler runs, which lets HTTP handlers acknowledge and
// leave the work to a background goroutine.
type Dispatcher interface {
	Publish(event Event) bool
	Subscribe(eventType EventType, handler EventHandler)
	Close()
}

// asyncDispatcher drains a bounded queue with a fixed worker pool. Handler
// errors are logged, never propagated; there is no caller left to receive
// them once the response has gone out.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler

	queue       chan Event
	wg          sync.WaitGroup
	taskTimeout time.Duration
	logger      *zap.Logger
}

// NewAsyncDispatcher creates a dispatcher with the given queue depth and
// worker count.
func NewAsyncDispatcher(logger *zap.Logger, queueSize, workers int) Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}
	d := &asyncDispatcher{
		listeners:   make(map[EventType][]EventHandler),
		queue:       make(chan Event, queueSize),
		taskTimeout: 30 * time.Second,
		logger:      logger,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Publish enqueues the event. A full queue drops the event; the upstream
// sender redelivers, so dropping is preferable to blocking a response.
func (d *asyncDispatcher) Publish(event Event) bool {
	select {
	case d.queue <- event:
		return true
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return false
	}
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops accepting events and waits for in-flight work to finish.
func (d *asyncDispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *asyncDispatcher) run() {
	defer d.wg.Done()
	for event := range d.queue {
		d.mu.RLock()
		handlers := append([]EventHandler{}, d.listeners[event.Type]...)
		d.mu.RUnlock()

		ctx, cancel := context.WithTimeout(context.Background(), d.taskTimeout)
		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.logger.Error("background event handler failed",
					zap.String("event_id", event.ID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
		cancel()
	}
}
