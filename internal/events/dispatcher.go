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
	Close()
}

// asyncDispatcher fans events out to subscribers on a bounded worker pool.
// Publish never blocks the caller: when the queue is full the event is
// dropped and logged.
type asyncDispatcher struct {
	logger *zap.Logger

	mu        sync.RWMutex
	listeners map[EventType][]EventHandler

	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

// NewAsyncDispatcher creates a dispatcher backed by the given queue size and
// worker count.
func NewAsyncDispatcher(logger *zap.Logger, queueSize, workers int) Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}
	d := &asyncDispatcher{
		logger:    logger,
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, queueSize),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Publish enqueues the event for asynchronous delivery.
func (d *asyncDispatcher) Publish(_ context.Context, event Event) error {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops accepting events and waits for queued events to drain.
func (d *asyncDispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *asyncDispatcher) worker() {
	defer d.wg.Done()
	for event := range d.queue {
		d.dispatch(event)
	}
}

func (d *asyncDispatcher) dispatch(event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	ctx := context.Background()
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Error("event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}
