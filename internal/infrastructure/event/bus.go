// Package event dispatches committed domain events to their handlers.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultDispatchTimeout bounds one handler invocation
const DefaultDispatchTimeout = 10 * time.Second

// AsyncEventBus delivers events to handlers on background goroutines so a
// slow or failing handler never holds up the request that raised the event.
// Handler errors and panics are logged, never returned.
type AsyncEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	logger  *zap.Logger
	timeout time.Duration
	inline  bool
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// Option configures an AsyncEventBus
type Option func(*AsyncEventBus)

// WithDispatchTimeout sets the per-handler timeout
func WithDispatchTimeout(d time.Duration) Option {
	return func(b *AsyncEventBus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithSynchronousDispatch runs handlers on the publishing goroutine.
// Tests use it to observe deliveries without waiting.
func WithSynchronousDispatch() Option {
	return func(b *AsyncEventBus) {
		b.inline = true
	}
}

// NewAsyncEventBus creates a new bus
func NewAsyncEventBus(logger *zap.Logger, opts ...Option) *AsyncEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &AsyncEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
		timeout:  DefaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for the given event types, or for the types
// the handler declares. A handler with no types receives every event.
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *AsyncEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]shared.EventHandler, 0, len(b.handlers[eventType])+len(b.wildcard))
	out = append(out, b.handlers[eventType]...)
	return append(out, b.wildcard...)
}

// Publish schedules delivery of events. It always returns nil.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		for _, e := range events {
			b.logger.Warn("event bus stopped, dropping event",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
			)
		}
		return nil
	}

	// Deliveries outlive the request; keep its values but not its deadline.
	base := context.WithoutCancel(ctx)
	for _, e := range events {
		for _, h := range b.handlersFor(e.EventType()) {
			if b.inline {
				b.dispatch(base, h, e)
				continue
			}
			b.wg.Add(1)
			go func(h shared.EventHandler, e shared.DomainEvent) {
				defer b.wg.Done()
				b.dispatch(base, h, e)
			}(h, e)
		}
	}
	return nil
}

// Stop refuses new events and waits for in-flight deliveries
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *AsyncEventBus) dispatch(ctx context.Context, h shared.EventHandler, e shared.DomainEvent) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", e.EventType()),
				zap.String("event_id", e.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()
	if err := h.Handle(ctx, e); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.Error(err),
		)
	}
}

// Ensure AsyncEventBus implements shared.EventPublisher
var _ shared.EventPublisher = (*AsyncEventBus)(nil)
