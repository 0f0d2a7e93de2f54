package event

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	defaultPoolSize = 1000
	defaultTimeout  = 10 * time.Second
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, e Event) error

// Bus dispatches events to subscribers asynchronously, bounded by a worker pool.
type Bus struct {
	pool     chan struct{}
	timeout  time.Duration
	wg       sync.WaitGroup
	mu       sync.RWMutex
	handlers map[string][]Handler
}

type Option func(*Bus)

// WithPoolSize bounds the number of handlers running at once.
func WithPoolSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.pool = make(chan struct{}, n)
		}
	}
}

// WithTimeout sets the deadline of every handler invocation.
func WithTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// NewBus creates a new event bus. Caller should call Stop to drain in-flight handlers.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		pool:     make(chan struct{}, defaultPoolSize),
		timeout:  defaultTimeout,
		handlers: make(map[string][]Handler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers h for events with the given name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[name] = append(b.handlers[name], h)
}

// Publish dispatches e to every subscriber of its name. It does not wait for handlers,
// nor for a free slot in the pool.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := b.handlers[e.Name()]
	b.mu.RUnlock()

	for _, h := range hs {
		b.dispatch(ctx, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) {
	b.wg.Add(1)

	// The slot is taken inside the goroutine so a full pool never blocks the publisher.
	go func() {
		b.pool <- struct{}{}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "event: handler panic",
					"event", e.Name(),
					"error", fmt.Errorf("%v, stack: %s", r, debug.Stack()),
				)
			}

			cancel()
			<-b.pool
			b.wg.Done()
		}()

		if err := h(ctx, e); err != nil {
			slog.ErrorContext(ctx, "event: handle event failed",
				"event", e.Name(),
				"error", err,
			)
		}
	}()
}

// Stop waits for all dispatched handlers to finish.
func (b *Bus) Stop() {
	b.wg.Wait()
}
