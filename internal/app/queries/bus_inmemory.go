package queries

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryBus is a simple map-backed query bus.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]func(ctx context.Context, query Query) (any, error)
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]func(ctx context.Context, query Query) (any, error))}
}

// RegisterRaw registers an untyped handler under key.
func (b *InMemoryBus) RegisterRaw(key string, handler func(ctx context.Context, query Query) (any, error)) error {
	if key == "" {
		return fmt.Errorf("queries: empty key")
	}
	if handler == nil {
		return fmt.Errorf("queries: nil handler for %q", key)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[key]; exists {
		return fmt.Errorf("queries: handler already registered for %q", key)
	}
	b.handlers[key] = handler
	return nil
}

func (b *InMemoryBus) Ask(ctx context.Context, query Query) (any, error) {
	if query == nil {
		return nil, ErrInvalidQuery
	}
	b.mu.RLock()
	handler, ok := b.handlers[query.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, query.Key())
	}
	return handler(ctx, query)
}

// RegisterHandler adapts a typed handler into the bus.
func RegisterHandler[Q Query, R any](bus *InMemoryBus, handler Handler[Q, R]) error {
	if bus == nil {
		return ErrNilBus
	}
	if handler == nil {
		return fmt.Errorf("queries: nil handler")
	}
	var probe Q
	key := probe.Key()
	return bus.RegisterRaw(key, func(ctx context.Context, query Query) (any, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: expected %T, got %T", ErrInvalidQuery, probe, query)
		}
		return handler.Handle(ctx, typed)
	})
}
