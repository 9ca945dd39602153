// Package stream delivers host events to the application. The bus fans out
// each event to its subscribers; the reader decodes a newline-delimited JSON
// feed and publishes what it reads.
package stream

import (
	"context"
	"sync"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// Handler receives one event. Handlers must not return errors: whatever can
// go wrong while handling an event is dealt with behind the handler.
type Handler func(ctx context.Context, ev model.Event)

// Bus fans events out to subscribers, synchronously and in subscription
// order. Subscribe and Publish are safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers ev to every subscriber on the calling goroutine. It
// returns when the last handler has returned.
func (b *Bus) Publish(ctx context.Context, ev model.Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
