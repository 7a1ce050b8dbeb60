// Package bus is the in-process event fan-out between a room and its
// consumers (gateway connections, the journal). Publishing is synchronous
// and runs on the publisher's goroutine: each room publishes from its own
// actor loop, which is what keeps per-game event order intact.
package bus

import (
	"log"
	"sync"

	"truco-lite/truco"
)

// TopicAll receives every game's events, in addition to per-game topics.
const TopicAll = "*"

type Handler func(gameID string, seq uint64, evt truco.Event)

type subscription struct {
	id      uint64
	topic   string
	handler Handler
}

type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]*subscription // topic -> subscribers
}

func New() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// Subscribe registers a handler for one game's events, or for TopicAll.
// The returned cancel func removes the subscription.
func (b *Bus) Subscribe(topic string, h Handler) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	sub := &subscription{id: b.nextID, topic: topic, handler: h}
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return func() { b.remove(sub) }
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.topic]) == 0 {
		delete(b.subs, sub.topic)
	}
}

// Publish delivers evt to the game's subscribers and to TopicAll, in
// subscription order. A panicking handler is logged and skipped so one bad
// consumer cannot take the room actor down.
func (b *Bus) Publish(gameID string, seq uint64, evt truco.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[gameID])+len(b.subs[TopicAll]))
	for _, s := range b.subs[gameID] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.subs[TopicAll] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Bus] handler panic on %s: %v", gameID, r)
				}
			}()
			h(gameID, seq, evt)
		}()
	}
}
