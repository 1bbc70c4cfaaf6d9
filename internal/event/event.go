// Package event carries change notifications between open surfaces. A
// surface that misses an event simply re-reads the store on its next
// initialization; the store, not the event stream, is ground truth.
package event

import (
	"log/slog"
	"sync"

	"github.com/mateconpizza/later/internal/item"
)

// Type tags an Event.
type Type string

const (
	Add          Type = "add"
	Remove       Type = "remove"
	Update       Type = "update"
	OrderChanged Type = "orderChanged"
)

// Event is one change notification. Item is set for Add and Update.
type Event struct {
	Type Type
	URL  string
	Item *item.ListItem
}

// subscriber buffer; a surface that falls further behind drops events and
// recovers by re-reading the store.
const subscriberBuffer = 16

// Bus is a one-way broadcast channel. Delivery is at-most-once per open
// subscriber, FIFO per sender, no replay.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the surface closes.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish broadcasts ev to every current subscriber. Slow subscribers miss
// the event rather than block the sender.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("dropping event for slow subscriber", "id", id, "type", ev.Type)
		}
	}
}
