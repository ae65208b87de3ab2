package event

import (
	"sync"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUpdate              Type = "update"
	TypeFileChanged         Type = "file_changed"
	TypeEnergyConsumed      Type = "energy_consumed"
	TypeBreakStarted        Type = "break_started"
	TypeEnergyRestored      Type = "energy_restored"
	TypeRegenerationPaused  Type = "regeneration_paused"
	TypeRegenerationResumed Type = "regeneration_resumed"
	TypeEnergyRegenerated   Type = "energy_regenerated"
)

// Event is the envelope delivered to subscribers. Data is the wire payload
// the transport layer forwards verbatim.
type Event struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
	Data any    `json:"data"`
}

// Bus is an in-process publish/subscribe fan-out. Delivery is best-effort:
// Publish never blocks, and events for subscribers with a full buffer are
// dropped. Consumers must not rely on delivery for state correctness.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
}

func NewBus() *Bus {
	return &Bus{subs: map[int]chan Event{}}
}

// Subscribe registers a new subscriber with the given channel buffer. The
// returned cancel func unregisters and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans the event out to all current subscribers.
func (b *Bus) Publish(typ Type, data any) {
	e := Event{
		ID:   uuid.NewString(),
		Type: typ,
		Data: data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are registered.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
