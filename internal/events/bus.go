package events

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscriber queue length used by NewBus.
const DefaultBuffer = 256

// Bus fans events out to subscribers. Publish never blocks: an event is
// dropped for a subscriber whose queue is full.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
	closed bool
	logger *zap.Logger
}

// NewBus returns a Bus. logger may be nil.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{subs: map[int]chan Event{}, buffer: DefaultBuffer, logger: logger}
}

// Subscribe returns a channel receiving every event published after the
// call, and a function that unsubscribes and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers e to every subscriber that has room for it.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("event dropped, subscriber queue full",
				zap.Int("subscriber", id),
				zap.String("kind", string(e.Kind)),
				zap.String("subject", e.Subject))
		}
	}
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
