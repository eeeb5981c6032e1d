package notify

import "sync"

// Event kinds carried on the bus.
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Publisher is the fire-and-forget outcome channel the economy engine
// reports through.
type Publisher interface {
	Publish(event Event)
}

// Bus is the in-process publish/subscribe channel. Delivery is
// best-effort: events published with no listener attached are dropped,
// and a listener that cannot keep up loses events rather than blocking
// the publisher.
type Bus struct {
	mu        sync.Mutex
	listeners map[int]chan Event
	next      int
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[int]chan Event)}
}

func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}

// Attach registers a listener and returns its event channel plus a
// detach function. Detaching twice is a no-op.
func (b *Bus) Attach(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = ch
	b.mu.Unlock()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, detach
}

var _ Publisher = (*Bus)(nil)
