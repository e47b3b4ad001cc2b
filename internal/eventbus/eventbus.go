package eventbus

import "sync"

// Bus is a bounded multi-producer multi-consumer broadcast channel.
//
// Delivery is best effort: a subscriber whose buffer is full misses the
// event rather than blocking the publisher. Consumers that need at-least-once
// delivery must add durability on their side of the channel.
type Bus struct {
	mu       sync.RWMutex
	capacity int
	nextID   int
	subs     map[int]chan Event
}

// New creates a bus whose subscriptions buffer up to capacity events each.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Bus{
		capacity: capacity,
		subs:     make(map[int]chan Event),
	}
}

// Publish sends the event to all current subscribers and returns how many
// received it. Publishing with no subscribers is a no-op, never an error.
func (b *Bus) Publish(event Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- event:
			delivered++
		default:
			// Subscriber lagging; drop for this receiver.
		}
	}
	return delivered
}

// Subscription is an independent receive handle onto the bus.
type Subscription struct {
	C  <-chan Event
	id int
	b  *Bus
}

// Subscribe returns a new subscription. Events published after this call are
// delivered to Subscription.C until Close.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.capacity)
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return &Subscription{C: ch, id: id, b: b}
}

// Close removes the subscription from the bus and closes its channel.
func (s *Subscription) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if ch, ok := s.b.subs[s.id]; ok {
		delete(s.b.subs, s.id)
		close(ch)
	}
}

// Close removes every subscription and closes its channel, waking consumers
// blocked on a receive. Publishing after Close delivers to no one.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
