package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"chat-room/domain/event"
)

// Bus is the single broadcast point every session subscribes to.
//
// It provides best-effort fan-out with no replay: events published before
// a subscription exist only for the subscribers of that moment, and
// publishing with zero subscribers drops the event. Each subscription
// owns a bounded queue; when a slow subscriber's queue fills, the oldest
// buffered event is dropped so the publisher never waits on anyone.
//
// Bus is safe for concurrent use by multiple goroutines.
type Bus struct {
	mu       sync.RWMutex
	log      *slog.Logger
	subs     map[uint64]*Subscription
	nextID   uint64
	capacity int
}

// NewBus creates a bus whose subscriptions buffer up to capacity events.
func NewBus(log *slog.Logger, capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		log:      log,
		subs:     make(map[uint64]*Subscription),
		capacity: capacity,
	}
}

// Subscribe returns a fresh receive handle observing every event
// published from this point forward.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus: b,
		id:  b.nextID,
		ch:  make(chan event.Event, b.capacity),
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers the event to every current subscription. Delivery is
// an in-memory enqueue; the slowest subscriber never affects publish
// latency for the others.
func (b *Bus) Publish(e event.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		sub.Consume(e)
	}
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
}

// SubscriberCount reports the number of live subscriptions, for diagnostics.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Subscription is one subscriber's private, ordered delivery queue.
type Subscription struct {
	bus *Bus
	id  uint64
	ch  chan event.Event
}

// C exposes the receive side of the queue.
func (s *Subscription) C() <-chan event.Event {
	return s.ch
}

// Consume enqueues without ever blocking. On a full queue the oldest
// buffered event is discarded to make room, bounding memory under a
// stalled client while keeping the newest traffic.
func (s *Subscription) Consume(e event.Event) {
	for {
		select {
		case s.ch <- e:
			return
		default:
		}
		select {
		case dropped := <-s.ch:
			s.bus.log.Debug(fmt.Sprintf("Subscriber %d overflow, dropping oldest %s event", s.id, dropped.Kind()))
		default:
		}
	}
}

// Close detaches the subscription from the bus. Buffered events stay
// readable; no further events arrive. Close is idempotent.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.id)
}
