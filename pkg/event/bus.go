package event

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the per-subscription buffer when none is given.
const DefaultQueueSize = 16

// ErrBusClosed is returned by Subscribe after Close.
var ErrBusClosed = errors.New("event bus closed")

// Bus fans events out to subscriptions.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
	closed bool

	queueSize int
}

// NewBus creates a bus whose subscriptions buffer queueSize events.
// A non-positive size selects DefaultQueueSize.
func NewBus(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bus{
		subs:      make(map[uint64]*Subscription),
		queueSize: queueSize,
	}
}

// Subscribe returns a subscription for the given kinds. No kinds means
// every kind.
func (b *Bus) Subscribe(kinds ...Kind) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	b.nextID++
	sub := &Subscription{
		id:    b.nextID,
		bus:   b,
		kinds: slices.Clone(kinds),
		ch:    make(chan Event, b.queueSize),
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// Publish delivers ev to every matching subscription without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if !sub.wants(ev.Kind) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close cancels every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	close(sub.ch)
}

// Subscription is one subscriber's queue.
type Subscription struct {
	id      uint64
	bus     *Bus
	kinds   []Kind
	ch      chan Event
	dropped atomic.Uint64
}

func (s *Subscription) wants(k Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, k)
}

// C returns the receive channel. It is closed on Cancel or bus Close.
func (s *Subscription) C() <-chan Event { return s.ch }

// Dropped returns how many events were discarded because the queue was
// full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Cancel removes the subscription from the bus.
func (s *Subscription) Cancel() { s.bus.remove(s) }
