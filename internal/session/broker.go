package session

import (
	"sync"
	"time"
)

type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
)

// Event reports a change in someone's session.
type Event struct {
	Kind   EventKind
	UserID string
	At     time.Time
}

type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

// Broker fans session events out to subscribers. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
	closed bool
}

func NewBroker() *Broker {
	return &Broker{}
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (b *Broker) Subscribe(fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Broker) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// Close drops every subscriber. Later publishes are no-ops and later
// subscriptions are ignored.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = nil
}
