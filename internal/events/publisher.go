// Package events is the fan-out seam between the timer core and whatever
// front end renders it.
package events

import "sync"

// Event is one published notification.
type Event struct {
	Name    string
	Payload any
}

// Publisher delivers events to every current subscriber. Delivery is
// best-effort: a full subscriber buffer drops the event rather than block
// the publisher, and publishing with no subscribers is a no-op.
type Publisher struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewPublisher creates a Publisher with no subscribers.
func NewPublisher() *Publisher {
	return &Publisher{subs: make(map[int]chan Event)}
}

// Subscribe registers a new observer channel. The returned cancel func
// unregisters and closes the channel; calling it more than once is safe.
func (p *Publisher) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextID
	p.nextID++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { p.unsubscribe(id) })
	}
}

func (p *Publisher) unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch, ok := p.subs[id]; ok {
		delete(p.subs, id)
		close(ch)
	}
}

// Publish sends an event to all subscribers without blocking.
func (p *Publisher) Publish(name string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	event := Event{Name: name, Payload: payload}
	for _, ch := range p.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers returns the number of registered observers.
func (p *Publisher) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}
