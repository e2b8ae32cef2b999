package event

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/limelight/internal/event/topic"
)

// Handler receives a published event. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(t topic.Topic, payload any)

// Subscription is a handle for an active subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Pattern returns the topic pattern the subscription matches.
	Pattern() topic.Topic

	// Unsubscribe releases the subscription. Safe to call more than once.
	Unsubscribe()
}

// Bus is a synchronous publish/subscribe event bus keyed by dot topics.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]*subscription
	// order preserves registration order for deterministic delivery.
	order []string
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]*subscription),
	}
}

type subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	bus     *Bus
}

func (s *subscription) ID() string           { return s.id }
func (s *subscription) Pattern() topic.Topic { return s.pattern }
func (s *subscription) Unsubscribe()         { s.bus.unsubscribe(s.id) }

// SubscribeFunc registers a handler for every event whose topic matches the
// given pattern.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn Handler) (Subscription, error) {
	if !pattern.Validate() {
		return nil, ErrInvalidTopic
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	sub := &subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: fn,
		bus:     b,
	}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.order = append(b.order, sub.id)
	b.mu.Unlock()

	return sub, nil
}

// Publish delivers the payload to every matching subscriber, in registration
// order.
func (b *Bus) Publish(t topic.Topic, payload any) {
	if !t.Validate() || t.IsPattern() {
		return
	}

	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.order))
	for _, id := range b.order {
		sub, ok := b.subs[id]
		if !ok {
			continue
		}
		if t.Matches(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range matched {
		sub.handler(t, payload)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return
	}
	delete(b.subs, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Group collects subscriptions for atomic teardown.
type Group struct {
	mu   sync.Mutex
	subs []Subscription
}

// NewGroup creates an empty subscription group.
func NewGroup() *Group {
	return &Group{}
}

// Add appends a subscription to the group.
func (g *Group) Add(sub Subscription) {
	if sub == nil {
		return
	}
	g.mu.Lock()
	g.subs = append(g.subs, sub)
	g.mu.Unlock()
}

// Len returns the number of held subscriptions.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Dispose unsubscribes every held subscription and empties the group.
func (g *Group) Dispose() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
