// Package events defines the domain events emitted by command handlers and
// the publishers delivering them.
package events

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Event is a fact about something that happened in the shop.
type Event interface {
	EventName() string
}

// CartPickedUp is emitted when a new cart is created.
type CartPickedUp struct {
	Token       string `json:"token"`
	ChannelCode string `json:"channel"`
}

func (CartPickedUp) EventName() string { return "cart.picked_up" }

// OrderCompleted is emitted when checkout completes.
type OrderCompleted struct {
	Token         string    `json:"token"`
	Number        string    `json:"number"`
	CustomerEmail string    `json:"customerEmail"`
	Total         int64     `json:"total"`
	Currency      string    `json:"currency"`
	CompletedAt   time.Time `json:"completedAt"`
}

func (OrderCompleted) EventName() string { return "order.completed" }

// CustomerRegistered is emitted on registration. VerificationToken is empty
// when the channel does not require verification.
type CustomerRegistered struct {
	Email             string `json:"email"`
	ChannelCode       string `json:"channel"`
	VerificationToken string `json:"verificationToken,omitempty"`
}

func (CustomerRegistered) EventName() string { return "customer.registered" }

// CustomerEnabled is emitted when an account gets enabled.
type CustomerEnabled struct {
	Email string `json:"email"`
}

func (CustomerEnabled) EventName() string { return "customer.enabled" }

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Multi delivers every event to all publishers, even when one of them fails.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the names of the recorded events in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.EventName())
	}
	return names
}

// =============================================================================
// Collection during command handling
// =============================================================================

type collectorKey struct{}

// Collector buffers events raised while a command is handled so they can be
// published once its changes are committed.
type Collector struct {
	mu     sync.Mutex
	events []Event
	parent *Collector
}

// WithCollector returns a context carrying a fresh collector, nested in the
// collector ctx already carries, if any.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	parent, _ := ctx.Value(collectorKey{}).(*Collector)
	c := &Collector{parent: parent}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// Root reports whether c is the outermost collector. Only its events are
// due for publication.
func (c *Collector) Root() bool {
	return c.parent == nil
}

// Promote hands the buffered events to the enclosing collector.
func (c *Collector) Promote() {
	if c.parent == nil {
		return
	}
	pending := c.Events()
	c.parent.mu.Lock()
	c.parent.events = append(c.parent.events, pending...)
	c.parent.mu.Unlock()
}

// Record buffers e in the collector carried by ctx. Without a collector the
// event is dropped.
func Record(ctx context.Context, e Event) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	if !ok {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns the buffered events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}
