package track

import (
	"fmt"
	"reflect"
)

type (
	// Channel is a synchronous publish/subscribe bus for the event kinds of
	// one direction. Publish delivers to every subscriber of that kind, in
	// registration order, on the publishing goroutine, before Publish
	// returns. The subscriber list is snapshotted at publish time, so a
	// handler may itself publish, subscribe or unsubscribe without
	// deadlocking or starving the other subscribers of the same round.
	//
	// Subscribing the same handler twice creates two independent
	// registrations; unsubscribing one of them leaves the other live.
	//
	// Publishing or subscribing a kind the channel's direction does not
	// carry, or publishing a payload of the wrong type, is a programming
	// error and panics.
	Channel struct {
		dir    Direction
		subs   [numKinds][]subscriber
		nextID uint64
	}

	// Handler receives one event. It must not block; dispatch is synchronous.
	Handler func(Msg)

	// Subscription identifies one registration on a Channel, to be passed
	// back to Unsubscribe.
	Subscription struct {
		ch   *Channel
		kind Kind
		id   uint64
	}

	subscriber struct {
		id      uint64
		handler Handler
	}
)

// NewChannel creates a channel carrying the kinds of the given direction.
func NewChannel(dir Direction) *Channel {
	return &Channel{dir: dir}
}

func (c *Channel) Direction() Direction { return c.dir }

func (c *Channel) check(kind Kind) {
	if !kind.Valid() {
		panic(fmt.Sprintf("track: unregistered event kind %d", int(kind)))
	}
	if kind.Direction() != c.dir {
		panic(fmt.Sprintf("track: event kind %v is a %v kind, published on a %v channel", kind, kind.Direction(), c.dir))
	}
}

// Subscribe registers handler for kind and returns the subscription handle.
func (c *Channel) Subscribe(kind Kind, handler Handler) Subscription {
	c.check(kind)
	if handler == nil {
		panic(fmt.Sprintf("track: nil handler subscribed for %v", kind))
	}
	c.nextID++
	id := c.nextID
	c.subs[kind] = append(c.subs[kind], subscriber{id: id, handler: handler})
	return Subscription{ch: c, kind: kind, id: id}
}

// Unsubscribe removes the registration s refers to. Removing a subscription
// twice is a no-op. The removal is copy-on-write, so a publish round already
// in flight still delivers to its snapshot of the list.
func (c *Channel) Unsubscribe(s Subscription) {
	if s.ch != c {
		return
	}
	old := c.subs[s.kind]
	for i, sub := range old {
		if sub.id == s.id {
			next := make([]subscriber, 0, len(old)-1)
			next = append(next, old[:i]...)
			next = append(next, old[i+1:]...)
			c.subs[s.kind] = next
			return
		}
	}
}

// Publish delivers data to every current subscriber of kind. With zero
// subscribers it is a no-op.
func (c *Channel) Publish(kind Kind, data any) {
	c.check(kind)
	want := payloadTypes[kind]
	if want == nil {
		if data != nil {
			panic(fmt.Sprintf("track: event kind %v carries no payload, got %T", kind, data))
		}
	} else if reflect.TypeOf(data) != want {
		panic(fmt.Sprintf("track: event kind %v carries %v, got %T", kind, want, data))
	}
	msg := Msg{Kind: kind, Data: data}
	snapshot := c.subs[kind]
	for _, sub := range snapshot {
		sub.handler(msg)
	}
}

// NumSubscribers returns how many registrations kind currently has.
func (c *Channel) NumSubscribers(kind Kind) int {
	c.check(kind)
	return len(c.subs[kind])
}
