package track

import (
	"fmt"

	"github.com/jlammi/raide"
)

type (
	// Node is one layer of a track's display stack. It owns an upward and a
	// downward Channel and, once attached, relays every event it receives one
	// hop further in the same direction: events emitted by this node or its
	// descendants surface unchanged at the root, events broadcast by the root
	// surface unchanged at every descendant. Concrete layers register
	// overrides for the kinds they implement and decide per kind whether to
	// keep relaying; default nodes never stop propagation.
	//
	// Wiring is an explicit two-step: construct the node, then Attach it to
	// its parent. The parent link is fixed for the node's lifetime; tearing a
	// node down is Close, which unsubscribes all relays so the former parent
	// can no longer reach it. Attach and Close must not be called from inside
	// a handler while a publish round is in flight.
	Node struct {
		d raide.TrackSnapshot

		up     *Channel
		down   *Channel
		parent *Node

		overUp   map[Kind]Handler
		overDown map[Kind]Handler

		// subscriptions created by Attach, removed by Close: ours on the
		// parent's downward channel, the parent's on our upward channel
		parentSubs []Subscription
		ownSubs    []Subscription

		closed bool
	}
)

// NewNode constructs a detached node from the given snapshot. The node is a
// root until it is attached to a parent.
func NewNode(snapshot raide.TrackSnapshot) *Node {
	return &Node{
		d:        snapshot.Copy(),
		up:       NewChannel(Up),
		down:     NewChannel(Down),
		overUp:   make(map[Kind]Handler),
		overDown: make(map[Kind]Handler),
	}
}

// Attach wires the node under parent: every upward kind this node emits
// becomes visible to the parent's dispatch, and every downward kind the
// parent broadcasts is dispatched to this node. Attaching an already attached
// node, or attaching to a closed parent, is a fatal configuration error.
func (n *Node) Attach(parent *Node) {
	if n.closed {
		panic(fmt.Sprintf("track: attaching closed node %q", n.d.Name))
	}
	if parent == nil || parent.closed {
		panic(fmt.Sprintf("track: node %q attached to a torn-down parent", n.d.Name))
	}
	if n.parent != nil {
		panic(fmt.Sprintf("track: node %q is already attached", n.d.Name))
	}
	n.parent = parent
	for _, kind := range UpKinds() {
		n.ownSubs = append(n.ownSubs, n.up.Subscribe(kind, parent.dispatchUp))
	}
	for _, kind := range DownKinds() {
		n.parentSubs = append(n.parentSubs, parent.down.Subscribe(kind, n.dispatchDown))
	}
}

// Close detaches the node from its parent and marks it dead. Events published
// by the former parent no longer reach it, and its own emissions no longer
// reach the parent. Closing twice is a no-op.
func (n *Node) Close() {
	if n.closed {
		return
	}
	for _, s := range n.parentSubs {
		n.parent.down.Unsubscribe(s)
	}
	for _, s := range n.ownSubs {
		n.up.Unsubscribe(s)
	}
	n.parentSubs = nil
	n.ownSubs = nil
	n.parent = nil
	n.closed = true
}

// Root reports whether the node has no parent.
func (n *Node) Root() bool { return n.parent == nil && !n.closed }

func (n *Node) Closed() bool { return n.closed }

// EmitUp raises an event at this node, travelling towards the root.
func (n *Node) EmitUp(kind Kind, data any) { n.up.Publish(kind, data) }

// EmitDown broadcasts an event from this node to all its descendants.
func (n *Node) EmitDown(kind Kind, data any) { n.down.Publish(kind, data) }

// Relay re-emits msg unchanged one hop further in its own direction. It is
// what every default node does, and what an override calls when it wants to
// act on an event without consuming it.
func (n *Node) Relay(msg Msg) {
	if msg.Kind.Direction() == Up {
		n.up.Publish(msg.Kind, msg.Data)
	} else {
		n.down.Publish(msg.Kind, msg.Data)
	}
}

// HandleUp overrides the dispatch of one upward kind passing through this
// node. The handler replaces the default relay; call Relay from the handler
// to keep the event propagating.
func (n *Node) HandleUp(kind Kind, handler Handler) {
	if kind.Direction() != Up {
		panic(fmt.Sprintf("track: HandleUp with downward kind %v", kind))
	}
	n.overUp[kind] = handler
}

// HandleDown overrides the dispatch of one downward kind, like HandleUp.
func (n *Node) HandleDown(kind Kind, handler Handler) {
	if kind.Direction() != Down {
		panic(fmt.Sprintf("track: HandleDown with upward kind %v", kind))
	}
	n.overDown[kind] = handler
}

// SubscribeUp observes upward events surfacing at this node without taking
// part in the relay chain. The root coordinator uses this to terminate
// events; tests use it to watch traffic.
func (n *Node) SubscribeUp(kind Kind, handler Handler) Subscription {
	return n.up.Subscribe(kind, handler)
}

// SubscribeDown observes downward events broadcast from this node.
func (n *Node) SubscribeDown(kind Kind, handler Handler) Subscription {
	return n.down.Subscribe(kind, handler)
}

// Unsubscribe removes a subscription returned by SubscribeUp or SubscribeDown.
func (n *Node) Unsubscribe(s Subscription) {
	s.ch.Unsubscribe(s)
}

// dispatchUp runs when a child's emission reaches this node.
func (n *Node) dispatchUp(msg Msg) {
	if h := n.overUp[msg.Kind]; h != nil {
		h(msg)
		return
	}
	n.Relay(msg)
}

// dispatchDown runs when the parent's broadcast reaches this node.
func (n *Node) dispatchDown(msg Msg) {
	if h := n.overDown[msg.Kind]; h != nil {
		h(msg)
		return
	}
	n.Relay(msg)
}

// Accessors for the snapshot state every layer carries.

func (n *Node) Name() string                  { return n.d.Name }
func (n *Node) State() raide.LockState        { return n.d.State }
func (n *Node) Cursor() int                   { return n.d.Cursor }
func (n *Node) Zoom() float64                 { return n.d.Zoom }
func (n *Node) Size() (width, height int)     { return n.d.Width, n.d.Height }
func (n *Node) Snapshot() raide.TrackSnapshot { return n.d.Copy() }

func (n *Node) setZoom(zoom float64) { n.d.Zoom = zoom }
func (n *Node) setCursor(smp int)    { n.d.Cursor = smp }

// SampleAt converts a scene x coordinate to a sample offset at the node's
// current zoom.
func (n *Node) SampleAt(x float64) int {
	if n.d.Zoom == 0 {
		return int(x * n.d.SamplesPerPixel)
	}
	return int(x * n.d.SamplesPerPixel / n.d.Zoom)
}

// PixelAt converts a sample offset back to a scene x coordinate.
func (n *Node) PixelAt(sample int) float64 {
	if n.d.SamplesPerPixel == 0 {
		return 0
	}
	return float64(sample) * n.d.Zoom / n.d.SamplesPerPixel
}
