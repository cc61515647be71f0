package track

import (
	"github.com/jlammi/raide"
)

// CursorNode is the layer mirroring the playback position and transport
// state, so the cursor can be drawn on every track without asking the
// coordinator.
type CursorNode struct {
	*Node
	playing bool
}

func NewCursorNode(snapshot raide.TrackSnapshot) *CursorNode {
	c := &CursorNode{Node: NewNode(snapshot)}
	c.HandleDown(Update, c.onUpdate)
	c.HandleDown(SetPlaying, c.onSetPlaying)
	c.HandleDown(Redraw, c.onRedraw)
	return c
}

func (c *CursorNode) onUpdate(msg Msg) {
	c.setCursor(msg.Data.(UpdateMsg).Sample)
	c.Relay(msg)
}

func (c *CursorNode) onSetPlaying(msg Msg) {
	c.playing = msg.Data.(SetPlayingMsg).Playing
	c.Relay(msg)
}

func (c *CursorNode) onRedraw(msg Msg) {
	c.setZoom(msg.Data.(RedrawMsg).Zoom)
	c.Relay(msg)
}

func (c *CursorNode) Playing() bool { return c.playing }
