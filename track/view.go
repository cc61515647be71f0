package track

import (
	"github.com/jlammi/raide"
)

// ViewNode is the layer tracking which part of the scene is visible. It
// consumes SetView broadcasts and raises ViewChanged when the user scrolls
// the view locally.
type ViewNode struct {
	*Node
	visible raide.Rect
}

func NewViewNode(snapshot raide.TrackSnapshot) *ViewNode {
	v := &ViewNode{Node: NewNode(snapshot)}
	v.visible = raide.Rect{W: float64(snapshot.Width), H: float64(snapshot.Height)}
	v.HandleDown(SetView, v.onSetView)
	v.HandleDown(Update, v.onUpdate)
	v.HandleDown(Redraw, v.onRedraw)
	return v
}

func (v *ViewNode) onSetView(msg Msg) {
	v.visible = msg.Data.(ViewMsg).Rect
	v.Relay(msg)
}

// onUpdate follows the playback cursor: when the cursor leaves the visible
// rect, the view scrolls to keep it in sight and reports the change upward.
func (v *ViewNode) onUpdate(msg Msg) {
	smp := msg.Data.(UpdateMsg).Sample
	v.setCursor(smp)
	x := v.PixelAt(smp)
	if x < v.visible.X || x >= v.visible.Right() {
		v.visible.X = x - v.visible.W/2
		if v.visible.X < 0 {
			v.visible.X = 0
		}
		v.EmitUp(ViewChanged, ViewMsg{Rect: v.visible})
	}
	v.Relay(msg)
}

func (v *ViewNode) onRedraw(msg Msg) {
	v.setZoom(msg.Data.(RedrawMsg).Zoom)
	v.Relay(msg)
}

// Visible returns the rect of the scene currently shown.
func (v *ViewNode) Visible() raide.Rect { return v.visible }

// Scroll moves the view along the time axis and reports the change upward,
// like a user dragging the scroll bar.
func (v *ViewNode) Scroll(dx float64) {
	v.visible.X += dx
	if v.visible.X < 0 {
		v.visible.X = 0
	}
	v.EmitUp(ViewChanged, ViewMsg{Rect: v.visible})
}
