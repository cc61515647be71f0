package track

import (
	"github.com/jlammi/raide"
)

// Track is one track's assembled layer stack. The root node is what the
// Manager wires itself to; below it sit the control surface and the view,
// and below the view the scene layers. All layers are created from the same
// snapshot, so they agree on geometry and zoom from the start.
//
//	root
//	├── Buttons
//	└── View
//	    ├── Waveform
//	    ├── Selection
//	    ├── Marks
//	    └── Cursor
type Track struct {
	root *Node

	Buttons   *ButtonsNode
	View      *ViewNode
	Waveform  *WaveformNode
	Selection *SelectionNode
	Marks     *MarksNode
	Cursor    *CursorNode
}

func NewTrack(snapshot raide.TrackSnapshot) *Track {
	t := &Track{
		root:      NewNode(snapshot),
		Buttons:   NewButtonsNode(snapshot),
		View:      NewViewNode(snapshot),
		Waveform:  NewWaveformNode(snapshot),
		Selection: NewSelectionNode(snapshot),
		Marks:     NewMarksNode(snapshot),
		Cursor:    NewCursorNode(snapshot),
	}
	t.Buttons.Attach(t.root)
	t.View.Attach(t.root)
	t.Waveform.Attach(t.View.Node)
	t.Selection.Attach(t.View.Node)
	t.Marks.Attach(t.View.Node)
	t.Cursor.Attach(t.View.Node)
	return t
}

// Root returns the track's root node, i.e. the one the Manager talks to.
func (t *Track) Root() *Node { return t.root }

func (t *Track) Name() string { return t.root.Name() }

// Close tears the stack down leaves first, so no relay is left dangling.
func (t *Track) Close() {
	t.Cursor.Close()
	t.Marks.Close()
	t.Selection.Close()
	t.Waveform.Close()
	t.View.Close()
	t.Buttons.Close()
	t.root.Close()
}
