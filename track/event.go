package track

import (
	"reflect"

	"github.com/jlammi/raide"
)

type (
	// Kind identifies one category of event routed through a track tree.
	// Every kind travels in exactly one direction and carries exactly one
	// payload type; see payloadTypes.
	Kind int

	// Direction is the way an event travels through the tree: Up from a leaf
	// towards the root coordinator, Down from the root towards the leaves.
	Direction int

	// Msg is one event in flight: the kind tag plus its payload. Payloads are
	// never copied or rewritten by relays, so a Msg observed at the root is
	// identical to the Msg raised at the leaf.
	Msg struct {
		Kind Kind
		Data any
	}
)

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

const (
	// upward, raised by the input device layer
	MousePress Kind = iota
	MouseRelease
	MouseMove
	MouseDoubleClick
	KeyEnter
	KeyRelease

	// upward, raised by the control surface
	PlayPause
	ZoomIn
	ZoomOut
	Analyze
	FinishSelection
	EditSelection
	SelectionChange
	SkipForward
	SkipBackward
	Delete
	RequestMark

	// upward, raised by the layers themselves
	RequestWaveform
	ViewChanged

	// downward, broadcast from the root coordinator
	Redraw
	StartSelection
	MoveSelection
	EndSelection
	EnableSelection
	SetSelection
	SetMark
	AddWaveform
	SetView
	Update
	SetPlaying

	numKinds
)

// Payload types, one per parameterized Kind. Kinds missing from payloadTypes
// are plain commands and carry nil.
type (
	// PointerMsg is a pointer event in scene coordinates.
	PointerMsg struct {
		Button    int
		Modifiers Modifiers
		X, Y      float64
	}

	// KeyMsg is a key event. Key is the toolkit's name for the key ("Space",
	// "Left", "A", ...).
	KeyMsg struct {
		Key       string
		Modifiers Modifiers
	}

	// SelectionChangeMsg switches the active selection context, e.g. when the
	// user picks a different entry from the selection or analysis dropdowns.
	SelectionChangeMsg struct {
		Name         string
		AnalysisType string
	}

	// RequestWaveformMsg asks the rendering backend for the shape of one
	// block, fitted into Width x Height pixels.
	RequestWaveformMsg struct {
		Block  int
		Width  int
		Height int
	}

	// ViewMsg carries the currently visible part of the scene.
	ViewMsg struct {
		Rect raide.Rect
	}

	// RedrawMsg tells every layer to redraw itself at a new zoom factor.
	RedrawMsg struct {
		Zoom float64
	}

	// SetSelectionMsg broadcasts a committed selection.
	SetSelectionMsg struct {
		Selection raide.Selection
	}

	SetMarkMsg struct {
		Sample int
	}

	AddWaveformMsg struct {
		Waveform raide.Waveform
	}

	// UpdateMsg moves the playback cursor.
	UpdateMsg struct {
		Sample int
	}

	SetPlayingMsg struct {
		Playing bool
	}

	EnableSelectionMsg struct {
		Enabled bool
	}

	// Modifiers is a bit set of the modifier keys held during a pointer or
	// key event.
	Modifiers int
)

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

const (
	ButtonLeft = iota
	ButtonRight
	ButtonMiddle
)

var kindNames = [numKinds]string{
	MousePress:       "MousePress",
	MouseRelease:     "MouseRelease",
	MouseMove:        "MouseMove",
	MouseDoubleClick: "MouseDoubleClick",
	KeyEnter:         "KeyEnter",
	KeyRelease:       "KeyRelease",
	PlayPause:        "PlayPause",
	ZoomIn:           "ZoomIn",
	ZoomOut:          "ZoomOut",
	Analyze:          "Analyze",
	FinishSelection:  "FinishSelection",
	EditSelection:    "EditSelection",
	SelectionChange:  "SelectionChange",
	SkipForward:      "SkipForward",
	SkipBackward:     "SkipBackward",
	Delete:           "Delete",
	RequestMark:      "RequestMark",
	RequestWaveform:  "RequestWaveform",
	ViewChanged:      "ViewChanged",
	Redraw:           "Redraw",
	StartSelection:   "StartSelection",
	MoveSelection:    "MoveSelection",
	EndSelection:     "EndSelection",
	EnableSelection:  "EnableSelection",
	SetSelection:     "SetSelection",
	SetMark:          "SetMark",
	AddWaveform:      "AddWaveform",
	SetView:          "SetView",
	Update:           "Update",
	SetPlaying:       "SetPlaying",
}

var payloadTypes = map[Kind]reflect.Type{
	MousePress:       reflect.TypeOf(PointerMsg{}),
	MouseRelease:     reflect.TypeOf(PointerMsg{}),
	MouseMove:        reflect.TypeOf(PointerMsg{}),
	MouseDoubleClick: reflect.TypeOf(PointerMsg{}),
	KeyEnter:         reflect.TypeOf(KeyMsg{}),
	KeyRelease:       reflect.TypeOf(KeyMsg{}),
	SelectionChange:  reflect.TypeOf(SelectionChangeMsg{}),
	RequestWaveform:  reflect.TypeOf(RequestWaveformMsg{}),
	ViewChanged:      reflect.TypeOf(ViewMsg{}),
	Redraw:           reflect.TypeOf(RedrawMsg{}),
	StartSelection:   reflect.TypeOf(PointerMsg{}),
	MoveSelection:    reflect.TypeOf(PointerMsg{}),
	EndSelection:     reflect.TypeOf(PointerMsg{}),
	EnableSelection:  reflect.TypeOf(EnableSelectionMsg{}),
	SetSelection:     reflect.TypeOf(SetSelectionMsg{}),
	SetMark:          reflect.TypeOf(SetMarkMsg{}),
	AddWaveform:      reflect.TypeOf(AddWaveformMsg{}),
	SetView:          reflect.TypeOf(ViewMsg{}),
	Update:           reflect.TypeOf(UpdateMsg{}),
	SetPlaying:       reflect.TypeOf(SetPlayingMsg{}),
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

// Direction returns the direction k travels in.
func (k Kind) Direction() Direction {
	if k < Redraw {
		return Up
	}
	return Down
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(invalid)"
	}
	return kindNames[k]
}

// UpKinds returns all kinds travelling from the leaves to the root.
func UpKinds() []Kind {
	kinds := make([]Kind, 0, Redraw)
	for k := MousePress; k < Redraw; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// DownKinds returns all kinds travelling from the root to the leaves.
func DownKinds() []Kind {
	kinds := make([]Kind, 0, numKinds-Redraw)
	for k := Redraw; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
