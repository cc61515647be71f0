package track

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jlammi/raide"
)

// ButtonsNode is the control-surface layer of a track: every button, switch
// and dropdown of the track header maps to an Action or Bool here, and
// performing one raises the corresponding upward command. The node also
// mirrors the broadcasts the buttons display, i.e. the transport state of the
// play/pause switch and the lock state of the lock symbol.
type ButtonsNode struct {
	*Node
	playing   bool
	selection raide.Selection
}

var titleCaser = cases.Title(language.English)

func NewButtonsNode(snapshot raide.TrackSnapshot) *ButtonsNode {
	b := &ButtonsNode{Node: NewNode(snapshot)}
	if len(snapshot.Selections) > 0 {
		b.selection = snapshot.Selections[0]
	}
	b.HandleDown(SetPlaying, b.onSetPlaying)
	b.HandleDown(SetSelection, b.onSetSelection)
	return b
}

func (b *ButtonsNode) onSetPlaying(msg Msg) {
	b.playing = msg.Data.(SetPlayingMsg).Playing
	b.Relay(msg)
}

func (b *ButtonsNode) onSetSelection(msg Msg) {
	b.selection = msg.Data.(SetSelectionMsg).Selection
	b.Relay(msg)
}

func (b *ButtonsNode) Playing() bool              { return b.playing }
func (b *ButtonsNode) Selection() raide.Selection { return b.selection }

// PlayingSwitch exposes the transport state as a toggleable switch. Setting it
// raises PlayPause, so the coordinator stays authoritative; the new value
// arrives back through the SetPlaying broadcast before SetValue returns.
func (b *ButtonsNode) PlayingSwitch() Bool { return MakeBool((*playingSwitch)(b)) }

type playingSwitch ButtonsNode

func (v *playingSwitch) Value() bool    { return v.playing }
func (v *playingSwitch) SetValue(value bool) {
	(*ButtonsNode)(v).EmitUp(PlayPause, nil)
}

// SelectionTitle returns the display caption for the current selection, with
// the analysis type title-cased the way the dropdowns show it.
func (b *ButtonsNode) SelectionTitle() string {
	if b.selection.Name == "" {
		return ""
	}
	return b.selection.Name + " (" + titleCaser.String(b.selection.AnalysisType) + ")"
}

// ChangeSelection is the dropdown handler: it announces the new selection
// context upward.
func (b *ButtonsNode) ChangeSelection(name, analysisType string) {
	b.EmitUp(SelectionChange, SelectionChangeMsg{Name: name, AnalysisType: analysisType})
}

// Actions

type playPause ButtonsNode

func (b *ButtonsNode) PlayPause() Action { return MakeAction((*playPause)(b)) }
func (a *playPause) Do()                 { (*ButtonsNode)(a).EmitUp(PlayPause, nil) }

type zoomIn ButtonsNode

func (b *ButtonsNode) ZoomIn() Action { return MakeAction((*zoomIn)(b)) }
func (a *zoomIn) Do()                 { (*ButtonsNode)(a).EmitUp(ZoomIn, nil) }

type zoomOut ButtonsNode

func (b *ButtonsNode) ZoomOut() Action { return MakeAction((*zoomOut)(b)) }
func (a *zoomOut) Do()                 { (*ButtonsNode)(a).EmitUp(ZoomOut, nil) }

type analyze ButtonsNode

func (b *ButtonsNode) Analyze() Action { return MakeAction((*analyze)(b)) }
func (a *analyze) Enabled() bool       { return a.selection.Range.Len() > 0 }
func (a *analyze) Do()                 { (*ButtonsNode)(a).EmitUp(Analyze, nil) }

type finishSelection ButtonsNode

func (b *ButtonsNode) FinishSelection() Action { return MakeAction((*finishSelection)(b)) }
func (a *finishSelection) Enabled() bool       { return a.selection.Editable() }
func (a *finishSelection) Do()                 { (*ButtonsNode)(a).EmitUp(FinishSelection, nil) }

type editSelection ButtonsNode

func (b *ButtonsNode) EditSelection() Action { return MakeAction((*editSelection)(b)) }
func (a *editSelection) Enabled() bool       { return !a.selection.Editable() }
func (a *editSelection) Do()                 { (*ButtonsNode)(a).EmitUp(EditSelection, nil) }

type skipForward ButtonsNode

func (b *ButtonsNode) SkipForward() Action { return MakeAction((*skipForward)(b)) }
func (a *skipForward) Do()                 { (*ButtonsNode)(a).EmitUp(SkipForward, nil) }

type skipBackward ButtonsNode

func (b *ButtonsNode) SkipBackward() Action { return MakeAction((*skipBackward)(b)) }
func (a *skipBackward) Do()                 { (*ButtonsNode)(a).EmitUp(SkipBackward, nil) }

type deleteTrack ButtonsNode

func (b *ButtonsNode) DeleteTrack() Action { return MakeAction((*deleteTrack)(b)) }
func (a *deleteTrack) Do()                 { (*ButtonsNode)(a).EmitUp(Delete, nil) }

type requestMark ButtonsNode

func (b *ButtonsNode) RequestMark() Action { return MakeAction((*requestMark)(b)) }
func (a *requestMark) Do()                 { (*ButtonsNode)(a).EmitUp(RequestMark, nil) }
