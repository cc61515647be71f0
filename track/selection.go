package track

import (
	"github.com/jlammi/raide"
	"github.com/jlammi/raide/track/types"
)

type (
	// SelectionMachine tracks one in-progress selection drag. It is driven by
	// the four downward selection events (start, move, end, enable) plus the
	// lock commands, and exposes the committed selection.
	//
	// The drag lives between Start and End: Start records the anchor sample,
	// Move updates the provisional end, End commits the range with start and
	// end swapped if the pointer moved backwards. Move or End without a
	// preceding Start is ignored, so a stale event from a slow relay cannot
	// corrupt the state. Start while already dragging restarts the drag; the
	// last Start wins.
	SelectionMachine struct {
		enabled bool
		locked  bool
		anchor  types.OptionalInteger // set while dragging
		current raide.Selection
	}
)

// NewSelectionMachine returns an enabled, unlocked machine with no context.
func NewSelectionMachine() SelectionMachine {
	return SelectionMachine{enabled: true}
}

// SetContext switches the selection name and analysis type the next commit
// applies to.
func (m *SelectionMachine) SetContext(name, analysisType string) {
	m.current.Name = name
	m.current.AnalysisType = analysisType
}

// Start begins a drag at the given sample.
func (m *SelectionMachine) Start(sample int) {
	if !m.enabled || m.locked {
		return
	}
	m.anchor = types.NewOptionalInteger(sample)
	m.current.Range = raide.SampleRange{Start: sample, End: sample}
}

// Move updates the provisional end of the drag. No-op when not dragging.
func (m *SelectionMachine) Move(sample int) {
	if !m.enabled || m.locked || m.anchor.Empty() {
		return
	}
	m.current.Range.End = sample
}

// End commits the drag and returns the committed selection. ok is false when
// there was no drag to commit.
func (m *SelectionMachine) End(sample int) (committed raide.Selection, ok bool) {
	if !m.enabled || m.locked || m.anchor.Empty() {
		return raide.Selection{}, false
	}
	m.current.Range.End = sample
	m.current.Range = m.current.Range.Normalized()
	m.current.State = raide.Unlocked
	m.anchor = types.NewEmptyOptionalInteger()
	return m.current, true
}

// Enable gates the drag transitions. Disabling mid-drag cancels the drag.
func (m *SelectionMachine) Enable(enabled bool) {
	m.enabled = enabled
	if !enabled {
		m.anchor = types.NewEmptyOptionalInteger()
	}
}

// Finish locks the committed selection against further edits.
func (m *SelectionMachine) Finish() {
	m.locked = true
	m.current.State = raide.Locked
	m.anchor = types.NewEmptyOptionalInteger()
}

// Edit unlocks the selection again.
func (m *SelectionMachine) Edit() {
	m.locked = false
	m.current.State = raide.Unlocked
}

func (m *SelectionMachine) Dragging() bool { return !m.anchor.Empty() }
func (m *SelectionMachine) Enabled() bool  { return m.enabled }
func (m *SelectionMachine) Locked() bool   { return m.locked }

// Selection returns the current record: provisional while dragging, committed
// otherwise.
func (m *SelectionMachine) Selection() raide.Selection { return m.current }

// SelectionNode is the layer that owns the selection state of a track. It
// consumes the four drag events broadcast by the coordinator, converts the
// pointer position to samples at the current zoom, and on commit broadcasts
// SetSelection to the layers below it. It also snoops SelectionChange on its
// way up to keep the machine's context current, without consuming it.
type SelectionNode struct {
	*Node
	machine   SelectionMachine
	committed map[string]raide.Selection
}

func NewSelectionNode(snapshot raide.TrackSnapshot) *SelectionNode {
	s := &SelectionNode{
		Node:      NewNode(snapshot),
		machine:   NewSelectionMachine(),
		committed: make(map[string]raide.Selection),
	}
	for _, sel := range snapshot.Selections {
		s.committed[sel.Name] = sel
	}
	if len(snapshot.Selections) > 0 {
		first := snapshot.Selections[0]
		s.machine.SetContext(first.Name, first.AnalysisType)
	}
	if snapshot.State == raide.Locked {
		s.machine.Finish()
	}
	s.HandleUp(SelectionChange, s.onSelectionChange)
	s.HandleUp(FinishSelection, s.onFinish)
	s.HandleUp(EditSelection, s.onEdit)
	s.HandleDown(StartSelection, s.onStart)
	s.HandleDown(MoveSelection, s.onMove)
	s.HandleDown(EndSelection, s.onEnd)
	s.HandleDown(EnableSelection, s.onEnable)
	s.HandleDown(SetSelection, s.onSetSelection)
	s.HandleDown(Redraw, s.onRedraw)
	return s
}

func (s *SelectionNode) onSelectionChange(msg Msg) {
	change := msg.Data.(SelectionChangeMsg)
	s.machine.SetContext(change.Name, change.AnalysisType)
	s.Relay(msg)
}

func (s *SelectionNode) onStart(msg Msg) {
	evt := msg.Data.(PointerMsg)
	s.machine.Start(s.SampleAt(evt.X))
	s.Relay(msg)
}

func (s *SelectionNode) onMove(msg Msg) {
	evt := msg.Data.(PointerMsg)
	s.machine.Move(s.SampleAt(evt.X))
	s.Relay(msg)
}

func (s *SelectionNode) onEnd(msg Msg) {
	evt := msg.Data.(PointerMsg)
	if committed, ok := s.machine.End(s.SampleAt(evt.X)); ok {
		s.committed[committed.Name] = committed
		s.EmitDown(SetSelection, SetSelectionMsg{Selection: committed})
	}
	s.Relay(msg)
}

func (s *SelectionNode) onEnable(msg Msg) {
	s.machine.Enable(msg.Data.(EnableSelectionMsg).Enabled)
	s.Relay(msg)
}

func (s *SelectionNode) onFinish(msg Msg) {
	s.machine.Finish()
	s.Relay(msg)
}

func (s *SelectionNode) onEdit(msg Msg) {
	s.machine.Edit()
	s.Relay(msg)
}

// onSetSelection stores a selection broadcast from above, e.g. when the
// coordinator restores a previously committed selection after a context
// switch. The lock state of the payload is authoritative: restoring a locked
// selection locks the machine, restoring an editable one unlocks it.
func (s *SelectionNode) onSetSelection(msg Msg) {
	sel := msg.Data.(SetSelectionMsg).Selection
	s.committed[sel.Name] = sel
	if sel.Editable() {
		s.machine.Edit()
	} else {
		s.machine.Finish()
	}
	s.machine.SetContext(sel.Name, sel.AnalysisType)
	s.machine.current.Range = sel.Range
	s.machine.current.State = sel.State
	s.Relay(msg)
}

func (s *SelectionNode) onRedraw(msg Msg) {
	s.setZoom(msg.Data.(RedrawMsg).Zoom)
	s.Relay(msg)
}

// Machine exposes the drag state, e.g. for tests and the coordinator.
func (s *SelectionNode) Machine() *SelectionMachine { return &s.machine }

// Committed returns the committed selection by name.
func (s *SelectionNode) Committed(name string) (raide.Selection, bool) {
	sel, ok := s.committed[name]
	return sel, ok
}
