package track

import (
	"golang.org/x/exp/slices"

	"github.com/jlammi/raide"
)

// MarksNode is the layer holding the marks annotated onto the time axis. It
// consumes SetMark broadcasts and answers next/previous lookups for the skip
// commands.
type MarksNode struct {
	*Node
	marks []raide.Mark
}

func NewMarksNode(snapshot raide.TrackSnapshot) *MarksNode {
	m := &MarksNode{
		Node:  NewNode(snapshot),
		marks: slices.Clone(snapshot.Marks),
	}
	m.HandleDown(SetMark, m.onSetMark)
	m.HandleDown(Update, m.onUpdate)
	return m
}

func (m *MarksNode) onSetMark(msg Msg) {
	m.marks = raide.AddMark(m.marks, raide.Mark(msg.Data.(SetMarkMsg).Sample))
	m.Relay(msg)
}

func (m *MarksNode) onUpdate(msg Msg) {
	m.setCursor(msg.Data.(UpdateMsg).Sample)
	m.Relay(msg)
}

// Marks returns the current mark set in ascending order.
func (m *MarksNode) Marks() []raide.Mark {
	marks := slices.Clone(m.marks)
	slices.Sort(marks)
	return marks
}

// Remove deletes a mark if present.
func (m *MarksNode) Remove(mark raide.Mark) {
	m.marks = raide.RemoveMark(m.marks, mark)
}

// Next returns the first mark after the given sample.
func (m *MarksNode) Next(sample int) (raide.Mark, bool) {
	return raide.NextMark(m.marks, sample)
}

// Prev returns the last mark before the given sample.
func (m *MarksNode) Prev(sample int) (raide.Mark, bool) {
	return raide.PrevMark(m.marks, sample)
}
