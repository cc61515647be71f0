package raide

import (
	"golang.org/x/exp/slices"
)

// LockState tells whether a track or selection can currently be edited.
type LockState string

const (
	Unlocked LockState = "unlocked"
	Locked   LockState = "locked"
)

// Mark is a single annotated offset on the time axis, in samples. Marks have
// no ordering invariant beyond their numeric value.
type Mark int

// TrackSnapshot is the construction-time state of one track layer. Every
// layer of the same track is created from the same snapshot, so that layers
// agree on geometry and zoom without asking each other.
type TrackSnapshot struct {
	Name            string
	State           LockState
	Selections      []Selection
	AnalysisTypes   []string `yaml:",flow"`
	Marks           []Mark   `yaml:",flow"`
	Cursor          int
	Height          int
	Width           int
	SamplesPerPixel float64 // samples shown per pixel at zoom factor 1
	Zoom            float64
}

func (s *TrackSnapshot) Copy() TrackSnapshot {
	selections := make([]Selection, len(s.Selections))
	copy(selections, s.Selections)
	analysisTypes := make([]string, len(s.AnalysisTypes))
	copy(analysisTypes, s.AnalysisTypes)
	marks := make([]Mark, len(s.Marks))
	copy(marks, s.Marks)
	return TrackSnapshot{
		Name:            s.Name,
		State:           s.State,
		Selections:      selections,
		AnalysisTypes:   analysisTypes,
		Marks:           marks,
		Cursor:          s.Cursor,
		Height:          s.Height,
		Width:           s.Width,
		SamplesPerPixel: s.SamplesPerPixel,
		Zoom:            s.Zoom,
	}
}

// NextMark returns the smallest mark strictly after pos, or ok == false if
// there is none.
func NextMark(marks []Mark, pos int) (mark Mark, ok bool) {
	for _, m := range marks {
		if int(m) > pos && (!ok || m < mark) {
			mark, ok = m, true
		}
	}
	return mark, ok
}

// PrevMark returns the largest mark strictly before pos, or ok == false if
// there is none.
func PrevMark(marks []Mark, pos int) (mark Mark, ok bool) {
	for _, m := range marks {
		if int(m) < pos && (!ok || m > mark) {
			mark, ok = m, true
		}
	}
	return mark, ok
}

// AddMark appends a mark, keeping the set free of duplicates.
func AddMark(marks []Mark, mark Mark) []Mark {
	if slices.Contains(marks, mark) {
		return marks
	}
	return append(marks, mark)
}

// RemoveMark removes a mark if present.
func RemoveMark(marks []Mark, mark Mark) []Mark {
	if i := slices.Index(marks, mark); i >= 0 {
		return slices.Delete(marks, i, i+1)
	}
	return marks
}
