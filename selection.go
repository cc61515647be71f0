package raide

// SampleRange is a half-open-free, inclusive range of samples on the time
// axis. A committed range always has Start <= End; while a drag is in
// progress the order is whatever the pointer did.
type SampleRange struct {
	Start int
	End   int
}

// Normalized returns the range with Start and End swapped if the drag moved
// backwards, so that Start <= End always holds.
func (r SampleRange) Normalized() SampleRange {
	if r.Start > r.End {
		return SampleRange{Start: r.End, End: r.Start}
	}
	return r
}

func (r SampleRange) Len() int {
	n := r.Normalized()
	return n.End - n.Start
}

func (r SampleRange) Contains(sample int) bool {
	n := r.Normalized()
	return sample >= n.Start && sample <= n.End
}

// Selection is one named region of a track, associated with the analysis that
// should be run on it and a lock state governing whether it may still be
// edited.
type Selection struct {
	Name         string
	AnalysisType string
	Range        SampleRange
	State        LockState
}

func (s Selection) Editable() bool { return s.State != Locked }
