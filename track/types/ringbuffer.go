package types

// RingBuffer is a generic ring buffer with a backing slice and a cursor. The
// analyzer uses it for sliding measurement windows.
type RingBuffer[T any] struct {
	Buffer []T
	Cursor int
}

func (r *RingBuffer[T]) WriteWrap(values []T) {
	r.Cursor = (r.Cursor + len(values)) % len(r.Buffer)
	a := min(len(values), r.Cursor)                 // how many values fit before the cursor
	b := min(len(values)-a, len(r.Buffer)-r.Cursor) // how many values go to the end of the buffer
	copy(r.Buffer[r.Cursor-a:r.Cursor], values[len(values)-a:])
	copy(r.Buffer[len(r.Buffer)-b:], values[len(values)-a-b:])
}
