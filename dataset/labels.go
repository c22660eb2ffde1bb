package dataset

// initialLabelCapacity is the starting size of the tracker buffer.
const initialLabelCapacity = 256

// LabelTracker accumulates distinct label values in order of first
// appearance using one growable buffer and a reverse linear scan.
//
// Each Add writes the value into slot n, then scans slots n-1..0. A match
// (exact ==, no tolerance) cancels the slot by decrementing n before the
// unconditional increment, so n only grows for unseen values. Slots past n
// may hold stale copies and are never exposed.
//
// The zero value is ready to use.
type LabelTracker struct {
	buf []float64
	n   int
}

// Add records one label value.
func (t *LabelTracker) Add(v float64) {
	if t.n >= len(t.buf) {
		size := 2 * len(t.buf)
		if size == 0 {
			size = initialLabelCapacity
		}
		grown := make([]float64, size)
		copy(grown, t.buf[:t.n])
		t.buf = grown
	}

	t.buf[t.n] = v
	for i := t.n - 1; i >= 0; i-- {
		if t.buf[i] == v {
			t.n--
			break
		}
	}
	t.n++
}

// Len returns the number of distinct values seen so far.
func (t *LabelTracker) Len() int {
	return t.n
}

// Labels returns a copy of the distinct values in first-appearance order.
func (t *LabelTracker) Labels() []float64 {
	out := make([]float64, t.n)
	copy(out, t.buf[:t.n])
	return out
}
