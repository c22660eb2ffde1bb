// Package dataset loads sparse-format training files into the in-memory
// Problem consumed by a solver.
//
// The input has one example per line:
//
//	<label> <index1>:<value1> <index2>:<value2> ...
//
// Blank lines and lines whose first token starts with '#' are skipped.
package dataset

import (
	"bufio"
	"io"
	"strconv"
)

// SentinelIndex terminates an example's entries in the shared arena.
const SentinelIndex = -1

// Node is one (index, value) feature entry.
type Node struct {
	Index int
	Value float64
}

// Problem is a loaded training set.
//
// All examples share one arena of nodes. X[i] is the view of example i
// without its sentinel; the arena stores the sentinel right after it.
// Labels holds the distinct label values in first-appearance order and is
// only populated when open-set bookkeeping is active.
type Problem struct {
	Y        []float64
	X        [][]Node
	Labels   []float64
	MaxIndex int

	arena    []Node
	released bool
}

// Len returns the number of examples (l).
func (p *Problem) Len() int {
	return len(p.Y)
}

// NumClasses returns the number of distinct labels tracked while loading,
// or 0 when bookkeeping was off.
func (p *Problem) NumClasses() int {
	return len(p.Labels)
}

// Arena returns the shared feature-entry arena, sentinels included.
// Callers must not modify it.
func (p *Problem) Arena() []Node {
	return p.arena
}

// Entries returns the arena length: the total feature count plus one
// sentinel per example.
func (p *Problem) Entries() int {
	return len(p.arena)
}

// Release drops every buffer owned by the problem. It is safe to call more
// than once.
func (p *Problem) Release() {
	if p.released {
		return
	}
	p.Y = nil
	p.X = nil
	p.Labels = nil
	p.arena = nil
	p.released = true
}

// Released reports whether Release has been called.
func (p *Problem) Released() bool {
	return p.released
}

// WriteTo writes the problem back in the sparse text format. Values are
// written with the shortest representation that parses back to the same
// float64, so loading the output yields an identical problem.
func (p *Problem) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	buf := make([]byte, 0, 256)

	for i, y := range p.Y {
		buf = buf[:0]
		buf = strconv.AppendFloat(buf, y, 'g', -1, 64)
		for _, node := range p.X[i] {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(node.Index), 10)
			buf = append(buf, ':')
			buf = strconv.AppendFloat(buf, node.Value, 'g', -1, 64)
		}
		buf = append(buf, '\n')

		m, err := bw.Write(buf)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
