// Package assign picks one source per target from a cost graph. It is a
// reference consumer of the costgraph builders: every target column either
// takes one of its candidate rows or its own alternative, and no source row
// is taken twice.
package assign

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/costgraph/internal/costgraph"
)

// ErrNoGraph is returned when Solve is given a nil matrix.
var ErrNoGraph = errors.New("assign: nil cost graph")

// Solve returns, for each target column of m, the source row it is assigned
// to or -1 when the alternative wins. alt holds the per-column alternative
// cost; nil means 0 for every column, which loses to any candidate a builder
// can emit.
//
// The problem is laid out as a targets × (sources + targets) matrix whose
// right block carries each target's alternative on its diagonal.
func Solve(m *costgraph.SparseMatrix, alt []float64) ([]int, error) {
	if m == nil {
		return nil, ErrNoGraph
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if alt != nil && len(alt) != m.Cols {
		return nil, fmt.Errorf("assign: %d alternative costs for %d targets", len(alt), m.Cols)
	}
	for i, a := range alt {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("assign: alternative cost %d is %v", i, a)
		}
	}

	n, rows := m.Cols, m.Rows
	if n == 0 {
		return []int{}, nil
	}

	c := mat.NewDense(n, rows+n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < rows+n; j++ {
			c.Set(i, j, forbidden)
		}
		if alt != nil {
			c.Set(i, rows+i, alt[i])
		} else {
			c.Set(i, rows+i, 0)
		}
	}
	if rows > 0 {
		left := c.Slice(0, n, 0, rows).(*mat.Dense)
		left.Copy(m.Dense(forbidden).T())
	}

	cols := hungarian(c)
	out := make([]int, n)
	for i, j := range cols {
		if j < 0 || j >= rows {
			out[i] = -1
			continue
		}
		out[i] = j
	}
	return out, nil
}

// Total is the summed cost of an assignment returned by Solve.
func Total(m *costgraph.SparseMatrix, alt []float64, sources []int) float64 {
	var sum float64
	for i, j := range sources {
		if j < 0 {
			if alt != nil {
				sum += alt[i]
			}
			continue
		}
		if v, ok := m.At(j, i); ok {
			sum += v
		}
	}
	return sum
}
