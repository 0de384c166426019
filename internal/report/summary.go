// Package report summarises and plots cost graphs for tuning runs.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/costgraph/internal/costgraph"
)

// Summary holds the shape and cost statistics of one cost graph.
type Summary struct {
	Rows         int     `json:"rows"`
	Cols         int     `json:"cols"`
	NNZ          int     `json:"nnz"`
	Density      float64 `json:"density"`
	EmptyColumns int     `json:"empty_columns"`
	MaxPerColumn int     `json:"max_per_column"`
	MinCost      float64 `json:"min_cost"`
	MaxCost      float64 `json:"max_cost"`
	MeanCost     float64 `json:"mean_cost"`
	StdCost      float64 `json:"std_cost"`
	MedianCost   float64 `json:"median_cost"`
}

// Summarize computes the Summary of m. Cost statistics are zero when m has
// no entries.
func Summarize(m *costgraph.SparseMatrix) Summary {
	s := Summary{Rows: m.Rows, Cols: m.Cols, NNZ: m.NNZ()}
	if cells := m.Rows * m.Cols; cells > 0 {
		s.Density = float64(s.NNZ) / float64(cells)
	}
	for j := 0; j < m.Cols; j++ {
		n := m.ColPtr[j+1] - m.ColPtr[j]
		if n == 0 {
			s.EmptyColumns++
		}
		if n > s.MaxPerColumn {
			s.MaxPerColumn = n
		}
	}
	if s.NNZ == 0 {
		return s
	}

	vals := append([]float64(nil), m.Values...)
	sort.Float64s(vals)
	s.MinCost = floats.Min(vals)
	s.MaxCost = floats.Max(vals)
	s.MeanCost, s.StdCost = stat.MeanStdDev(vals, nil)
	s.MedianCost = stat.Quantile(0.5, stat.Empirical, vals, nil)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%dx%d nnz=%d density=%.4f empty=%d max/col=%d cost[min=%.4g median=%.4g max=%.4g mean=%.4g std=%.4g]",
		s.Rows, s.Cols, s.NNZ, s.Density, s.EmptyColumns, s.MaxPerColumn,
		s.MinCost, s.MedianCost, s.MaxCost, s.MeanCost, s.StdCost)
}
