package costgraph

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

// minIndexedRows is the source-set size below which a plain scan is cheaper
// than building the tree.
const minIndexedRows = 64

// candidateIndex is an R-tree over source positions used to skip rows that
// cannot pass the distance test. Query results are sorted so rows are still
// visited in ascending order and the output matches a plain scan.
type candidateIndex struct {
	tree rtree.RTreeG[int]
	buf  []int
}

func newCandidateIndex(source *ParticleSet) *candidateIndex {
	idx := &candidateIndex{}
	for j := 0; j < source.Len(); j++ {
		x, y := source.X[j], source.Y[j]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		p := [2]float64{x, y}
		idx.tree.Insert(p, p, j)
	}
	return idx
}

// within returns the rows inside the box of half-width r around (x, y).
// The returned slice is reused by the next call.
func (c *candidateIndex) within(x, y, r float64) []int {
	c.buf = c.buf[:0]
	if math.IsNaN(x) || math.IsNaN(y) {
		return c.buf
	}
	c.tree.Search([2]float64{x - r, y - r}, [2]float64{x + r, y + r},
		func(_, _ [2]float64, j int) bool {
			c.buf = append(c.buf, j)
			return true
		})
	sort.Ints(c.buf)
	return c.buf
}

// rowSource yields the candidate rows for a target column.
type rowSource struct {
	n     int
	index *candidateIndex
	r     float64
	all   []int
}

func newRowSource(source *ParticleSet, radius float64, enabled bool) *rowSource {
	rs := &rowSource{n: source.Len()}
	if enabled && rs.n >= minIndexedRows && radius > 0 && !math.IsInf(radius, 0) && !math.IsNaN(radius) {
		rs.index = newCandidateIndex(source)
		// Pad the box so points on its boundary survive rounding.
		rs.r = radius * (1 + 1e-9)
		return rs
	}
	rs.all = make([]int, rs.n)
	for j := range rs.all {
		rs.all[j] = j
	}
	return rs
}

func (rs *rowSource) rows(target *ParticleSet, i int) []int {
	if rs.index == nil {
		return rs.all
	}
	return rs.index.within(target.X[i], target.Y[i], rs.r)
}
