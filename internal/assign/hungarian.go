package assign

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// forbidden marks a cell the solver must never pick.
const forbidden = 1e18

// hungarian solves the rectangular assignment problem for an r×k cost matrix
// with r ≤ k using Kuhn-Munkres with potentials. It returns cols[i], the
// column given to row i, or -1 when the only option left was a forbidden
// cell.
func hungarian(c *mat.Dense) []int {
	r, k := c.Dims()
	if r > k {
		panic("assign: more rows than columns")
	}

	// 1-indexed; column 0 is the virtual start of each augmenting path.
	const inf = math.MaxFloat64 / 2
	u := make([]float64, r+1)
	v := make([]float64, k+1)
	p := make([]int, k+1) // p[j] = row holding column j
	way := make([]int, k+1)
	minv := make([]float64, k+1)
	used := make([]bool, k+1)

	for i := 1; i <= r; i++ {
		p[0] = i
		j0 := 0
		for j := 1; j <= k; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= k; j++ {
				if used[j] {
					continue
				}
				cur := c.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				break
			}
			for j := 0; j <= k; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	cols := make([]int, r)
	for i := range cols {
		cols[i] = -1
	}
	for j := 1; j <= k; j++ {
		if p[j] > 0 && c.At(p[j]-1, j-1) < forbidden {
			cols[p[j]-1] = j - 1
		}
	}
	return cols
}
