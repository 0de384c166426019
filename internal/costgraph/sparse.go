package costgraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// initialFill is the guessed fraction of candidate pairs that survive the filter.
	initialFill = 0.1
	// growthFraction sizes each growth step relative to the current capacity.
	growthFraction = 0.25
)

// SparseMatrix is a column-compressed matrix: the entries of column j are
// RowIdx[ColPtr[j]:ColPtr[j+1]] and Values[ColPtr[j]:ColPtr[j+1]], in the
// order they were appended.
type SparseMatrix struct {
	Rows   int
	Cols   int
	ColPtr []int
	RowIdx []int
	Values []float64
}

// NNZ returns the number of stored entries.
func (m *SparseMatrix) NNZ() int {
	if m == nil || len(m.ColPtr) == 0 {
		return 0
	}
	return m.ColPtr[m.Cols]
}

// Column returns the row indices and values stored for column j.
func (m *SparseMatrix) Column(j int) ([]int, []float64) {
	lo, hi := m.ColPtr[j], m.ColPtr[j+1]
	return m.RowIdx[lo:hi], m.Values[lo:hi]
}

// At returns the value stored at (i, j) and whether it exists.
func (m *SparseMatrix) At(i, j int) (float64, bool) {
	rows, vals := m.Column(j)
	for k, r := range rows {
		if r == i {
			return vals[k], true
		}
	}
	return 0, false
}

// Validate checks the column-compressed invariants.
func (m *SparseMatrix) Validate() error {
	if len(m.ColPtr) != m.Cols+1 {
		return fmt.Errorf("%w: %d column offsets for %d columns", ErrShape, len(m.ColPtr), m.Cols)
	}
	if m.ColPtr[0] != 0 {
		return fmt.Errorf("%w: first column offset is %d", ErrShape, m.ColPtr[0])
	}
	for j := 0; j < m.Cols; j++ {
		if m.ColPtr[j+1] < m.ColPtr[j] {
			return fmt.Errorf("%w: column offsets decrease at column %d", ErrShape, j)
		}
	}
	nnz := m.ColPtr[m.Cols]
	if len(m.RowIdx) != nnz || len(m.Values) != nnz {
		return fmt.Errorf("%w: %d entries, %d rows, %d values", ErrShape, nnz, len(m.RowIdx), len(m.Values))
	}
	for k, r := range m.RowIdx {
		if r < 0 || r >= m.Rows {
			return fmt.Errorf("%w: entry %d has row %d outside 0..%d", ErrShape, k, r, m.Rows-1)
		}
	}
	return nil
}

// Triplets decomposes the matrix into parallel (row, column, value)
// sequences, in storage order.
func (m *SparseMatrix) Triplets() (rows, cols []int, vals []float64) {
	nnz := m.NNZ()
	rows = make([]int, nnz)
	cols = make([]int, nnz)
	vals = make([]float64, nnz)
	copy(rows, m.RowIdx[:nnz])
	copy(vals, m.Values[:nnz])
	for j := 0; j < m.Cols; j++ {
		for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
			cols[k] = j
		}
	}
	return rows, cols, vals
}

// FromTriplets rebuilds a matrix from entries grouped by ascending column.
func FromTriplets(nrows, ncols int, rows, cols []int, vals []float64) (*SparseMatrix, error) {
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, inputErrorf("triplets", "lengths %d/%d/%d differ", len(rows), len(cols), len(vals))
	}
	b, err := NewSparseBuilderWithCapacity(nrows, ncols, len(rows), 1)
	if err != nil {
		return nil, err
	}
	for k := range rows {
		for b.Column() < cols[k] {
			if err := b.StartColumn(b.Column() + 1); err != nil {
				return nil, err
			}
		}
		if b.Column() != cols[k] {
			return nil, fmt.Errorf("%w: triplet %d in column %d after column %d", ErrColumnOrder, k, cols[k], b.Column())
		}
		if err := b.Append(rows[k], vals[k]); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// Dense expands the matrix. Missing entries are filled with fill.
func (m *SparseMatrix) Dense(fill float64) *mat.Dense {
	if m.Rows == 0 || m.Cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.Rows, m.Cols, nil)
	if fill != 0 {
		for i := 0; i < m.Rows; i++ {
			for j := 0; j < m.Cols; j++ {
				d.Set(i, j, fill)
			}
		}
	}
	for j := 0; j < m.Cols; j++ {
		rows, vals := m.Column(j)
		for k, r := range rows {
			d.Set(r, j, vals[k])
		}
	}
	return d
}

// SparseBuilder appends entries column by column into amortised, growable
// column-compressed storage. Columns must be started strictly left to right
// and the builder is single-use.
type SparseBuilder struct {
	rows, cols int
	colPtr     []int
	rowIdx     []int
	values     []float64
	count      int
	col        int
	step       int // fixed growth step; 0 grows by growthFraction of the capacity
	limit      int
	grows      int
	finalized  bool
}

// NewSparseBuilder sizes the buffer for roughly a tenth of all rows×cols
// pairs and grows it by a quarter of its capacity on overflow.
func NewSparseBuilder(rows, cols int) (*SparseBuilder, error) {
	capacity := int(math.Ceil(float64(rows) * float64(cols) * initialFill))
	return newSparseBuilder(rows, cols, capacity, 0)
}

// NewSparseBuilderWithCapacity uses an explicit initial capacity and a
// fixed growth step.
func NewSparseBuilderWithCapacity(rows, cols, capacity, step int) (*SparseBuilder, error) {
	if step < 1 {
		return nil, inputErrorf("step", "growth step must be positive, got %d", step)
	}
	return newSparseBuilder(rows, cols, capacity, step)
}

func newSparseBuilder(rows, cols, capacity, step int) (*SparseBuilder, error) {
	if rows < 0 || cols < 0 {
		return nil, inputErrorf("dims", "negative dimensions %dx%d", rows, cols)
	}
	if capacity < 1 {
		capacity = 1
	}
	limit := rows * cols
	if limit < 1 {
		limit = 1
	}
	if capacity > limit {
		capacity = limit
	}
	return &SparseBuilder{
		rows:   rows,
		cols:   cols,
		colPtr: make([]int, cols+1),
		rowIdx: make([]int, capacity),
		values: make([]float64, capacity),
		col:    -1,
		step:   step,
		limit:  limit,
	}, nil
}

// Len returns the number of entries appended so far.
func (b *SparseBuilder) Len() int { return b.count }

// Cap returns the current backing capacity.
func (b *SparseBuilder) Cap() int { return len(b.values) }

// Grows returns how many times the backing storage was reallocated.
func (b *SparseBuilder) Grows() int { return b.grows }

// Column returns the column currently being written, or -1 before the first.
func (b *SparseBuilder) Column() int { return b.col }

// StartColumn records the start offset of column j. j must be the column
// right after the current one.
func (b *SparseBuilder) StartColumn(j int) error {
	if b.finalized {
		return ErrFinalized
	}
	if j != b.col+1 || j >= b.cols {
		return fmt.Errorf("%w: started column %d after column %d of %d", ErrColumnOrder, j, b.col, b.cols)
	}
	b.col = j
	b.colPtr[j] = b.count
	return nil
}

// Append stores value v at row i of the current column.
func (b *SparseBuilder) Append(i int, v float64) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.col < 0 {
		return fmt.Errorf("%w: append before the first column", ErrColumnOrder)
	}
	if i < 0 || i >= b.rows {
		return inputErrorf("row", "row %d outside 0..%d", i, b.rows-1)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return inputErrorf("value", "non-finite cost %v at (%d, %d)", v, i, b.col)
	}
	if b.count >= len(b.values) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.rowIdx[b.count] = i
	b.values[b.count] = v
	b.count++
	return nil
}

// grow enlarges the backing arrays by one step, copying the written prefix.
func (b *SparseBuilder) grow() error {
	capacity := len(b.values)
	if capacity >= b.limit {
		return fmt.Errorf("%w: %d entries in a %dx%d matrix", ErrCapacity, capacity, b.rows, b.cols)
	}
	step := b.step
	if step == 0 {
		step = int(math.Ceil(float64(capacity) * growthFraction))
	}
	if step < 1 {
		step = 1
	}
	next := capacity + step
	if next > b.limit {
		next = b.limit
	}

	rowIdx := make([]int, next)
	values := make([]float64, next)
	copy(rowIdx, b.rowIdx[:b.count])
	copy(values, b.values[:b.count])
	b.rowIdx, b.values = rowIdx, values
	b.grows++
	return nil
}

// Finalize closes every remaining column and returns the matrix. The
// builder cannot be used afterwards.
func (b *SparseBuilder) Finalize() (*SparseMatrix, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	for j := b.col + 1; j <= b.cols; j++ {
		b.colPtr[j] = b.count
	}
	b.finalized = true
	return &SparseMatrix{
		Rows:   b.rows,
		Cols:   b.cols,
		ColPtr: b.colPtr,
		RowIdx: b.rowIdx[:b.count:b.count],
		Values: b.values[:b.count:b.count],
	}, nil
}
