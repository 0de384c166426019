package costgraph

import (
	"fmt"
	"time"
)

// Mode selects what a build produces.
type Mode int

const (
	// ModeCosts emits the full sparse cost matrix.
	ModeCosts Mode = iota
	// ModeFeasibility emits one flag per target: does any source pass the filter.
	ModeFeasibility
)

func (m Mode) String() string {
	switch m {
	case ModeCosts:
		return "costs"
	case ModeFeasibility:
		return "feasibility"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "costs" or "feasibility" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "costs", "":
		return ModeCosts, nil
	case "feasibility":
		return ModeFeasibility, nil
	}
	return 0, inputErrorf("mode", "unknown mode %q", s)
}

// Result is the output of one build. Costs and Alternative are set in
// ModeCosts (Alternative only by joining and splitting), Feasible in
// ModeFeasibility.
type Result struct {
	Builder     string
	Mode        Mode
	Costs       *SparseMatrix
	Alternative []float64
	Feasible    []bool
	Grows       int
}

// CostBuilder is implemented by the linking, bridging, joining and
// splitting builders.
type CostBuilder interface {
	Name() string
	Build(source, target *ParticleSet, mode Mode) (*Result, error)
}

// column carries the per-target context a builder computes once before
// scanning the source rows.
type column struct {
	signal  float64 // target signal
	context float64 // predecessor or successor signal
}

// scan is the shared column-outer, row-inner driver behind every builder.
type scan struct {
	name   string
	source *ParticleSet
	target *ParticleSet
	mode   Mode
	radius float64
	index  bool

	// prepare is called once per target column; nil means no context.
	prepare func(i int) column
	// alternative scores the no-event option of a column; nil when the
	// builder has no alternative vector.
	alternative func(i int, c column) float64
	// pair returns the cost of linking source j to target i and whether the
	// pair passes every test.
	pair func(i, j int, c column) (float64, bool)
}

func (s *scan) run() (*Result, error) {
	start := time.Now()
	m, n := s.source.Len(), s.target.Len()
	rows := newRowSource(s.source, s.radius, s.index)
	res := &Result{Builder: s.name, Mode: s.mode}

	if s.mode == ModeFeasibility {
		res.Feasible = make([]bool, n)
		count := 0
		for i := 0; i < n; i++ {
			var c column
			if s.prepare != nil {
				c = s.prepare(i)
			}
			for _, j := range rows.rows(s.target, i) {
				if _, ok := s.pair(i, j, c); ok {
					res.Feasible[i] = true
					count++
					break
				}
			}
		}
		Diagf("%s: feasibility %dx%d, %d feasible targets in %s", s.name, m, n, count, time.Since(start))
		return res, nil
	}

	b, err := NewSparseBuilder(m, n)
	if err != nil {
		return nil, err
	}
	if s.alternative != nil {
		res.Alternative = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if err := b.StartColumn(i); err != nil {
			return nil, err
		}
		var c column
		if s.prepare != nil {
			c = s.prepare(i)
		}
		if s.alternative != nil {
			res.Alternative[i] = s.alternative(i, c)
		}
		for _, j := range rows.rows(s.target, i) {
			cost, ok := s.pair(i, j, c)
			if !ok {
				continue
			}
			if err := b.Append(j, cost); err != nil {
				Opsf("%s: aborted at column %d: %v", s.name, i, err)
				return nil, fmt.Errorf("%s: %w", s.name, err)
			}
		}
		Tracef("%s: column %d holds %d candidates", s.name, i, b.Len()-b.colPtr[i])
	}
	costs, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	res.Costs = costs
	res.Grows = b.Grows()
	Diagf("%s: costs %dx%d, nnz=%d grows=%d in %s", s.name, m, n, costs.NNZ(), b.Grows(), time.Since(start))
	return res, nil
}

// checkMode rejects Mode values outside the declared constants.
func checkMode(mode Mode) error {
	if mode != ModeCosts && mode != ModeFeasibility {
		return inputErrorf("mode", "unknown mode %d", int(mode))
	}
	return nil
}

// checkSets validates both sets and, when needed, their frame columns.
func checkSets(source, target *ParticleSet, needFrames, needIndex bool) error {
	if err := source.Validate("source"); err != nil {
		return err
	}
	if err := target.Validate("target"); err != nil {
		return err
	}
	for _, in := range []struct {
		name string
		set  *ParticleSet
	}{{"source", source}, {"target", target}} {
		if needFrames && in.set.Frame == nil {
			return inputErrorf(in.name, "frame column required")
		}
		if needIndex && in.set.Index == nil {
			return inputErrorf(in.name, "index column required")
		}
	}
	return nil
}
