package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/costgraph/internal/costgraph"
)

func fixture(t *testing.T) *costgraph.SparseMatrix {
	t.Helper()
	// Column 1 is empty; column 2 holds two candidates.
	m, err := costgraph.FromTriplets(3, 3,
		[]int{0, 0, 2},
		[]int{0, 2, 2},
		[]float64{-0.9, -0.5, -0.1},
	)
	if err != nil {
		t.Fatalf("FromTriplets: %v", err)
	}
	return m
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture(t))
	if s.Rows != 3 || s.Cols != 3 || s.NNZ != 3 {
		t.Errorf("shape = %dx%d nnz=%d", s.Rows, s.Cols, s.NNZ)
	}
	if math.Abs(s.Density-1.0/3) > 1e-12 {
		t.Errorf("density = %v", s.Density)
	}
	if s.EmptyColumns != 1 || s.MaxPerColumn != 2 {
		t.Errorf("empty = %d max/col = %d", s.EmptyColumns, s.MaxPerColumn)
	}
	if s.MinCost != -0.9 || s.MaxCost != -0.1 || s.MedianCost != -0.5 {
		t.Errorf("min/median/max = %v/%v/%v", s.MinCost, s.MedianCost, s.MaxCost)
	}
	if math.Abs(s.MeanCost+0.5) > 1e-12 {
		t.Errorf("mean = %v", s.MeanCost)
	}
	// Sample standard deviation of {-0.9, -0.5, -0.1}.
	if math.Abs(s.StdCost-0.4) > 1e-12 {
		t.Errorf("std = %v", s.StdCost)
	}
	if !strings.Contains(s.String(), "nnz=3") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	m, err := costgraph.FromTriplets(4, 2, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(m)
	if s.NNZ != 0 || s.EmptyColumns != 2 || s.MeanCost != 0 {
		t.Errorf("Summarize(empty) = %+v", s)
	}
}

func TestWriteCostHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costs.png")
	if err := WriteCostHistogram(path, fixture(t), "linking costs", 0); err != nil {
		t.Fatalf("WriteCostHistogram: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read plot: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG (%d bytes)", len(data))
	}
}

func TestWriteCostChart(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCostChart(&buf, fixture(t), "joining 0-1"); err != nil {
		t.Fatalf("WriteCostChart: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "joining 0-1", "echarts"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestEmptyGraphIsNotPlotted(t *testing.T) {
	m, err := costgraph.FromTriplets(2, 2, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteCostHistogram(filepath.Join(t.TempDir(), "x.png"), m, "", 10); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("histogram: %v", err)
	}
	if err := WriteCostChart(&bytes.Buffer{}, m, ""); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("chart: %v", err)
	}
}
