package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/costgraph/internal/costgraph"
)

// ErrEmptyGraph is returned when there are no costs to plot.
var ErrEmptyGraph = errors.New("report: cost graph has no entries")

// DefaultBins is the histogram bin count used by the CLI.
const DefaultBins = 40

// WriteCostHistogram saves a histogram of the stored costs of m to path. The
// image format follows the file extension (.png, .svg, .pdf).
func WriteCostHistogram(path string, m *costgraph.SparseMatrix, title string, bins int) error {
	if m.NNZ() == 0 {
		return ErrEmptyGraph
	}
	if bins < 1 {
		bins = DefaultBins
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Cost"
	p.Y.Label.Text = "Candidates"

	h, err := plotter.NewHist(plotter.Values(m.Values), bins)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// viridis is the colour ramp used for cost values.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteCostChart renders an interactive HTML scatter of the candidate pairs
// of m: target column on x, source row on y, coloured by cost.
func WriteCostChart(w io.Writer, m *costgraph.SparseMatrix, title string) error {
	if m.NNZ() == 0 {
		return ErrEmptyGraph
	}
	s := Summarize(m)

	data := make([]opts.ScatterData, 0, s.NNZ)
	for j := 0; j < m.Cols; j++ {
		rows, vals := m.Column(j)
		for k, i := range rows {
			data = append(data, opts.ScatterData{Value: []interface{}{j, i, vals[k]}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d nnz=%d", s.Rows, s.Cols, s.NNZ)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: m.Cols, Name: "target", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: m.Rows, Name: "source", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(s.MinCost),
			Max:        float32(s.MaxCost),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("cost", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
