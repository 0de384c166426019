// Command costgraph builds one cost graph between two frame ranges of a
// movie and optionally stores, plots and solves it.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/costgraph/internal/assign"
	"github.com/banshee-data/costgraph/internal/config"
	"github.com/banshee-data/costgraph/internal/costgraph"
	"github.com/banshee-data/costgraph/internal/report"
	"github.com/banshee-data/costgraph/internal/store"
	"github.com/banshee-data/costgraph/internal/version"
)

// options holds the parsed command line.
type options struct {
	input      string
	configPath string
	builder    string
	mode       string
	sourceFrom int
	sourceTo   int
	targetFrom int
	targetTo   int
	dbPath     string
	label      string
	list       bool
	plotPath   string
	htmlPath   string
	solve      bool
	verbose    bool
	trace      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("costgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.input, "input", "", "Movie JSON file (frames and links)")
	fs.StringVar(&o.configPath, "config", "", "Tuning config JSON (defaults when empty)")
	fs.StringVar(&o.builder, "builder", "linking", "Builder: linking, bridging, joining or splitting")
	fs.StringVar(&o.mode, "mode", "costs", "Output: costs or feasibility")
	fs.IntVar(&o.sourceFrom, "source-from", 0, "First source frame")
	fs.IntVar(&o.sourceTo, "source-to", 0, "Last source frame")
	fs.IntVar(&o.targetFrom, "target-from", 1, "First target frame")
	fs.IntVar(&o.targetTo, "target-to", 1, "Last target frame")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database to store the run in")
	fs.StringVar(&o.label, "label", "", "Label stored with the run")
	fs.BoolVar(&o.list, "list", false, "List the runs stored in -db and exit")
	fs.StringVar(&o.plotPath, "plot", "", "Write a cost histogram image to this path")
	fs.StringVar(&o.htmlPath, "html", "", "Write an interactive cost chart to this path")
	fs.BoolVar(&o.solve, "solve", false, "Solve the assignment and print target -> source")
	fs.BoolVar(&o.verbose, "v", false, "Log one diagnostic line per build")
	fs.BoolVar(&o.trace, "trace", false, "Log per-column detail")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.version {
		return o, nil
	}
	if o.list {
		if o.dbPath == "" {
			return nil, errors.New("-list needs -db")
		}
		return o, nil
	}
	if o.input == "" {
		return nil, errors.New("-input is required")
	}
	return o, nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("costgraph: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(stdout, version.String())
		return nil
	}

	w := costgraph.LogWriters{Ops: stderr}
	if o.verbose || o.trace {
		w.Diag = stderr
	}
	if o.trace {
		w.Trace = stderr
	}
	costgraph.SetLogWriters(w)

	if o.list {
		return listRuns(o.dbPath, stdout)
	}

	cfg := config.DefaultTuningConfig()
	if o.configPath != "" {
		if cfg, err = config.LoadTuningConfig(o.configPath); err != nil {
			return err
		}
	}
	mode, err := costgraph.ParseMode(o.mode)
	if err != nil {
		return err
	}

	f, err := os.Open(o.input)
	if err != nil {
		return err
	}
	g, err := costgraph.DecodeMovie(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", o.input, err)
	}

	source, err := g.Span(o.sourceFrom, o.sourceTo)
	if err != nil {
		return fmt.Errorf("source frames: %w", err)
	}
	target, err := g.Span(o.targetFrom, o.targetTo)
	if err != nil {
		return fmt.Errorf("target frames: %w", err)
	}

	b, err := costgraph.BuilderFromTuning(o.builder, cfg, g)
	if err != nil {
		return err
	}
	res, err := b.Build(source, target, mode)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s %d-%d -> %d-%d", res.Builder, o.sourceFrom, o.sourceTo, o.targetFrom, o.targetTo)

	if res.Costs != nil {
		fmt.Fprintf(stdout, "%s: %s\n", title, report.Summarize(res.Costs))
	} else {
		n := 0
		for _, ok := range res.Feasible {
			if ok {
				n++
			}
		}
		fmt.Fprintf(stdout, "%s: %d of %d targets feasible\n", title, n, len(res.Feasible))
	}

	if o.dbPath != "" {
		params, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		db, err := store.Open(o.dbPath)
		if err != nil {
			return err
		}
		id, err := db.SaveResult(res, source.Len(), o.label, params)
		db.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "stored run %s\n", id)
	}

	if res.Costs != nil {
		if o.plotPath != "" {
			if err := report.WriteCostHistogram(o.plotPath, res.Costs, title, report.DefaultBins); err != nil {
				return err
			}
		}
		if o.htmlPath != "" {
			if err := writeChart(o.htmlPath, res.Costs, title); err != nil {
				return err
			}
		}
		if o.solve {
			return printAssignment(stdout, res)
		}
	}
	return nil
}

func writeChart(path string, m *costgraph.SparseMatrix, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCostChart(f, m, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printAssignment(w io.Writer, res *costgraph.Result) error {
	sources, err := assign.Solve(res.Costs, res.Alternative)
	if err != nil {
		return err
	}
	for i, j := range sources {
		if j < 0 {
			fmt.Fprintf(w, "%d -> none\n", i)
			continue
		}
		fmt.Fprintf(w, "%d -> %d\n", i, j)
	}
	fmt.Fprintf(w, "total cost %.6g\n", assign.Total(res.Costs, res.Alternative, sources))
	return nil
}

func listRuns(path string, w io.Writer) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\tnnz=%d\t%s\n", r.RunID, r.Builder, r.Mode, r.Rows, r.Cols, r.NNZ, r.Label)
	}
	return nil
}
