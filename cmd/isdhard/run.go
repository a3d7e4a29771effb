package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"isd-hardness/config"
	"isd-hardness/isd"
	"isd-hardness/prof"
	"isd-hardness/report"
	"isd-hardness/space"
)

type runFlags struct {
	configPath string
	metric     string
	algorithm  string
	sizes      string
	quantum    bool
	tol        float64
	epsilon    float64
	parallel   int
	failFast   bool
	table      string
	csv        string
	jsonl      string
	chart      string
	dumpConfig bool
}

func newRunCmd(ro *rootOptions) *cobra.Command {
	cmd, _ := runCommand(ro)
	return cmd
}

func runCommand(ro *rootOptions) (*cobra.Command, *runFlags) {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep alphabet sizes and write the hardest-instance table",
		Example: `  isdhard run --metric lee --algorithm wagner
  isdhard run --config sweep.yaml --quantum --parallel 4 --jsonl out/rows.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			if f.dumpConfig {
				b, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSweep(ctx, ro.logger, cfg, space.EntropyOracle{})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML run configuration")
	fl.StringVar(&f.metric, "metric", "", "hamming|lee")
	fl.StringVar(&f.algorithm, "algorithm", "", "prange|dumer|stern|wagner")
	fl.StringVar(&f.sizes, "sizes", "", "comma-separated alphabet sizes")
	fl.BoolVar(&f.quantum, "quantum", false, "quantum cost model for the merge step")
	fl.Float64Var(&f.tol, "tol", 0, "search tolerance")
	fl.Float64Var(&f.epsilon, "epsilon", 0, "ratio slack and rate bracket offset")
	fl.IntVar(&f.parallel, "parallel", 0, "alphabet sizes evaluated at once")
	fl.BoolVar(&f.failFast, "fail-fast", false, "stop at the first failing alphabet size")
	fl.StringVar(&f.table, "out", "", "results table (default results.txt or results_quantum.txt)")
	fl.StringVar(&f.csv, "csv", "", "write CSV rows to path")
	fl.StringVar(&f.jsonl, "jsonl", "", "write JSONL rows to path")
	fl.StringVar(&f.chart, "chart", "", "write an HTML chart to path")
	fl.BoolVar(&f.dumpConfig, "dump-config", false, "print the resolved configuration as YAML and exit")
	return cmd, f
}

// resolve loads the config file, if any, and applies the flags the user set.
func (f *runFlags) resolve(cmd *cobra.Command) (config.Run, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(f.configPath); err != nil {
			return cfg, err
		}
	}
	set := cmd.Flags().Changed
	if set("metric") {
		cfg.Metric = f.metric
	}
	if set("algorithm") {
		cfg.Algorithm = f.algorithm
	}
	if set("sizes") {
		sizes, err := parseIntList(f.sizes)
		if err != nil {
			return cfg, fmt.Errorf("parse sizes: %w", err)
		}
		cfg.AlphabetSizes = sizes
	}
	if set("quantum") {
		cfg.Quantum = f.quantum
	}
	if set("tol") {
		cfg.Tol = f.tol
	}
	if set("epsilon") {
		cfg.Epsilon = f.epsilon
	}
	if set("parallel") {
		cfg.Parallelism = f.parallel
	}
	if set("fail-fast") {
		cfg.FailFast = f.failFast
	}
	if set("out") {
		cfg.Output.Table = f.table
	}
	if set("csv") {
		cfg.Output.CSV = f.csv
	}
	if set("jsonl") {
		cfg.Output.JSONL = f.jsonl
	}
	if set("chart") {
		cfg.Output.Chart = f.chart
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runSweep(ctx context.Context, log *slog.Logger, cfg config.Run, oracle space.Oracle) error {
	if log == nil {
		log = slog.Default()
	}
	metric, alg, err := cfg.Target()
	if err != nil {
		return err
	}
	est, err := isd.NewEstimator(cfg.ISD(), oracle)
	if err != nil {
		return err
	}
	est.OnCandidate = func(q int, p isd.Point) {
		log.Debug("candidate", "q", q, "code_rate", p.CodeRate, "weight", p.Weight, "cost", p.Cost)
	}
	digest, err := cfg.Digest()
	if err != nil {
		return err
	}
	log.Info("sweep",
		"metric", metric,
		"algorithm", alg,
		"quantum", cfg.Quantum,
		"sizes", cfg.AlphabetSizes,
		"parallel", cfg.Parallelism,
		"digest", digest,
	)

	table, err := report.NewTable(cfg.TablePath())
	if err != nil {
		return err
	}
	rows, err := report.NewWriter(cfg.Output.CSV, cfg.Output.JSONL, digest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("close row writer", "err", cerr)
		}
	}()

	// Sinks are called one result at a time, in input order.
	var charted []report.Row
	progress := isd.SinkFunc(func(r isd.Result) error {
		log.Info("finished",
			"q", r.AlphabetSize,
			"code_rate", fmt.Sprintf("%.3f", r.CodeRate),
			"weight", fmt.Sprintf("%.3f", r.Weight),
			"levels", r.OptLevelNum,
			"cost", fmt.Sprintf("%.3f", r.Cost),
			"elapsed", r.Elapsed.Round(time.Millisecond),
		)
		if cfg.Output.Chart != "" {
			charted = append(charted, report.NewRow(r, digest))
		}
		return nil
	})

	var timings prof.Recorder
	opts := isd.SweepOptions{
		Metric:        metric,
		Algorithm:     alg,
		AlphabetSizes: cfg.AlphabetSizes,
		Parallelism:   cfg.Parallelism,
		FailFast:      cfg.FailFast,
		OnStart: func(q int) {
			log.Info("alphabet size", "q", q)
		},
		OnFailure: func(q int, err error) {
			log.Error("alphabet size failed", "q", q, "err", err)
		},
		Timings: &timings,
	}
	start := time.Now()
	serr := est.Sweep(ctx, opts, report.Tee(table, rows, progress))
	wall := time.Since(start)
	log.Debug("timings", "summed", timings.Total(), "stages", &timings)

	if cfg.Output.Chart != "" && len(charted) > 0 {
		title := fmt.Sprintf("%s / %s", metric, alg)
		if err := report.WriteChart(cfg.Output.Chart, charted, title); err != nil {
			return errors.Join(serr, fmt.Errorf("write chart: %w", err))
		}
		log.Info("chart written", "path", cfg.Output.Chart)
	}
	if serr != nil {
		return serr
	}
	log.Info("done", "table", table.Path(), "elapsed", wall.Round(time.Millisecond))
	return nil
}
