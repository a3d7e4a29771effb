package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"isd-hardness/isd"
	"isd-hardness/report"
	"isd-hardness/space"
)

type estimateFlags struct {
	metric    string
	algorithm string
	q         int
	rate      float64
	quantum   bool
	tol       float64
	epsilon   float64
}

func newEstimateCmd(ro *rootOptions) *cobra.Command {
	d := isd.DefaultConfig()
	f := &estimateFlags{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate one alphabet size, at a given code rate or at the hardest one",
		Example: `  isdhard estimate --q 2 --rate 0.5
  isdhard estimate --metric lee --algorithm dumer --q 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := space.ParseMetric(f.metric)
			if err != nil {
				return err
			}
			alg, err := isd.ParseAlgorithm(f.algorithm)
			if err != nil {
				return err
			}
			est, err := isd.NewEstimator(isd.Config{Quantum: f.quantum, Tol: f.tol, Epsilon: f.epsilon}, nil)
			if err != nil {
				return err
			}
			var p isd.Point
			if cmd.Flags().Changed("rate") {
				p, err = est.EstimateAtRate(m, alg, f.q, f.rate)
			} else {
				ro.logger.Info("searching hardest code rate", "metric", m, "algorithm", alg, "q", f.q)
				p, err = est.HardestRate(m, alg, f.q)
			}
			if err != nil {
				return err
			}
			res := isd.Result{Metric: m, Algorithm: alg, Quantum: f.quantum, AlphabetSize: f.q, Point: p}
			return printEstimate(cmd, res)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.metric, "metric", "hamming", "hamming|lee")
	fl.StringVar(&f.algorithm, "algorithm", "prange", "prange|dumer|stern|wagner")
	fl.IntVar(&f.q, "q", 2, "alphabet size")
	fl.Float64Var(&f.rate, "rate", 0, "code rate (default: search the hardest)")
	fl.BoolVar(&f.quantum, "quantum", d.Quantum, "quantum cost model for the merge step")
	fl.Float64Var(&f.tol, "tol", d.Tol, "search tolerance")
	fl.Float64Var(&f.epsilon, "epsilon", d.Epsilon, "ratio slack and rate bracket offset")
	return cmd
}

func printEstimate(cmd *cobra.Command, r isd.Result) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "metric\t%s\n", r.Metric)
	fmt.Fprintf(tw, "algorithm\t%s\n", r.Algorithm)
	fmt.Fprintf(tw, "alphabetSize\t%d\n", r.AlphabetSize)
	fmt.Fprintf(tw, "codeRate\t%.6f\n", r.CodeRate)
	fmt.Fprintf(tw, "weight\t%.6f\n", r.Weight)
	fmt.Fprintf(tw, "optLevelNum\t%d\n", r.OptLevelNum)
	fmt.Fprintf(tw, "paramL\t%.6f\n", r.ParamL)
	fmt.Fprintf(tw, "paramP\t%.6f\n", r.ParamP)
	fmt.Fprintf(tw, "runtime(log 2)\t%.6f\n", r.Cost)
	fmt.Fprintf(tw, "runtime(log alphabetSize)\t%.6f\n", report.CostLogQ(r))
	return tw.Flush()
}
