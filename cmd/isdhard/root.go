package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
	noColor  bool
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	root := &cobra.Command{
		Use:   "isdhard",
		Short: "Asymptotic cost of information set decoding at the hardest code rate",
		Long: `isdhard locates, for each alphabet size, the code rate and error weight
at which decoding a random code is hardest, and reports the optimised
exponent of Prange, Dumer/Stern or Wagner-style decoders under the Hamming
or Lee metric.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), ro.logLevel, ro.noColor)
			if err != nil {
				return err
			}
			ro.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "info", "debug|info|warn|error")
	root.PersistentFlags().BoolVar(&ro.noColor, "no-color", false, "disable coloured log output")

	root.AddCommand(newRunCmd(ro), newEstimateCmd(ro), newPlotCmd(ro))
	return root
}

func newLogger(w io.Writer, level string, noColor bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	})), nil
}

func parseIntList(spec string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}
