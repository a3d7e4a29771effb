package isd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"isd-hardness/prof"
	"isd-hardness/space"
)

// Result is the hardest-rate estimate for one alphabet size.
type Result struct {
	Metric       space.Metric
	Algorithm    Algorithm
	Quantum      bool
	AlphabetSize int
	Point
	Elapsed time.Duration
}

// SolveFunc computes the estimate for one alphabet size.
type SolveFunc func(alphabetSize int) (Point, error)

// Sink receives results in input order.
type Sink interface {
	Write(Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Result) error

// Write calls f.
func (f SinkFunc) Write(r Result) error { return f(r) }

// SweepOptions controls Sweep.
type SweepOptions struct {
	Metric        space.Metric
	Algorithm     Algorithm
	AlphabetSizes []int
	// Parallelism bounds the number of alphabet sizes evaluated at once;
	// values below 1 mean 1.
	Parallelism int
	// FailFast stops the sweep at the first failing alphabet size. Otherwise
	// failures are reported through OnFailure and the sweep continues.
	FailFast bool
	// OnStart, if set, is called before an alphabet size is evaluated.
	OnStart func(alphabetSize int)
	// OnFailure, if set, is called for every alphabet size that failed.
	OnFailure func(alphabetSize int, err error)
	// Timings, if set, receives one entry per evaluated alphabet size.
	Timings *prof.Recorder
}

// ErrSweepFailed is returned by Sweep when at least one alphabet size failed.
var ErrSweepFailed = errors.New("sweep: some alphabet sizes failed")

type outcome struct {
	q       int
	point   Point
	err     error
	elapsed time.Duration
	skipped bool
}

// Sweep runs the hardest-rate search for every alphabet size in opts.
// Sizes are independent and may run concurrently, but results reach the sink
// strictly in input order, each as soon as it and all earlier sizes are done.
// A failed size writes nothing to the sink.
func (e Estimator) Sweep(ctx context.Context, opts SweepOptions, sink Sink) error {
	solve := func(q int) (Point, error) {
		return e.HardestRate(opts.Metric, opts.Algorithm, q)
	}
	return RunSweep(ctx, opts, e.Config.Quantum, solve, sink)
}

// RunSweep is Sweep with an arbitrary per-size computation.
func RunSweep(ctx context.Context, opts SweepOptions, quantum bool, solve SolveFunc, sink Sink) error {
	n := len(opts.AlphabetSizes)
	if n == 0 {
		return nil
	}
	for _, q := range opts.AlphabetSizes {
		if q < 2 {
			return fmt.Errorf("%w: alphabet size %d", ErrInvalidDomain, q)
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan outcome, n)
	for i := range slots {
		slots[i] = make(chan outcome, 1)
	}

	collected := make(chan error, 1)
	go func() {
		collected <- collect(ctx, cancel, opts, quantum, slots, sink)
	}()

	limit := opts.Parallelism
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, q := range opts.AlphabetSizes {
		q := q
		slot := slots[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				slot <- outcome{q: q, skipped: true}
				return nil
			}
			if opts.OnStart != nil {
				opts.OnStart(q)
			}
			start := time.Now()
			p, err := solve(q)
			var elapsed time.Duration
			if opts.Timings != nil {
				elapsed = opts.Timings.Track(start, fmt.Sprintf("q=%d", q))
			} else {
				elapsed = time.Since(start)
			}
			slot <- outcome{q: q, point: p, err: err, elapsed: elapsed}
			if err != nil && opts.FailFast {
				return fmt.Errorf("alphabet size %d: %w", q, err)
			}
			return nil
		})
	}
	werr := g.Wait()
	cerr := <-collected
	if cerr != nil {
		return cerr
	}
	if werr != nil {
		return werr
	}
	return ctx.Err()
}

func collect(ctx context.Context, cancel context.CancelFunc, opts SweepOptions, quantum bool, slots []chan outcome, sink Sink) error {
	failed := 0
	for _, slot := range slots {
		var o outcome
		select {
		case o = <-slot:
		case <-ctx.Done():
			return nil
		}
		if o.skipped {
			continue
		}
		if o.err != nil {
			failed++
			if opts.OnFailure != nil {
				opts.OnFailure(o.q, o.err)
			}
			if opts.FailFast {
				cancel()
				return nil
			}
			continue
		}
		res := Result{
			Metric:       opts.Metric,
			Algorithm:    opts.Algorithm,
			Quantum:      quantum,
			AlphabetSize: o.q,
			Point:        o.point,
			Elapsed:      o.elapsed,
		}
		if err := sink.Write(res); err != nil {
			cancel()
			return fmt.Errorf("write result for alphabet size %d: %w", o.q, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSweepFailed, failed, len(slots))
	}
	return nil
}
