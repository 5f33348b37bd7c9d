package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Builder assembles an independent simulator for one ensemble member. Each
// seed must yield its own plant, parameters and input source.
type Builder func(seed int64) (*Simulator, error)

// Ensemble runs the same scenario over consecutive seeds, so every member
// draws its own effective parameters.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		build:     build,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.GOMAXPROCS(0),
	}
}

type EnsembleResult struct {
	Seeds []int64
	Runs  []*Result
	// FinalMean and FinalStdDev summarise each output component at the end
	// of the run across members.
	FinalMean   []float64
	FinalStdDev []float64
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) (*EnsembleResult, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	res := &EnsembleResult{
		Seeds: make([]int64, e.numRuns),
		Runs:  make([]*Result, e.numRuns),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		res.Seeds[i] = seed
		g.Go(func() error {
			s, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			r, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res.Runs[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.FinalMean, res.FinalStdDev = summarize(res.Runs)
	return res, nil
}

func summarize(runs []*Result) (mean, std []float64) {
	dim := len(runs[0].Final())
	mean = make([]float64, dim)
	std = make([]float64, dim)

	col := make([]float64, len(runs))
	for j := 0; j < dim; j++ {
		for i, r := range runs {
			col[i] = r.Final()[j]
		}
		if len(col) > 1 {
			mean[j], std[j] = stat.MeanStdDev(col, nil)
		} else {
			mean[j] = col[0]
		}
	}
	return mean, std
}
