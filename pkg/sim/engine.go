package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeehio/sifra/pkg/flow"
	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/restore"
	"github.com/zeehio/sifra/pkg/sampler"
	"github.com/zeehio/sifra/pkg/scenario"
)

// Engine runs the full Monte Carlo sweep: every hazard intensity level
// times every trial, with restoration evaluated once per configured stream
// count. Trials are independent and run on a bounded worker pool; the
// model, tables and scenario are read-only throughout.
type Engine struct {
	fac    *model.Facility
	tables fragility.Set
	sc     *scenario.Scenario
	source sampler.Source
	solver *flow.Solver

	// KeepPlans retains the full restoration plan of every trial in the
	// result, for diagnostics. Off by default; plans are large.
	KeepPlans bool
}

// New creates an engine with the default independent-draw damage source.
func New(fac *model.Facility, tables fragility.Set, sc *scenario.Scenario) *Engine {
	return &Engine{
		fac:    fac,
		tables: tables,
		sc:     sc,
		source: sampler.New(fac, tables),
		solver: flow.NewSolver(fac, tables),
	}
}

// SetSource replaces the damage source, the extension point for correlated
// or grouped sampling.
func (e *Engine) SetSource(src sampler.Source) { e.source = src }

// Run executes the sweep and returns aggregated results. The context
// cancels admission of new trials; trials already running finish.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	agg := NewAggregator(e.fac, e.sc)
	intensities := e.sc.Intensities()

	schedulers := make(map[int]*restore.Scheduler, len(e.sc.RestorationStreams))
	for _, streams := range e.sc.RestorationStreams {
		schedulers[streams] = restore.NewScheduler(e.fac, e.tables, restore.Config{
			Streams:          streams,
			Offset:           e.sc.RestoreOffset,
			CommissionBuffer: e.sc.CommissionBuffer,
			RelocationTime:   e.sc.RelocationTime,
			Horizon:          e.sc.RestoreHorizon,
			Step:             e.sc.RestoreStep,
			Threshold:        e.sc.Threshold,
			Cannibalize:      e.sc.Cannibalize,
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.sc.Workers)

	for li, pga := range intensities {
		for t := 0; t < e.sc.Samples; t++ {
			li, pga, t := li, pga, t
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				agg.Add(e.runTrial(schedulers, li, pga, t))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return agg.Result(e.sc.Name), nil
}

// runTrial samples one damage assignment and evaluates its immediate and
// restored behaviour. The trial index is globally unique across intensity
// levels so every trial gets an independent generator stream.
func (e *Engine) runTrial(schedulers map[int]*restore.Scheduler, level int, pga float64, trial int) TrialResult {
	rng := sampler.NewRNG(e.sc.Seed, level*e.sc.Samples+trial)
	damage := e.source.Sample(pga, rng)

	tr := TrialResult{
		Intensity:  pga,
		Trial:      trial,
		Capacities: e.solver.Capacities(damage),
		Loss:       LossRatio(e.fac, e.tables, damage),
		RestoredAt: make(map[int][]float64, len(schedulers)),
	}
	if e.KeepPlans {
		tr.Plans = make(map[int]*restore.Plan, len(schedulers))
	}

	for streams, sched := range schedulers {
		plan := sched.Run(damage)
		times := make([]float64, len(plan.Lines))
		for k, line := range plan.Lines {
			times[k] = line.RestoredAt
		}
		tr.RestoredAt[streams] = times
		if e.KeepPlans {
			tr.Plans[streams] = plan
		}
	}
	return tr
}

// LossRatio is the facility-level economic loss ratio for one damage
// assignment: the damage ratio of each component weighted by its share of
// the facility value.
func LossRatio(fac *model.Facility, tables fragility.Set, damage sampler.Assignment) float64 {
	var loss float64
	for i, n := range fac.Nodes {
		loss += tables[n.Type].DamageRatio(damage[i]) * n.CostFraction
	}
	if loss > 1 {
		loss = 1
	}
	return loss
}
