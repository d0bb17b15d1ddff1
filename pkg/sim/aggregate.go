package sim

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/scenario"
)

// systemDamageStates are the facility-level damage states, each defined by
// the lowest economic loss ratio that reaches it.
var systemDamageStates = []struct {
	name  string
	bound float64
}{
	{"slight", 0.01},
	{"moderate", 0.15},
	{"extensive", 0.40},
	{"complete", 0.80},
}

// bucket accumulates raw samples for one hazard intensity level.
type bucket struct {
	trials   int
	caps     [][]float64         // per output: capacity samples
	loss     []float64           // per trial: loss ratio
	restored map[int][][]float64 // streams -> per output: restoration times of restored trials
	plans    []TrialPlan
}

// Aggregator collects trial results from concurrent workers. Add is the
// only synchronized operation in a run; everything else trials touch is
// read-only.
type Aggregator struct {
	mu      sync.Mutex
	fac     *model.Facility
	sc      *scenario.Scenario
	buckets map[float64]*bucket
}

// NewAggregator creates an empty aggregator for one simulation run.
func NewAggregator(fac *model.Facility, sc *scenario.Scenario) *Aggregator {
	return &Aggregator{
		fac:     fac,
		sc:      sc,
		buckets: make(map[float64]*bucket),
	}
}

// Add appends one trial result. Safe for concurrent use; results may
// arrive in any order.
func (a *Aggregator) Add(tr TrialResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[tr.Intensity]
	if !ok {
		b = &bucket{
			caps:     make([][]float64, len(tr.Capacities)),
			restored: make(map[int][][]float64),
		}
		a.buckets[tr.Intensity] = b
	}

	b.trials++
	for k, c := range tr.Capacities {
		b.caps[k] = append(b.caps[k], c)
	}
	b.loss = append(b.loss, tr.Loss)

	for streams, times := range tr.RestoredAt {
		per, ok := b.restored[streams]
		if !ok {
			per = make([][]float64, len(times))
			b.restored[streams] = per
		}
		for k, t := range times {
			if t >= 0 {
				per[k] = append(per[k], t)
			}
		}
	}

	for streams, plan := range tr.Plans {
		b.plans = append(b.plans, TrialPlan{Trial: tr.Trial, Streams: streams, Plan: plan})
	}
}

// Result freezes the accumulated samples into summary statistics. Intensity
// levels follow the scenario grid; levels with no trials are skipped.
func (a *Aggregator) Result(scenarioName string) *Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := &Result{
		RunID:    uuid.NewString(),
		Facility: a.fac.Name,
		Scenario: scenarioName,
	}
	outputs := a.fac.OutputsByPriority()

	for _, pga := range a.sc.Intensities() {
		b, ok := a.buckets[pga]
		if !ok {
			continue
		}

		ir := IntensityResult{
			Intensity: pga,
			Trials:    b.trials,
			Loss:      summarize(b.loss),
		}

		for k, oi := range outputs {
			ir.Outputs = append(ir.Outputs, OutputStats{
				Output:   a.fac.Nodes[oi].ID,
				Capacity: summarize(b.caps[k]),
			})
		}

		for _, ds := range systemDamageStates {
			exceed := 0
			for _, l := range b.loss {
				if l >= ds.bound {
					exceed++
				}
			}
			ir.Fragility = append(ir.Fragility, FragilityPoint{
				State:       ds.name,
				Bound:       ds.bound,
				Probability: float64(exceed) / float64(b.trials),
			})
		}

		for _, streams := range a.sc.RestorationStreams {
			per := b.restored[streams]
			for k, oi := range outputs {
				var times []float64
				if k < len(per) {
					times = per[k]
				}
				ir.Restoration = append(ir.Restoration, RestorationStats{
					Output:   a.fac.Nodes[oi].ID,
					Streams:  streams,
					Restored: len(times),
					Time:     summarize(times),
				})
			}
		}

		sort.Slice(b.plans, func(i, j int) bool {
			if b.plans[i].Trial != b.plans[j].Trial {
				return b.plans[i].Trial < b.plans[j].Trial
			}
			return b.plans[i].Streams < b.plans[j].Streams
		})
		ir.Plans = b.plans

		res.Intensities = append(res.Intensities, ir)
	}
	return res
}

// summarize computes empirical statistics over one sample set. Empty sets
// yield a zero summary.
func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	std := 0.0
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	return Summary{
		N:    len(xs),
		Mean: stat.Mean(sorted, nil),
		Std:  std,
		P05:  stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}
