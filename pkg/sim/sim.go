package sim

import (
	"github.com/zeehio/sifra/pkg/restore"
)

// TrialResult is everything one Monte Carlo trial produces: the immediate
// post-event capacity per output line, the economic loss ratio, and the
// restoration outcome per configured stream count. Trials write only their
// own result; the aggregator is the sole synchronized sink.
type TrialResult struct {
	Intensity float64
	Trial     int

	// Capacities holds the post-event capacity fraction per output line,
	// in restoration priority order.
	Capacities []float64

	// Loss is the facility-level economic loss ratio in [0,1].
	Loss float64

	// RestoredAt maps a stream count to the per-output full-restoration
	// time, -1 where the line was not restored within the horizon.
	RestoredAt map[int][]float64

	// Plans carries the full restoration plan per stream count when the
	// engine is asked to keep them.
	Plans map[int]*restore.Plan
}

// Summary holds empirical statistics over one sample set.
type Summary struct {
	N    int     `json:"n"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	P05  float64 `json:"p05"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}

// OutputStats summarises the post-event capacity of one output line at one
// hazard intensity.
type OutputStats struct {
	Output   string  `json:"output"`
	Capacity Summary `json:"capacity"`
}

// RestorationStats summarises full-restoration times for one output line
// under one restoration-stream setting. Restored counts the trials that
// reached the threshold within the horizon; Time summarises those trials.
type RestorationStats struct {
	Output   string  `json:"output"`
	Streams  int     `json:"streams"`
	Restored int     `json:"restored"`
	Time     Summary `json:"time"`
}

// FragilityPoint is the probability that the facility-level loss ratio
// reaches one system damage state at one hazard intensity.
type FragilityPoint struct {
	State       string  `json:"state"`
	Bound       float64 `json:"bound"`
	Probability float64 `json:"probability"`
}

// TrialPlan pairs one kept restoration plan with its trial coordinates.
type TrialPlan struct {
	Trial   int           `json:"trial"`
	Streams int           `json:"streams"`
	Plan    *restore.Plan `json:"plan"`
}

// IntensityResult is the aggregated outcome of all trials at one hazard
// intensity level.
type IntensityResult struct {
	Intensity   float64            `json:"intensity"`
	Trials      int                `json:"trials"`
	Outputs     []OutputStats      `json:"outputs"`
	Loss        Summary            `json:"loss"`
	Fragility   []FragilityPoint   `json:"fragility"`
	Restoration []RestorationStats `json:"restoration"`
	Plans       []TrialPlan        `json:"plans,omitempty"`
}

// Result is the full outcome of one simulation run.
type Result struct {
	RunID       string            `json:"run_id"`
	Facility    string            `json:"facility"`
	Scenario    string            `json:"scenario"`
	Intensities []IntensityResult `json:"intensities"`
}
