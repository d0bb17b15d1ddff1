package sampler

import (
	"math/rand"

	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
)

// Assignment maps node arena index to a discrete damage-state index in
// [0, S]. Created once per trial and never mutated afterwards; the
// restoration scheduler works on its own copy.
type Assignment []int

// Undamaged returns an assignment with every component at state 0.
func Undamaged(n int) Assignment { return make(Assignment, n) }

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	c := make(Assignment, len(a))
	copy(c, a)
	return c
}

// Source draws damage assignments for a facility at a hazard intensity.
// The default source draws components independently; correlated or grouped
// sampling can be plugged in behind this interface.
type Source interface {
	Sample(intensity float64, rng *rand.Rand) Assignment
}

// Sampler is the independent-draw Monte Carlo source.
type Sampler struct {
	fac    *model.Facility
	tables fragility.Set
}

// New creates a sampler over a built facility and its fragility tables.
func New(fac *model.Facility, tables fragility.Set) *Sampler {
	return &Sampler{fac: fac, tables: tables}
}

// Sample draws one damage-state assignment. Each component takes a single
// uniform variate u; the exceedance probabilities for states 1..S partition
// [0,1) into S+1 bins, and the component lands in the bin holding u: the
// assigned state is the highest one whose exceedance probability is greater
// than 1-u.
func (s *Sampler) Sample(intensity float64, rng *rand.Rand) Assignment {
	a := make(Assignment, len(s.fac.Nodes))
	for i, n := range s.fac.Nodes {
		table := s.tables[n.Type]
		u := rng.Float64()
		state := 0
		for _, pe := range table.Thresholds(intensity) {
			if pe > 1-u {
				state++
			} else {
				break
			}
		}
		a[i] = state
	}
	return a
}

// NewRNG returns the deterministic generator for one trial. Trials own
// independent generators so parallel workers never share random state.
func NewRNG(baseSeed int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(baseSeed + int64(trial)))
}
