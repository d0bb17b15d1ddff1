package fragility

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Curve holds lognormal fragility parameters: the median intensity at which
// the damage state is exceeded, and the logarithmic standard deviation.
type Curve struct {
	Median float64 `yaml:"median" json:"median"`
	Beta   float64 `yaml:"beta" json:"beta"`
}

// Exceedance is the probability that the damage state is exceeded at the
// given hazard intensity. Non-positive intensities cannot exceed any state.
func (c Curve) Exceedance(intensity float64) float64 {
	if intensity <= 0 {
		return 0
	}
	dist := distuv.LogNormal{Mu: math.Log(c.Median), Sigma: c.Beta}
	return dist.CDF(intensity)
}

// DamageState describes one discrete damage severity for a component type.
// Functionality is the residual capacity fraction in that state; DamageRatio
// is the repair cost as a fraction of the component's value.
type DamageState struct {
	Name          string  `yaml:"name" json:"name"`
	Curve         Curve   `yaml:",inline" json:"curve"`
	DamageRatio   float64 `yaml:"damage_ratio" json:"damage_ratio"`
	Functionality float64 `yaml:"functionality" json:"functionality"`
	RecoveryMean  float64 `yaml:"recovery_mean" json:"recovery_mean"`
	RecoveryStd   float64 `yaml:"recovery_std" json:"recovery_std"`
}

// Table holds the ordered damage states 1..S for one component type.
// State 0 (undamaged) is implicit: functionality 1.0, damage ratio 0.0,
// zero repair time.
type Table struct {
	States []DamageState `yaml:"damage_states" json:"damage_states"`
}

// NumStates returns S, the index of the complete-damage state.
func (t Table) NumStates() int { return len(t.States) }

// Exceedance returns the probability of exceeding the given damage state at
// the given intensity. State 0 is always exceeded by definition. Exceedance
// probabilities are clamped to be non-increasing with state index so that
// the sampling thresholds partition [0,1) even under numeric error in the
// configured curves.
func (t Table) Exceedance(state int, intensity float64) float64 {
	if state <= 0 {
		return 1
	}
	if state > len(t.States) {
		return 0
	}
	pe := t.States[state-1].Curve.Exceedance(intensity)
	if prev := t.Exceedance(state-1, intensity); pe > prev {
		pe = prev
	}
	return pe
}

// Thresholds returns exceedance probabilities for states 1..S at the given
// intensity, non-increasing by construction.
func (t Table) Thresholds(intensity float64) []float64 {
	pe := make([]float64, len(t.States))
	prev := 1.0
	for i, ds := range t.States {
		p := ds.Curve.Exceedance(intensity)
		if p > prev {
			p = prev
		}
		pe[i] = p
		prev = p
	}
	return pe
}

// Functionality returns the residual capacity fraction for a damage state.
func (t Table) Functionality(state int) float64 {
	if state <= 0 {
		return 1
	}
	if state > len(t.States) {
		state = len(t.States)
	}
	return t.States[state-1].Functionality
}

// DamageRatio returns the economic loss fraction for a damage state.
func (t Table) DamageRatio(state int) float64 {
	if state <= 0 {
		return 0
	}
	if state > len(t.States) {
		state = len(t.States)
	}
	return t.States[state-1].DamageRatio
}

// MeanRepairTime returns the mean restoration time for a damage state.
func (t Table) MeanRepairTime(state int) float64 {
	if state <= 0 {
		return 0
	}
	if state > len(t.States) {
		state = len(t.States)
	}
	return t.States[state-1].RecoveryMean
}

// RecoveryLevel is the expected recovery fraction of a component in the
// given damage state, elapsed time t after the event. Normal CDF over the
// state's recovery parameters, per the HAZUS recovery model.
func (t Table) RecoveryLevel(state int, elapsed float64) float64 {
	if state <= 0 {
		return 1
	}
	if state > len(t.States) {
		state = len(t.States)
	}
	ds := t.States[state-1]
	dist := distuv.Normal{Mu: ds.RecoveryMean, Sigma: ds.RecoveryStd}
	return dist.CDF(elapsed)
}

// Set maps component type names to their damage-state tables.
type Set map[string]Table
