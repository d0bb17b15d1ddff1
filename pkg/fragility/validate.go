package fragility

import (
	"fmt"

	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/validation"
)

// checkIntensities is the grid used to verify that configured curves keep
// the damage states nested across the plausible hazard range.
var checkIntensities = []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 1.0, 1.5, 2.0}

// Validate checks every table for parameter sanity and nested damage
// states: a worse state must never be more probable to exceed than a
// lighter one, functionality must not increase with damage, and repair
// effort must not shrink with damage.
func (s Set) Validate() *validation.Report {
	report := validation.NewReport()

	for ctype, table := range s {
		if len(table.States) == 0 {
			report.AddError(validation.Result{
				Level:     validation.LevelSchema,
				Message:   "component type has no damage states",
				Component: ctype,
			})
			continue
		}

		for i, ds := range table.States {
			tag := fmt.Sprintf("%s[%d]", ctype, i+1)
			if ds.Curve.Median <= 0 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "fragility median must be positive",
					Component:   tag,
					ActualValue: ds.Curve.Median,
				})
			}
			if ds.Curve.Beta <= 0 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "fragility beta must be positive",
					Component:   tag,
					ActualValue: ds.Curve.Beta,
				})
			}
			if ds.Functionality < 0 || ds.Functionality > 1 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "functionality must be in [0,1]",
					Component:   tag,
					ActualValue: ds.Functionality,
				})
			}
			if ds.DamageRatio < 0 || ds.DamageRatio > 1 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "damage ratio must be in [0,1]",
					Component:   tag,
					ActualValue: ds.DamageRatio,
				})
			}
			if ds.RecoveryMean <= 0 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "recovery mean must be positive",
					Component:   tag,
					ActualValue: ds.RecoveryMean,
				})
			}
			if ds.RecoveryStd <= 0 {
				report.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     "recovery std must be positive",
					Component:   tag,
					ActualValue: ds.RecoveryStd,
				})
			}

			if i == 0 {
				continue
			}
			prev := table.States[i-1]
			if ds.Functionality > prev.Functionality {
				report.AddError(validation.Result{
					Level:     validation.LevelSchema,
					Message:   "functionality increases with damage state",
					Component: tag,
				})
			}
			if ds.DamageRatio < prev.DamageRatio {
				report.AddError(validation.Result{
					Level:     validation.LevelSchema,
					Message:   "damage ratio decreases with damage state",
					Component: tag,
				})
			}
			if ds.RecoveryMean < prev.RecoveryMean {
				report.AddError(validation.Result{
					Level:     validation.LevelSchema,
					Message:   "recovery mean decreases with damage state",
					Component: tag,
				})
			}
		}

		if !report.Valid {
			continue
		}

		// Raw curves must keep states nested at every intensity; the
		// evaluator clamps, but a crossing means the configuration is wrong.
		for _, pga := range checkIntensities {
			prev := 1.0
			for i, ds := range table.States {
				pe := ds.Curve.Exceedance(pga)
				if pe > prev+1e-12 {
					report.AddError(validation.Result{
						Level:       validation.LevelSchema,
						Message:     fmt.Sprintf("fragility curves cross at intensity %.2f: state %d exceeds state %d", pga, i+1, i),
						Component:   ctype,
						ActualValue: pe,
					})
					break
				}
				prev = pe
			}
		}
	}

	return report
}

// ValidateModel checks that every component type used by the facility has a
// fragility table.
func (s Set) ValidateModel(f *model.Facility) *validation.Report {
	report := validation.NewReport()
	for _, n := range f.Nodes {
		if _, ok := s[n.Type]; !ok {
			report.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     "no fragility table for component type",
				Component:   n.ID,
				ActualValue: n.Type,
			})
		}
	}
	return report
}
