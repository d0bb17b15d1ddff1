package scenario

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/zeehio/sifra/pkg/validation"
)

// Scenario is the run configuration for one simulation batch.
type Scenario struct {
	Name string `yaml:"name" json:"name"`

	// Hazard intensity sweep (PGA, in g).
	PGAMin  float64 `yaml:"pga_min" json:"pga_min"`
	PGAMax  float64 `yaml:"pga_max" json:"pga_max"`
	PGAStep float64 `yaml:"pga_step" json:"pga_step"`

	// Monte Carlo trials per intensity level.
	Samples int `yaml:"samples" json:"samples"`

	// Restoration simulation controls, in scenario time units.
	RestoreHorizon   float64 `yaml:"restore_horizon" json:"restore_horizon"`
	RestoreStep      float64 `yaml:"restore_step" json:"restore_step"`
	RestoreOffset    float64 `yaml:"restore_offset" json:"restore_offset"`
	CommissionBuffer float64 `yaml:"commission_buffer" json:"commission_buffer"`
	RelocationTime   float64 `yaml:"relocation_time" json:"relocation_time"`

	// RestorationStreams are the resource settings to evaluate: each value R
	// bounds how many components may be under repair simultaneously.
	RestorationStreams []int `yaml:"restoration_streams" json:"restoration_streams"`

	// Threshold is the capacity fraction at which a line counts as restored.
	Threshold float64 `yaml:"threshold" json:"threshold"`

	Cannibalize bool  `yaml:"cannibalize" json:"cannibalize"`
	Seed        int64 `yaml:"seed" json:"seed"`
	Workers     int   `yaml:"workers" json:"workers"`
}

// Normalize fills unset optional fields with their defaults.
func (sc *Scenario) Normalize() {
	if sc.RestoreStep == 0 {
		sc.RestoreStep = 1
	}
	if sc.Threshold == 0 {
		sc.Threshold = 0.99
	}
	if len(sc.RestorationStreams) == 0 {
		sc.RestorationStreams = []int{1}
	}
	if sc.Workers == 0 {
		sc.Workers = runtime.NumCPU()
	}
	if sc.Seed == 0 {
		sc.Seed = 42
	}
}

// Intensities returns the hazard intensity grid, inclusive of both ends.
func (sc *Scenario) Intensities() []float64 {
	n := int(math.Round((sc.PGAMax-sc.PGAMin)/sc.PGAStep)) + 1
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return []float64{sc.PGAMin}
	}
	return floats.Span(make([]float64, n), sc.PGAMin, sc.PGAMax)
}

// Validate checks the scenario configuration before any trial executes.
func (sc *Scenario) Validate() *validation.Report {
	report := validation.NewReport()

	if sc.PGAMin <= 0 || sc.PGAMax < sc.PGAMin {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "hazard intensity range must satisfy 0 < pga_min <= pga_max",
			ActualValue: fmt.Sprintf("[%g, %g]", sc.PGAMin, sc.PGAMax),
		})
	}
	if sc.PGAStep <= 0 && sc.PGAMax > sc.PGAMin {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "pga_step must be positive for a multi-point sweep",
			ActualValue: sc.PGAStep,
		})
	}
	if sc.Samples <= 0 {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "samples must be positive",
			ActualValue: sc.Samples,
		})
	}
	if sc.RestoreHorizon <= 0 {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "restore_horizon must be positive",
			ActualValue: sc.RestoreHorizon,
		})
	}
	if sc.RestoreStep < 0 || sc.RestoreOffset < 0 || sc.CommissionBuffer < 0 || sc.RelocationTime < 0 {
		report.AddError(validation.Result{
			Level:   validation.LevelScenario,
			Message: "restoration time controls must be non-negative",
		})
	}
	if sc.Threshold < 0 || sc.Threshold > 1 {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "threshold must be in [0,1]",
			ActualValue: sc.Threshold,
		})
	}
	for _, r := range sc.RestorationStreams {
		if r < 1 {
			report.AddError(validation.Result{
				Level:       validation.LevelScenario,
				Message:     "restoration stream counts must be >= 1",
				ActualValue: r,
			})
		}
	}
	if sc.Workers < 0 {
		report.AddError(validation.Result{
			Level:       validation.LevelScenario,
			Message:     "workers must be non-negative",
			ActualValue: sc.Workers,
		})
	}

	if report.Valid {
		report.AddInfo(validation.Result{
			Level: validation.LevelScenario,
			Message: fmt.Sprintf("scenario %q: %d intensities x %d samples, streams %v",
				sc.Name, len(sc.Intensities()), sc.Samples, sc.RestorationStreams),
		})
	}
	return report
}

// Load reads a scenario from a YAML file and applies defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	sc.Normalize()
	return &sc, nil
}

// LoadProject loads a scenario from a project directory.
// It looks for scenario.yaml in the given directory.
func LoadProject(projectDir string) (*Scenario, error) {
	return Load(filepath.Join(projectDir, "scenario.yaml"))
}
