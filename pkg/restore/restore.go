package restore

// Config holds the resource and timing constraints for one restoration run.
// All times are in scenario time units.
type Config struct {
	// Streams bounds how many components may be under repair at once.
	Streams int
	// Offset delays the first repair start after the event, covering
	// damage assessment and site securing.
	Offset float64
	// CommissionBuffer extends every repair with testing and commissioning.
	CommissionBuffer float64
	// RelocationTime replaces the repair duration when an idle donor
	// component is relocated instead of repairing in place.
	RelocationTime float64
	// Horizon caps the simulated restoration window. Lines not restored by
	// then are reported as horizon-exceeded, not failed.
	Horizon float64
	// Step is the trajectory sampling granularity.
	Step float64
	// Threshold is the capacity fraction at which a line counts as restored.
	Threshold float64
	// Cannibalize enables donor relocation from lower-priority lines.
	Cannibalize bool
}

// Task is one scheduled repair: a node, the output line it serves, and its
// window on the restoration timeline. Donor is set when the work is a
// relocation of an undamaged spare rather than an in-place repair.
type Task struct {
	Node     string  `json:"node"`
	Output   string  `json:"output"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Donor    string  `json:"donor,omitempty"`
}

// Trajectory is the functionality-vs-time curve of one output line,
// sampled on the configured time grid.
type Trajectory struct {
	Output string    `json:"output"`
	Times  []float64 `json:"times"`
	Levels []float64 `json:"levels"`
}

// LineOutcome summarises one output line for a trial.
type LineOutcome struct {
	Output          string  `json:"output"`
	Initial         float64 `json:"initial"`
	Final           float64 `json:"final"`
	RestoredAt      float64 `json:"restored_at"`
	HorizonExceeded bool    `json:"horizon_exceeded,omitempty"`
	Infeasible      bool    `json:"infeasible,omitempty"`
}

// Plan is the complete restoration outcome for one trial: the ordered
// repair schedule, per-line trajectories and summary outcomes. Immutable
// once the trial completes.
type Plan struct {
	Tasks        []Task        `json:"tasks"`
	Trajectories []Trajectory  `json:"trajectories"`
	Lines        []LineOutcome `json:"lines"`
	Complete     bool          `json:"complete"`
	Infeasible   bool          `json:"infeasible,omitempty"`
}
