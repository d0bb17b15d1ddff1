package restore

import (
	"github.com/zeehio/sifra/pkg/flow"
	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/sampler"
)

// Scheduler turns a damage assignment into a restoration plan. One
// scheduler may serve many trials; Run shares no state between calls.
type Scheduler struct {
	fac    *model.Facility
	tables fragility.Set
	solver *flow.Solver
	cfg    Config
}

// NewScheduler creates a restoration scheduler for a built facility.
func NewScheduler(fac *model.Facility, tables fragility.Set, cfg Config) *Scheduler {
	return &Scheduler{
		fac:    fac,
		tables: tables,
		solver: flow.NewSolver(fac, tables),
		cfg:    cfg,
	}
}

// queuedRepair is one entry in the global repair queue, tagged with the
// output line whose restoration demanded it. State is the damage state the
// node held when queued, which for a previously donated component is the
// complete state rather than the original draw. Donor is the arena index
// of a relocated spare, or -1 for an in-place repair.
type queuedRepair struct {
	node   int
	output int
	state  int
	donor  int
}

// planState carries the Scan/Identify bookkeeping: queued is the global
// priority-ordered repair queue, hyp is the hypothetical damage state in
// which queued repairs are treated as done (and cannibalized donors as
// removed), and infeasible marks output lines with no achievable supply
// path even at full repair.
type planState struct {
	queued     []queuedRepair
	scheduled  []bool
	hyp        sampler.Assignment
	donorsUsed map[int]bool
	infeasible map[int]bool
}

// Run simulates the restoration of the given damage assignment through the
// Scan, Identify and Execute states to completion or the time horizon.
// Running on an undamaged assignment yields an empty plan.
func (s *Scheduler) Run(damage sampler.Assignment) *Plan {
	initial := s.solver.Capacities(damage)
	ps := s.plan(damage)
	return s.execute(damage, initial, ps)
}

// plan walks the output lines in priority order, alternating between Scan
// (is the line feasible given everything queued so far?) and Identify
// (queue the least-cost path that adds capacity). A line may need several
// Identify rounds when demand requires parallel supply paths or multiple
// commodities.
func (s *Scheduler) plan(damage sampler.Assignment) *planState {
	ps := &planState{
		scheduled:  make([]bool, len(s.fac.Nodes)),
		hyp:        damage.Clone(),
		donorsUsed: make(map[int]bool),
		infeasible: make(map[int]bool),
	}

	for _, oi := range s.fac.OutputsByPriority() {
		for {
			if s.lineFeasible(ps.hyp, oi) {
				break // Scan passed; next output.
			}
			if !s.identify(ps, damage, oi) {
				ps.infeasible[oi] = true
				break
			}
		}
	}
	return ps
}

// lineFeasible is the Scan test: every commodity must be able to deliver
// the line's demand under the hypothetical damage state.
func (s *Scheduler) lineFeasible(hyp sampler.Assignment, output int) bool {
	demand := s.fac.Nodes[output].Demand
	for _, fl := range s.solver.CommodityFlows(hyp, output) {
		if fl < s.cfg.Threshold*demand {
			return false
		}
	}
	return true
}

// identify queues the damaged nodes on the least-cost restorable path for
// each deficient commodity, plus any damaged dependency chains feeding the
// output. Returns false when no queueable path remains, which means the
// line cannot be restored even with every remaining repair done.
func (s *Scheduler) identify(ps *planState, damage sampler.Assignment, output int) bool {
	demand := s.fac.Nodes[output].Demand
	flows := s.solver.CommodityFlows(ps.hyp, output)
	progressed := false

	for _, commodity := range s.solver.Commodities() {
		if flows[commodity] >= s.cfg.Threshold*demand {
			continue
		}
		sources := s.fac.SupplyByCommodity()[commodity]
		path, _, ok := s.solver.RepairPath(ps.hyp, ps.scheduled, sources, output, true)
		if !ok {
			continue
		}
		if s.enqueuePath(ps, path, output) {
			progressed = true
		}
	}

	// Damaged dependency chains reduce downstream capacity without sitting
	// on the commodity flow path; restore them alongside the line they serve.
	for di, n := range s.fac.Nodes {
		if n.Role != model.RoleDependency || ps.hyp[di] == 0 || ps.scheduled[di] {
			continue
		}
		path, _, ok := s.solver.RepairPath(ps.hyp, ps.scheduled, []int{di}, output, true)
		if !ok {
			continue
		}
		if s.enqueuePath(ps, path, output) {
			progressed = true
		}
	}

	return progressed
}

// enqueuePath appends the damaged, unscheduled nodes of a path to the
// repair queue in path order, which respects intra-path dependencies
// (upstream nodes first). Each node is checked for a cannibalization donor
// before being queued as an in-place repair.
func (s *Scheduler) enqueuePath(ps *planState, path []int, output int) bool {
	progressed := false
	for _, v := range path {
		if ps.hyp[v] == 0 || ps.scheduled[v] {
			continue
		}
		donor := -1
		if s.cfg.Cannibalize {
			donor = s.findDonor(ps, v, output)
		}
		ps.queued = append(ps.queued, queuedRepair{node: v, output: output, state: ps.hyp[v], donor: donor})
		ps.scheduled[v] = true
		ps.hyp[v] = 0 // treated as repaired for subsequent scans
		if donor >= 0 {
			ps.donorsUsed[donor] = true
			ps.hyp[donor] = s.tables[s.fac.Nodes[donor].Type].NumStates()
		}
		progressed = true
	}
	return progressed
}
