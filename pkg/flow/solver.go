package flow

import (
	"math"
	"sort"

	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/sampler"
)

// Solver computes post-damage productive capacity for a facility. It is
// stateless between calls and deterministic: the same model and damage
// assignment always yield the same flows.
type Solver struct {
	fac    *model.Facility
	tables fragility.Set
}

// NewSolver creates a capacity solver over a built facility.
func NewSolver(fac *model.Facility, tables fragility.Set) *Solver {
	return &Solver{fac: fac, tables: tables}
}

// Factors returns the effective capacity factor per node for a damage
// assignment: the node's own residual functionality, scaled down by any
// upstream dependency node feeding it.
func (s *Solver) Factors(damage sampler.Assignment) []float64 {
	factors := make([]float64, len(s.fac.Nodes))
	for i, n := range s.fac.Nodes {
		factors[i] = s.tables[n.Type].Functionality(damage[i])
	}
	for _, e := range s.fac.Edges {
		fi, _ := s.fac.Index(e.From)
		ti, _ := s.fac.Index(e.To)
		if s.fac.Nodes[fi].Role == model.RoleDependency {
			factors[ti] *= factors[fi]
		}
	}
	return factors
}

// Capacities returns the fractional capacity of each output line, in
// priority order, for the given damage assignment. Each value is
// achieved-flow over nominal demand, clamped to [0,1].
func (s *Solver) Capacities(damage sampler.Assignment) []float64 {
	factors := s.Factors(damage)
	outputs := s.fac.OutputsByPriority()
	fracs := make([]float64, len(outputs))
	for k, oi := range outputs {
		fracs[k] = s.outputFraction(factors, oi)
	}
	return fracs
}

// CommodityFlows returns the achievable flow per commodity type into the
// given output node, in flow units.
func (s *Solver) CommodityFlows(damage sampler.Assignment, output int) map[string]float64 {
	return s.commodityFlows(s.Factors(damage), output)
}

// Commodities returns the commodity type names in deterministic order.
func (s *Solver) Commodities() []string {
	names := make([]string, 0, len(s.fac.SupplyByCommodity()))
	for c := range s.fac.SupplyByCommodity() {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

func (s *Solver) outputFraction(factors []float64, output int) float64 {
	demand := s.fac.Nodes[output].Demand
	if demand <= 0 {
		return 0
	}
	available := math.Inf(1)
	for _, fl := range s.commodityFlows(factors, output) {
		if fl < available {
			available = fl
		}
	}
	frac := available / demand
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	return frac
}

// commodityFlows builds one flow network per commodity with a super-source
// over that commodity's supply nodes, and measures max flow to the output.
// Every output line requires every commodity, so the binding commodity
// determines the line's capacity.
func (s *Solver) commodityFlows(factors []float64, output int) map[string]float64 {
	flows := make(map[string]float64, len(s.fac.SupplyByCommodity()))
	nominal := s.fac.NominalDemand()
	for commodity, supplies := range s.fac.SupplyByCommodity() {
		nw := s.buildNetwork(factors)
		super := 2 * len(s.fac.Nodes)
		for _, si := range supplies {
			nw.addArc(super, 2*si, s.fac.Nodes[si].CapFraction*nominal)
		}
		flows[commodity] = nw.maxFlow(super, 2*output+1)
	}
	return flows
}

// buildNetwork expands the facility into a split-node flow network:
// facility node i becomes in-node 2i and out-node 2i+1 joined by an arc
// carrying the node's residual capacity, so damaged components constrain
// throughput. Index 2n is reserved for the super-source.
func (s *Solver) buildNetwork(factors []float64) *network {
	n := len(s.fac.Nodes)
	nw := newNetwork(2*n + 1)
	for i, node := range s.fac.Nodes {
		nw.addArc(2*i, 2*i+1, effectiveCapacity(node.Capacity, factors[i]))
	}
	for _, e := range s.fac.Edges {
		fi, _ := s.fac.Index(e.From)
		ti, _ := s.fac.Index(e.To)
		nw.addArc(2*fi+1, 2*ti, edgeCapacity(e.Capacity))
		if e.Bidirectional {
			nw.addArc(2*ti+1, 2*fi, edgeCapacity(e.Capacity))
		}
	}
	return nw
}

// edgeCapacity treats a zero capacity as unconstrained, same as nodes.
func edgeCapacity(nominal float64) float64 {
	if nominal == 0 {
		return math.Inf(1)
	}
	return nominal
}

// effectiveCapacity treats a zero nominal capacity as unconstrained, which
// lets junction-style transhipment nodes be declared without an artificial
// bound. A zero factor always closes the node.
func effectiveCapacity(nominal, factor float64) float64 {
	if factor <= 0 {
		return 0
	}
	if nominal == 0 {
		return math.Inf(1)
	}
	return nominal * factor
}
