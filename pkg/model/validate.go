package model

import (
	"fmt"
	"math"

	"github.com/zeehio/sifra/pkg/validation"
)

// Validate runs structural checks on a built facility. All configuration
// errors are collected so a single run reports every offending node or edge.
func Validate(f *Facility) *validation.Report {
	report := validation.NewReport()

	if len(f.supplyByCommodity) == 0 {
		report.AddError(validation.Result{
			Level:   validation.LevelModel,
			Message: "facility has no supply nodes",
		})
	}
	if len(f.outputs) == 0 {
		report.AddError(validation.Result{
			Level:   validation.LevelModel,
			Message: "facility has no output nodes",
		})
	}

	seenPriority := make(map[int]string)
	for _, n := range f.Nodes {
		if n.Capacity < 0 {
			report.AddError(validation.Result{
				Level:       validation.LevelModel,
				Message:     "negative node capacity",
				Component:   n.ID,
				ActualValue: n.Capacity,
				Expected:    ">= 0",
			})
		}
		if n.CostFraction < 0 || n.CostFraction > 1 {
			report.AddWarning(validation.Result{
				Level:       validation.LevelModel,
				Message:     "cost fraction outside [0,1]",
				Component:   n.ID,
				ActualValue: n.CostFraction,
			})
		}

		switch n.Role {
		case RoleSupply, RoleOutput, RoleDependency, RoleTranshipment:
		default:
			report.AddError(validation.Result{
				Level:       validation.LevelModel,
				Message:     "unknown node role",
				Component:   n.ID,
				ActualValue: string(n.Role),
				Expected:    "supply|output|dependency|transhipment",
			})
		}

		if n.Role == RoleOutput {
			if n.Demand <= 0 {
				report.AddError(validation.Result{
					Level:       validation.LevelModel,
					Message:     "output node requires a positive demand",
					Component:   n.ID,
					ActualValue: n.Demand,
					Expected:    "> 0",
				})
			}
			if prev, dup := seenPriority[n.Priority]; dup {
				report.AddError(validation.Result{
					Level:       validation.LevelModel,
					Message:     fmt.Sprintf("restoration priority %d already assigned to %s", n.Priority, prev),
					Component:   n.ID,
					ActualValue: n.Priority,
					Expected:    "unique priority rank",
				})
			}
			seenPriority[n.Priority] = n.ID
		}

		if n.Role == RoleSupply && (n.CapFraction <= 0 || n.CapFraction > 1) {
			report.AddError(validation.Result{
				Level:       validation.LevelModel,
				Message:     "supply capacity fraction must be in (0,1]",
				Component:   n.ID,
				ActualValue: n.CapFraction,
			})
		}
	}

	for _, e := range f.Edges {
		if e.Capacity < 0 {
			report.AddError(validation.Result{
				Level:       validation.LevelModel,
				Message:     "negative edge capacity",
				Component:   fmt.Sprintf("%s->%s", e.From, e.To),
				ActualValue: e.Capacity,
				Expected:    ">= 0",
			})
		}
	}

	// Dependency nodes must feed something downstream.
	for i, n := range f.Nodes {
		if n.Role == RoleDependency && len(f.out[i]) == 0 {
			report.AddError(validation.Result{
				Level:     validation.LevelModel,
				Message:   "dependency node has no outgoing edges",
				Component: n.ID,
			})
		}
	}

	// Supply fractions per commodity should cover the full commodity.
	for commodity, idxs := range f.supplyByCommodity {
		var sum float64
		for _, i := range idxs {
			sum += f.Nodes[i].CapFraction
		}
		if math.Abs(sum-1.0) > 1e-9 {
			report.AddWarning(validation.Result{
				Level:       validation.LevelModel,
				Message:     fmt.Sprintf("supply fractions for commodity %q sum to %.3f", commodity, sum),
				ActualValue: sum,
				Expected:    "1.0",
			})
		}
	}

	// Every output must be reachable from at least one supply node,
	// respecting edge directionality. Unreachable outputs are reported,
	// never silently dropped.
	reached := f.reachableFromSupply()
	for _, oi := range f.outputs {
		if !reached[oi] {
			report.AddError(validation.Result{
				Level:     validation.LevelModel,
				Message:   "output node unreachable from any supply node",
				Component: f.Nodes[oi].ID,
			})
		}
	}

	if report.Valid {
		report.AddInfo(validation.Result{
			Level: validation.LevelModel,
			Message: fmt.Sprintf("facility %q: %d nodes, %d edges, %d commodities, %d output lines",
				f.Name, len(f.Nodes), len(f.Edges), len(f.supplyByCommodity), len(f.outputs)),
		})
	}
	return report
}

// reachableFromSupply runs a BFS from all supply nodes over traversable edges.
func (f *Facility) reachableFromSupply() []bool {
	reached := make([]bool, len(f.Nodes))
	var queue []int
	for _, idxs := range f.supplyByCommodity {
		for _, i := range idxs {
			if !reached[i] {
				reached[i] = true
				queue = append(queue, i)
			}
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, ei := range f.out[u] {
			v := f.Neighbor(u, ei)
			if !reached[v] {
				reached[v] = true
				queue = append(queue, v)
			}
		}
	}
	return reached
}
