package flow

import (
	"github.com/zeehio/sifra/pkg/sampler"
)

// RepairPath finds the least-cost path from any of the given source nodes
// to the sink, where the cost of a path is the summed outstanding repair
// time of damaged, not-yet-scheduled nodes on it. With requireDamaged set,
// only paths carrying at least one damaged unscheduled node qualify: that
// is the Identify question, "which path do we restore next", where a path
// that is already whole adds nothing.
//
// Ties resolve to the path with the fewest nodes, then to the
// lexicographically smallest sequence of node IDs, so the choice is
// deterministic and observable.
//
// Returns the path as node indexes from source to sink, its cost, and
// whether a qualifying path exists.
func (s *Solver) RepairPath(damage sampler.Assignment, scheduled []bool, sources []int, sink int, requireDamaged bool) ([]int, float64, bool) {
	n := len(s.fac.Nodes)

	counts := func(v int) bool {
		return damage[v] > 0 && (scheduled == nil || !scheduled[v])
	}
	nodeCost := func(v int) float64 {
		if !counts(v) {
			return 0
		}
		return s.tables[s.fac.Nodes[v].Type].MeanRepairTime(damage[v])
	}

	// Search over (node, touched-damage) pairs: layer 1 holds paths that
	// already include a damaged unscheduled node. Layer index v, layer*n+v.
	size := 2 * n
	const unreached = -1
	cost := make([]float64, size)
	hops := make([]int, size)
	seq := make([]string, size)
	parent := make([]int, size)
	state := make([]int, size) // unreached, 0 = open, 1 = settled
	for i := range parent {
		parent[i] = unreached
		state[i] = unreached
	}

	relax := func(idx int, c float64, h int, q string, from int) {
		if state[idx] == 1 {
			return
		}
		if state[idx] == unreached || pathLess(c, h, q, cost[idx], hops[idx], seq[idx]) {
			cost[idx], hops[idx], seq[idx] = c, h, q
			parent[idx] = from
			state[idx] = 0
		}
	}

	for _, src := range sources {
		layer := 0
		if counts(src) {
			layer = 1
		}
		idx := layer*n + src
		relax(idx, nodeCost(src), 1, "/"+s.fac.Nodes[src].ID, idx)
	}

	goal := sink
	if requireDamaged {
		goal = n + sink
	}

	// Small graphs: linear-scan selection keeps the tie-break exact without
	// a keyed priority queue.
	for {
		u := -1
		for v := 0; v < size; v++ {
			if state[v] != 0 {
				continue
			}
			if u == -1 || pathLess(cost[v], hops[v], seq[v], cost[u], hops[u], seq[u]) {
				u = v
			}
		}
		if u == -1 {
			break
		}
		state[u] = 1
		if u == goal {
			break
		}

		layer, node := u/n, u%n
		for _, ei := range s.fac.Out(node) {
			v := s.fac.Neighbor(node, ei)
			nextLayer := layer
			if counts(v) {
				nextLayer = 1
			}
			relax(nextLayer*n+v,
				cost[u]+nodeCost(v), hops[u]+1, seq[u]+"/"+s.fac.Nodes[v].ID, u)
		}
	}

	if state[goal] != 1 {
		// A path through the undamaged layer still answers the
		// unconstrained query when the sink was only reached there.
		if !requireDamaged && state[n+sink] == 1 {
			goal = n + sink
		} else {
			return nil, 0, false
		}
	}
	if !requireDamaged && state[sink] == 1 && state[n+sink] == 1 &&
		pathLess(cost[n+sink], hops[n+sink], seq[n+sink], cost[sink], hops[sink], seq[sink]) {
		goal = n + sink
	}

	var rev []int
	for v := goal; ; v = parent[v] {
		rev = append(rev, v%n)
		if parent[v] == v {
			break
		}
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path, cost[goal], true
}

func pathLess(c1 float64, h1 int, q1 string, c2 float64, h2 int, q2 string) bool {
	if c1 != c2 {
		return c1 < c2
	}
	if h1 != h2 {
		return h1 < h2
	}
	return q1 < q2
}
