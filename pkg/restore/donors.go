package restore

import "github.com/zeehio/sifra/pkg/model"

// findDonor looks for an undamaged component of the same type that can be
// relocated to replace node v. A candidate qualifies only when every output
// line it feeds has strictly lower priority than the line being restored,
// so the relocation never robs an equal or more important line. The
// smallest qualifying node ID wins, keeping the choice deterministic.
func (s *Scheduler) findDonor(ps *planState, v, output int) int {
	want := s.fac.Nodes[v].Type
	pri := s.fac.Nodes[output].Priority

	best := -1
	for di, n := range s.fac.Nodes {
		if di == v || n.Type != want {
			continue
		}
		if n.Role == model.RoleSupply || n.Role == model.RoleOutput {
			continue
		}
		if ps.hyp[di] != 0 || ps.scheduled[di] || ps.donorsUsed[di] {
			continue
		}
		if !s.feedsOnlyLowerPriority(di, pri) {
			continue
		}
		if best < 0 || s.fac.Nodes[di].ID < s.fac.Nodes[best].ID {
			best = di
		}
	}
	return best
}

// feedsOnlyLowerPriority reports whether every output reachable downstream
// of node i has priority strictly below pri (higher priority number).
// A node that reaches no output at all is idle and also qualifies.
func (s *Scheduler) feedsOnlyLowerPriority(i, pri int) bool {
	seen := make([]bool, len(s.fac.Nodes))
	seen[i] = true
	queue := []int{i}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, ei := range s.fac.Out(u) {
			w := s.fac.Neighbor(u, ei)
			if seen[w] {
				continue
			}
			seen[w] = true
			if s.fac.Nodes[w].Role == model.RoleOutput && s.fac.Nodes[w].Priority <= pri {
				return false
			}
			queue = append(queue, w)
		}
	}
	return true
}
