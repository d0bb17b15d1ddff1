package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeehio/sifra/pkg/sampler"
)

func ids(path []int, f *Solver) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = f.fac.Nodes[v].ID
	}
	return out
}

func TestRepairPathPrefersCheaperRepair(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	// a needs 3 days, b needs 10: the path through a wins.
	damage := sampler.Assignment{0, 0, 1, 2, 0, 0}
	path, cost, ok := s.RepairPath(damage, nil, []int{0}, 5, true)
	require.True(t, ok)
	assert.Equal(t, []string{"s_coal", "a", "o"}, ids(path, s))
	assert.InDelta(t, 3, cost, 1e-9)
}

func TestRepairPathSkipsScheduled(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	damage := sampler.Assignment{0, 0, 1, 2, 0, 0}
	scheduled := make([]bool, len(f.Nodes))
	scheduled[2] = true // a already queued

	path, cost, ok := s.RepairPath(damage, scheduled, []int{0}, 5, true)
	require.True(t, ok)
	assert.Equal(t, []string{"s_coal", "b", "o"}, ids(path, s))
	assert.InDelta(t, 10, cost, 1e-9)
}

func TestRepairPathTieBreaksOnID(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	// Both trains equally damaged: the lexicographically smaller path wins.
	damage := sampler.Assignment{0, 0, 1, 1, 0, 0}
	path, _, ok := s.RepairPath(damage, nil, []int{0}, 5, true)
	require.True(t, ok)
	assert.Equal(t, []string{"s_coal", "a", "o"}, ids(path, s))
}

func TestRepairPathRequiresDamage(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	// Nothing damaged: no path qualifies for the Identify question.
	_, _, ok := s.RepairPath(sampler.Undamaged(len(f.Nodes)), nil, []int{0}, 5, true)
	assert.False(t, ok)

	// The unconstrained query still answers with an intact path.
	path, cost, ok := s.RepairPath(sampler.Undamaged(len(f.Nodes)), nil, []int{0}, 5, false)
	require.True(t, ok)
	assert.Zero(t, cost)
	assert.Equal(t, "s_coal", ids(path, s)[0])
	assert.Equal(t, "o", ids(path, s)[len(path)-1])
}

func TestRepairPathNoRoute(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	// The output node has no outgoing arcs, so nothing upstream of it is
	// reachable when it is the source.
	damage := sampler.Assignment{0, 0, 1, 1, 0, 0}
	_, _, ok := s.RepairPath(damage, nil, []int{5}, 0, true)
	assert.False(t, ok)
}
