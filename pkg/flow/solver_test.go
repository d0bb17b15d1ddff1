package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
	"github.com/zeehio/sifra/pkg/sampler"
)

// testFacility is a two-train plant: coal and water supplies feed parallel
// trains a and b (50 units each) into output o with demand 100, and a
// control node feeds both trains as a dependency.
//
// Arena order: s_coal=0, s_water=1, a=2, b=3, ctrl=4, o=5.
func testFacility(t *testing.T) (*model.Facility, fragility.Set) {
	t.Helper()
	f, err := model.Build(&model.Definition{
		Name: "two-train",
		Nodes: []model.Node{
			{ID: "s_coal", Type: "source", Role: model.RoleSupply, Commodity: "coal", CapFraction: 1},
			{ID: "s_water", Type: "source", Role: model.RoleSupply, Commodity: "water", CapFraction: 1},
			{ID: "a", Type: "train", Role: model.RoleTranshipment, Capacity: 50},
			{ID: "b", Type: "train", Role: model.RoleTranshipment, Capacity: 50},
			{ID: "ctrl", Type: "control", Role: model.RoleDependency},
			{ID: "o", Type: "gate", Role: model.RoleOutput, Demand: 100, Priority: 1},
		},
		Edges: []model.Edge{
			{From: "s_coal", To: "a"},
			{From: "s_coal", To: "b"},
			{From: "s_water", To: "a"},
			{From: "s_water", To: "b"},
			{From: "a", To: "o"},
			{From: "b", To: "o"},
			{From: "ctrl", To: "a"},
			{From: "ctrl", To: "b"},
		},
	})
	require.NoError(t, err)

	halfThenDead := func() fragility.Table {
		return fragility.Table{States: []fragility.DamageState{
			{Name: "moderate", Curve: fragility.Curve{Median: 0.5, Beta: 0.4}, DamageRatio: 0.3, Functionality: 0.5, RecoveryMean: 3, RecoveryStd: 1},
			{Name: "complete", Curve: fragility.Curve{Median: 1.2, Beta: 0.4}, DamageRatio: 1.0, Functionality: 0.0, RecoveryMean: 10, RecoveryStd: 3},
		}}
	}
	tables := fragility.Set{
		"source":  halfThenDead(),
		"train":   halfThenDead(),
		"control": halfThenDead(),
		"gate":    halfThenDead(),
	}
	return f, tables
}

func TestCapacitiesUndamaged(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	caps := s.Capacities(sampler.Undamaged(len(f.Nodes)))
	require.Len(t, caps, 1)
	assert.InDelta(t, 1.0, caps[0], 1e-9, "undamaged facility must deliver full demand")
}

func TestCapacitiesDamagedTrain(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	damage := sampler.Undamaged(len(f.Nodes))
	damage[2] = 2 // train a complete
	caps := s.Capacities(damage)
	assert.InDelta(t, 0.5, caps[0], 1e-9, "one dead train of two halves the line")

	damage[3] = 2 // train b complete too
	caps = s.Capacities(damage)
	assert.InDelta(t, 0.0, caps[0], 1e-9)
}

func TestCapacityMonotoneUnderRepair(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	damage := sampler.Assignment{0, 0, 2, 1, 0, 0}
	prev := s.Capacities(damage)[0]
	assert.InDelta(t, 0.25, prev, 1e-9, "dead a plus half b leaves a quarter")

	damage[3] = 0 // repair b
	cur := s.Capacities(damage)[0]
	assert.GreaterOrEqual(t, cur, prev)
	assert.InDelta(t, 0.5, cur, 1e-9)

	damage[2] = 0 // repair a
	cur = s.Capacities(damage)[0]
	assert.InDelta(t, 1.0, cur, 1e-9, "full repair restores full capacity")
}

func TestDependencyScalesDownstream(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	damage := sampler.Undamaged(len(f.Nodes))
	damage[4] = 1 // control at half functionality

	factors := s.Factors(damage)
	assert.InDelta(t, 0.5, factors[2], 1e-9)
	assert.InDelta(t, 0.5, factors[3], 1e-9)

	caps := s.Capacities(damage)
	assert.InDelta(t, 0.5, caps[0], 1e-9, "degraded control halves both trains")
}

func TestCommodityBindsLine(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)

	damage := sampler.Undamaged(len(f.Nodes))
	damage[1] = 2 // water supply dead

	flows := s.CommodityFlows(damage, 5)
	assert.InDelta(t, 100, flows["coal"], 1e-9)
	assert.InDelta(t, 0, flows["water"], 1e-9)

	caps := s.Capacities(damage)
	assert.InDelta(t, 0, caps[0], 1e-9, "a line without water delivers nothing")
}

func TestCommoditiesSorted(t *testing.T) {
	f, tables := testFacility(t)
	s := NewSolver(f, tables)
	assert.Equal(t, []string{"coal", "water"}, s.Commodities())
}
