package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeehio/sifra/pkg/fragility"
	"github.com/zeehio/sifra/pkg/model"
)

func testFacility(t *testing.T) (*model.Facility, fragility.Set) {
	t.Helper()
	f, err := model.Build(&model.Definition{
		Name: "sampler-test",
		Nodes: []model.Node{
			{ID: "s", Type: "pump", Role: model.RoleSupply, Commodity: "water", CapFraction: 1},
			{ID: "a", Type: "pump", Role: model.RoleTranshipment, Capacity: 10},
			{ID: "b", Type: "pump", Role: model.RoleTranshipment, Capacity: 10},
			{ID: "o", Type: "pump", Role: model.RoleOutput, Demand: 10, Priority: 1},
		},
		Edges: []model.Edge{
			{From: "s", To: "a"}, {From: "a", To: "b"}, {From: "b", To: "o"},
		},
	})
	require.NoError(t, err)

	tables := fragility.Set{"pump": {States: []fragility.DamageState{
		{Name: "slight", Curve: fragility.Curve{Median: 0.4, Beta: 0.4}, DamageRatio: 0.1, Functionality: 0.9, RecoveryMean: 3, RecoveryStd: 1},
		{Name: "extensive", Curve: fragility.Curve{Median: 0.9, Beta: 0.4}, DamageRatio: 0.6, Functionality: 0.3, RecoveryMean: 15, RecoveryStd: 5},
		{Name: "complete", Curve: fragility.Curve{Median: 1.5, Beta: 0.4}, DamageRatio: 1.0, Functionality: 0.0, RecoveryMean: 40, RecoveryStd: 12},
	}}}
	return f, tables
}

func TestSampleZeroIntensity(t *testing.T) {
	f, tables := testFacility(t)
	s := New(f, tables)

	a := s.Sample(0, NewRNG(42, 0))
	assert.Equal(t, Undamaged(len(f.Nodes)), a, "zero intensity must damage nothing")
}

func TestSampleStateBounds(t *testing.T) {
	f, tables := testFacility(t)
	s := New(f, tables)

	for trial := 0; trial < 50; trial++ {
		for _, pga := range []float64{0.1, 0.5, 1.0, 2.5} {
			a := s.Sample(pga, NewRNG(7, trial))
			require.Len(t, a, len(f.Nodes))
			for i, state := range a {
				assert.GreaterOrEqual(t, state, 0, "node %d", i)
				assert.LessOrEqual(t, state, tables["pump"].NumStates(), "node %d", i)
			}
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	f, tables := testFacility(t)
	s := New(f, tables)

	first := s.Sample(0.8, NewRNG(42, 3))
	second := s.Sample(0.8, NewRNG(42, 3))
	assert.Equal(t, first, second, "same seed and trial must reproduce the draw")
}

func TestAssignmentClone(t *testing.T) {
	a := Assignment{0, 2, 1}
	c := a.Clone()
	c[1] = 3
	assert.Equal(t, 2, a[1], "clone must not alias the original")
}
