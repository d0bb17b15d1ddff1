package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeehio/sifra/pkg/scenario"
)

func sweepScenario() *scenario.Scenario {
	sc := &scenario.Scenario{
		Name:               "sweep",
		PGAMin:             0.3,
		PGAMax:             0.6,
		PGAStep:            0.3,
		Samples:            10,
		RestoreHorizon:     200,
		RestoreStep:        1,
		RestoreOffset:      2,
		CommissionBuffer:   1,
		RestorationStreams: []int{1, 2},
		Threshold:          0.95,
		Seed:               7,
		Workers:            2,
	}
	sc.Normalize()
	return sc
}

func TestEngineRun(t *testing.T) {
	f, tables := testFacility(t)
	engine := New(f, tables, sweepScenario())

	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "chain", res.Facility)
	assert.Equal(t, "sweep", res.Scenario)
	require.Len(t, res.Intensities, 2)

	for _, ir := range res.Intensities {
		assert.Equal(t, 10, ir.Trials)
		require.Len(t, ir.Outputs, 1)
		assert.GreaterOrEqual(t, ir.Outputs[0].Capacity.Mean, 0.0)
		assert.LessOrEqual(t, ir.Outputs[0].Capacity.Mean, 1.0)

		assert.Len(t, ir.Fragility, 4)
		assert.Len(t, ir.Restoration, 2, "one block per stream setting per output")
		assert.Empty(t, ir.Plans)
	}

	// More shaking cannot mean less expected loss.
	assert.LessOrEqual(t, res.Intensities[0].Loss.Mean, res.Intensities[1].Loss.Mean+1e-9)
}

func TestEngineDeterministic(t *testing.T) {
	f, tables := testFacility(t)

	first, err := New(f, tables, sweepScenario()).Run(context.Background())
	require.NoError(t, err)
	second, err := New(f, tables, sweepScenario()).Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Intensities, second.Intensities,
		"same seed must reproduce every statistic")
}

func TestEngineKeepPlans(t *testing.T) {
	f, tables := testFacility(t)
	engine := New(f, tables, sweepScenario())
	engine.KeepPlans = true

	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	for _, ir := range res.Intensities {
		assert.Len(t, ir.Plans, 20, "one plan per trial per stream setting")
		for _, tp := range ir.Plans {
			require.NotNil(t, tp.Plan)
			assert.Len(t, tp.Plan.Lines, 1)
		}
	}
}

func TestEngineCancelled(t *testing.T) {
	f, tables := testFacility(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(f, tables, sweepScenario()).Run(ctx)
	assert.Error(t, err)
}
