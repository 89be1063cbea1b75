package sa

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostering/internal/roster"
)

// coverable: каждый слот требует одного сотрудника с навыком 0, и все им владеют.
func coverable(t *testing.T) *roster.Instance {
	t.Helper()
	inst, err := roster.NewInstance(3, 3, 1,
		[][]int{{1}, {1}, {1}},
		[][]int{{1}, {1}, {1}},
	)
	require.NoError(t, err)
	return inst
}

func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.Iterations = 2000
	cfg.InitialTemp = 2
	cfg.Alpha = 0.99
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Iterations, c.IterationsPerCell = 0, 0 },
		func(c *Config) { c.InitialTemp = 0 },
		func(c *Config) { c.FinalTemp = 0 },
		func(c *Config) { c.FinalTemp = c.InitialTemp },
		func(c *Config) { c.Alpha = 1 },
		func(c *Config) { c.Neighborhood = "insert" },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}

func TestNew_NilRng(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	require.Error(t, err)
}

func TestSolve_FindsFullCover(t *testing.T) {
	inst := coverable(t)
	for _, nb := range []Neighborhood{NeighborhoodReassign, NeighborhoodSwap} {
		t.Run(string(nb), func(t *testing.T) {
			cfg := quickConfig()
			cfg.Neighborhood = nb
			s, err := New(cfg, rand.New(rand.NewSource(1)))
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), inst)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Objective)
			require.NoError(t, roster.ValidateAssignment(inst, res.Assignment))

			ev, err := roster.NewEvaluator(inst)
			require.NoError(t, err)
			assert.Equal(t, res.Objective, ev.MustTotalMissed(res.Assignment))
			assert.Equal(t, string(nb), res.Meta["neighborhood"])
		})
	}
}

func TestSolve_ObjectiveMatchesEvaluator(t *testing.T) {
	inst := roster.MustRandomInstance(6, 5, 3, 0.4, 2, rand.New(rand.NewSource(21)))
	s, err := New(quickConfig(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)

	ev, err := roster.NewEvaluator(inst)
	require.NoError(t, err)
	assert.Equal(t, ev.MustTotalMissed(res.Assignment), res.Objective)
	assert.LessOrEqual(t, res.Objective, inst.TotalDemand())
	assert.Positive(t, res.Iterations)
	assert.GreaterOrEqual(t, res.Evaluations, 1)
}

func TestSolve_Deterministic(t *testing.T) {
	inst := roster.MustRandomInstance(5, 4, 2, 0.5, 2, rand.New(rand.NewSource(8)))
	run := func() int {
		s, err := New(quickConfig(), rand.New(rand.NewSource(77)))
		require.NoError(t, err)
		res, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		return res.Objective
	}
	assert.Equal(t, run(), run())
}

func TestSolve_ContextCanceled(t *testing.T) {
	inst := coverable(t)
	s, err := New(quickConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Solve(ctx, inst)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
	assert.NotNil(t, res.Assignment)
}
