package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostering/internal/roster"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Iterations, c.IterationsPerCell = 0, 0 },
		func(c *Config) { c.TabuTenure = 0 },
		func(c *Config) { c.TabuTenureRand = -1 },
		func(c *Config) { c.NeighborsPerIter = 0 },
		func(c *Config) { c.Neighborhood = "insert" },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}

func TestSolve_FindsFullCover(t *testing.T) {
	inst, err := roster.NewInstance(4, 3, 2,
		[][]int{{1, 0}, {0, 1}, {1, 1}},
		[][]int{{1, 1}, {1, 0}, {0, 1}, {1, 1}},
	)
	require.NoError(t, err)

	for _, nb := range []Neighborhood{NeighborhoodReassign, NeighborhoodSwap} {
		t.Run(string(nb), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Neighborhood = nb
			cfg.Iterations = 300
			s, err := New(cfg, rand.New(rand.NewSource(3)))
			require.NoError(t, err)

			res, err := s.Solve(context.Background(), inst)
			require.NoError(t, err)
			assert.Equal(t, 0, res.Objective)
			assert.LessOrEqual(t, res.Iterations, 300)

			ev, err := roster.NewEvaluator(inst)
			require.NoError(t, err)
			assert.Equal(t, 0, ev.MustTotalMissed(res.Assignment))
		})
	}
}

func TestSolve_ObjectiveMatchesEvaluator(t *testing.T) {
	inst := roster.MustRandomInstance(6, 5, 3, 0.4, 3, rand.New(rand.NewSource(4)))
	cfg := DefaultConfig()
	cfg.Iterations = 100
	s, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	ev, err := roster.NewEvaluator(inst)
	require.NoError(t, err)
	assert.Equal(t, ev.MustTotalMissed(res.Assignment), res.Objective)
}

func TestSolve_NoSkills(t *testing.T) {
	// ни у кого нет навыков: все ходы пустые, поиск завершается сразу
	inst, err := roster.NewInstance(2, 2, 1, [][]int{{0}, {0}}, [][]int{{1}, {2}})
	require.NoError(t, err)
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Objective)
	assert.Equal(t, 0, res.Iterations)
}

func TestSolve_ContextCanceled(t *testing.T) {
	inst := roster.MustRandomInstance(3, 3, 2, 0.5, 2, rand.New(rand.NewSource(4)))
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Solve(ctx, inst)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTabuList(t *testing.T) {
	tl := newTabuList(8)
	m := roster.Move{Slot: 1, First: 2, Second: -1, OldFirst: 0, NewFirst: 3}

	assert.False(t, tl.IsTabu(m, 0))
	tl.Add(cellKey(2, 1, 3), 5)
	assert.True(t, tl.IsTabu(m, 4))
	assert.False(t, tl.IsTabu(m, 5), "истёкший запрет не действует")

	// вытеснение из кольца
	for i := 0; i < 8; i++ {
		tl.Add(cellKey(9, i, 0), 100)
	}
	assert.False(t, tl.IsTabu(m, 4))

	swap := roster.Move{Slot: 0, First: 0, Second: 1, OldFirst: 1, NewFirst: 2, OldSecond: 2, NewSecond: 1}
	tl.Add(cellKey(1, 0, 1), 10)
	assert.True(t, tl.IsTabu(swap, 3))
}
