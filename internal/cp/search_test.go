package cp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bools(s *Store, n int) []*IntVar {
	xs := make([]*IntVar, n)
	for i := range xs {
		xs[i] = s.NewBoolVar("b")
	}
	return xs
}

func TestSearch_SolveEnumeratesAll(t *testing.T) {
	s := NewStore()
	xs := bools(s, 3)

	var seen [][]int
	st, err := NewSearch(s, FirstFail(s, xs...)).Solve(context.Background(),
		WithOnSolution(func() {
			seen = append(seen, []int{xs[0].Value(), xs[1].Value(), xs[2].Value()})
		}))
	require.NoError(t, err)

	assert.True(t, st.Completed)
	assert.Equal(t, 8, st.Solutions)
	assert.Equal(t, 14, st.Nodes)
	assert.Equal(t, 0, st.Failures)
	assert.Equal(t, []int{0, 0, 0}, seen[0])
	assert.Equal(t, []int{1, 1, 1}, seen[7])
	for _, x := range xs {
		assert.Equal(t, 2, x.Size(), "store must be restored")
	}
}

func TestSearch_Limits(t *testing.T) {
	s := NewStore()
	xs := bools(s, 3)
	search := NewSearch(s, FirstFail(s, xs...))

	st, err := search.Solve(context.Background(), WithSolutionLimit(1))
	require.NoError(t, err)
	assert.False(t, st.Completed)
	assert.Equal(t, 1, st.Solutions)

	st, err = search.Solve(context.Background(), WithNodeLimit(3))
	require.NoError(t, err)
	assert.False(t, st.Completed)
	assert.Equal(t, 3, st.Nodes)
	assert.Equal(t, 0, st.Solutions)

	st, err = search.Solve(context.Background(), WithStop(func(st Stats) bool { return st.Solutions >= 2 }))
	require.NoError(t, err)
	assert.False(t, st.Completed)
	assert.Equal(t, 2, st.Solutions)
}

func TestSearch_OptimizeTightensBound(t *testing.T) {
	s := NewStore()
	x, err := s.NewIntVar("x", []int{1, 2, 3})
	require.NoError(t, err)
	y, err := s.NewIntVar("y", []int{2, 3})
	require.NoError(t, err)
	total, err := s.NewIntVarRange("total", 0, 10)
	require.NoError(t, err)
	sum, err := NewSum([]*IntVar{x, y}, total)
	require.NoError(t, err)
	require.NoError(t, s.Post(sum))

	var values []int
	st, err := NewSearch(s, FirstFail(s, y, x)).Optimize(context.Background(), total,
		WithOnSolution(func() { values = append(values, total.Value()) }))
	require.NoError(t, err)

	assert.True(t, st.Completed)
	assert.Equal(t, []int{3}, values)
	assert.Equal(t, 3, x.Size())
	assert.Equal(t, 0, s.Level())
}

func TestSearch_UpperBound(t *testing.T) {
	s := NewStore()
	x, err := s.NewIntVar("x", []int{2, 3})
	require.NoError(t, err)
	search := NewSearch(s, FirstFail(s, x))

	st, err := search.Optimize(context.Background(), x, WithUpperBound(1))
	require.NoError(t, err)
	assert.True(t, st.Completed)
	assert.Equal(t, 0, st.Solutions)
	assert.Equal(t, 1, st.Failures)

	st, err = search.Optimize(context.Background(), x, WithUpperBound(3))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Solutions)
}

func TestSearch_FailureLimit(t *testing.T) {
	s := NewStore()
	xs := bools(s, 2)
	obj, err := s.NewIntVarRange("obj", 0, 2)
	require.NoError(t, err)
	sum, err := NewSum(xs, obj)
	require.NoError(t, err)
	require.NoError(t, s.Post(sum))

	st, err := NewSearch(s, FirstFail(s, xs...)).Optimize(context.Background(), obj, WithFailureLimit(1))
	require.NoError(t, err)
	assert.False(t, st.Completed)
	assert.Equal(t, 1, st.Solutions)
	assert.Equal(t, 1, st.Failures)
}

func TestSearch_ContextCancelled(t *testing.T) {
	s := NewStore()
	xs := bools(s, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := NewSearch(s, FirstFail(s, xs...)).Solve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, st.Completed)
	assert.Equal(t, 0, s.Level())
}

func TestSearch_OptimizeNilObjective(t *testing.T) {
	s := NewStore()
	_, err := NewSearch(s, FirstFail(s)).Optimize(context.Background(), nil)
	require.Error(t, err)
}

func TestFirstFail_SmallestDomainLeftmost(t *testing.T) {
	s := NewStore()
	a, err := s.NewIntVarRange("a", 0, 4)
	require.NoError(t, err)
	b, err := s.NewIntVarRange("b", 0, 2)
	require.NoError(t, err)
	c, err := s.NewIntVarRange("c", 5, 7)
	require.NoError(t, err)

	branches := FirstFail(s, a, b, c)()
	require.Len(t, branches, 2)

	s.Push()
	require.NoError(t, branches[0]())
	assert.Equal(t, 0, b.Value(), "b is the leftmost of the smallest domains")
	assert.False(t, c.IsFixed())
	s.Pop()

	s.Push()
	require.NoError(t, branches[1]())
	assert.Equal(t, []int{1, 2}, b.Values())
	s.Pop()
}

func TestAnd_FallsThrough(t *testing.T) {
	s := NewStore()
	x := s.NewBoolVar("x")
	y := s.NewBoolVar("y")
	s.Push()
	require.NoError(t, s.Assign(x, 1))

	br := And(FirstFail(s, x), FirstFail(s, y))()
	require.Len(t, br, 2)
	require.NoError(t, br[0]())
	assert.True(t, y.IsFixed())
	s.PopTo(0)

	assert.Nil(t, And()())
}
