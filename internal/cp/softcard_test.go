package cp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column создаёт n переменных с одинаковым доменом.
func column(t *testing.T, s *Store, n int, values []int) []*IntVar {
	t.Helper()
	xs := make([]*IntVar, n)
	for i := range xs {
		x, err := s.NewIntVar("x", values)
		require.NoError(t, err)
		xs[i] = x
	}
	return xs
}

func TestSoftCardinality_BoundsFollowMatching(t *testing.T) {
	s := NewStore()
	// значения 0 и 1 это навыки, 2 фиктивный
	xs := column(t, s, 3, []int{0, 1, 2})
	viol, err := s.NewIntVarRange("viol", 0, 5)
	require.NoError(t, err)

	c, err := NewSoftCardinality(xs, []int{2, 1, 0}, []int{3, 3, 3}, viol)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	assert.Equal(t, 0, viol.Min())
	assert.Equal(t, 3, viol.Max())

	s.Push()
	require.NoError(t, s.Assign(xs[0], 2))
	require.NoError(t, s.Fixpoint())
	assert.Equal(t, 1, viol.Min(), "two employees cannot cover three units")

	require.NoError(t, s.Assign(xs[1], 0))
	require.NoError(t, s.Assign(xs[2], 0))
	require.NoError(t, s.Fixpoint())
	require.True(t, viol.IsFixed())
	assert.Equal(t, 1, viol.Value())
	s.Pop()

	assert.Equal(t, 0, viol.Min())
}

func TestSoftCardinality_ExactOnFixedColumn(t *testing.T) {
	s := NewStore()
	xs := column(t, s, 4, []int{0, 1, 2})
	viol, err := s.NewIntVarRange("viol", 0, 10)
	require.NoError(t, err)
	c, err := NewSoftCardinality(xs, []int{1, 3, 0}, []int{4, 4, 4}, viol)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))

	s.Push()
	for i, v := range []int{0, 0, 1, 2} {
		require.NoError(t, s.Assign(xs[i], v))
	}
	require.NoError(t, s.Fixpoint())
	// навык 0: покрыт; навык 1: 1 из 3
	assert.Equal(t, 2, viol.Value())
	s.Pop()
}

func TestSoftCardinality_FiltersWhenTight(t *testing.T) {
	s := NewStore()
	x0, err := s.NewIntVar("x0", []int{0, 2})
	require.NoError(t, err)
	x1, err := s.NewIntVar("x1", []int{1, 2})
	require.NoError(t, err)
	viol, err := s.NewIntVarRange("viol", 0, 2)
	require.NoError(t, err)

	c, err := NewSoftCardinality([]*IntVar{x0, x1}, []int{1, 1, 0}, []int{2, 2, 2}, viol)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	assert.False(t, x0.IsFixed())

	s.Push()
	require.NoError(t, s.Post(LessOrEqual(viol, 0)))
	assert.Equal(t, 0, x0.Value())
	assert.Equal(t, 1, x1.Value())
	s.Pop()
}

func TestSoftCardinality_HardInfeasible(t *testing.T) {
	s := NewStore()
	x, err := s.NewIntVar("x", []int{0, 1})
	require.NoError(t, err)
	viol, err := s.NewIntVarRange("viol", 0, 0)
	require.NoError(t, err)

	c, err := NewSoftCardinality([]*IntVar{x}, []int{2, 0}, []int{1, 1}, viol)
	require.Error(t, err, "minCard above maxCard")
	assert.Nil(t, c)

	c, err = NewSoftCardinality([]*IntVar{x}, []int{2, 0}, []int{2, 2}, viol)
	require.NoError(t, err)
	s.Push()
	require.ErrorIs(t, s.Post(c), ErrInconsistent)
	s.Pop()
}

func TestSoftCardinality_ArgErrors(t *testing.T) {
	s := NewStore()
	x := s.NewBoolVar("x")

	_, err := NewSoftCardinality([]*IntVar{x}, []int{1}, []int{1}, nil)
	require.Error(t, err)
	_, err = NewSoftCardinality([]*IntVar{x}, []int{1, 0}, []int{1}, x)
	require.Error(t, err)
	_, err = NewSoftCardinality([]*IntVar{nil}, []int{1}, []int{1}, x)
	require.Error(t, err)
	_, err = NewSoftCardinality([]*IntVar{x}, []int{-1}, []int{1}, x)
	require.Error(t, err)
}
