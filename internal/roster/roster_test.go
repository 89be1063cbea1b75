package roster

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSmall(t *testing.T) *Instance {
	t.Helper()
	inst, err := ParseFile(filepath.Join("testdata", "small.txt"))
	require.NoError(t, err)
	return inst
}

func TestParseFile(t *testing.T) {
	inst := loadSmall(t)

	assert.Equal(t, 2, inst.Slots)
	assert.Equal(t, 3, inst.Employees)
	assert.Equal(t, 2, inst.Skills)
	assert.Equal(t, [][]int{{1, 0}, {1, 1}, {0, 0}}, inst.EmployeeSkills)
	assert.Equal(t, [][]int{{2, 1}, {0, 1}}, inst.SlotDemands)

	assert.Equal(t, 2, inst.DummySkill())
	assert.Equal(t, []int{0, 2}, inst.SkillSet(0))
	assert.Equal(t, []int{0, 1, 2}, inst.SkillSet(1))
	assert.Equal(t, []int{2}, inst.SkillSet(2))
	assert.Equal(t, []int{2, 1, 0}, inst.MinCard(0))
	assert.Equal(t, 3, inst.SlotDemand(0))
	assert.Equal(t, 4, inst.TotalDemand())

	assert.True(t, inst.CanUse(2, inst.DummySkill()))
	assert.False(t, inst.CanUse(0, 1))
	assert.True(t, inst.CanUse(1, 1))
}

func TestWriteParse(t *testing.T) {
	inst := MustRandomInstance(4, 5, 3, 0.5, 3, rand.New(rand.NewSource(3)))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, inst))
	assert.Contains(t, buf.String(), "# slots employees skills")

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, inst, back)
}

func TestWriteFile(t *testing.T) {
	inst := loadSmall(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFile(path, inst))

	back, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, inst, back)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"short header":   "2 2\n",
		"zero slots":     "0 1 1\n",
		"not a number":   "1 1 x\n",
		"missing rows":   "2 1 1\n1\n",
		"wide row":       "1 1 1\n1 0\n0\n",
		"skill flag":     "1 1 1\n2\n0\n",
		"negative":       "1 1 1\n1\n-1\n",
		"missing demand": "1 2 1\n1\n0\n",
		"huge truncated": "3000000000 3000000000 1\n",
		"huge skills":    "1 1 3000000000\n1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInstance), err.Error())
		})
	}
}

func TestNewInstance_Validates(t *testing.T) {
	_, err := NewInstance(1, 1, 1, [][]int{{1}}, [][]int{{1, 2}})
	require.ErrorIs(t, err, ErrMalformedInstance)

	inst, err := NewInstance(1, 1, 1, [][]int{{1}}, [][]int{{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, inst.TotalDemand())

	var nilInst *Instance
	require.ErrorIs(t, nilInst.Validate(), ErrMalformedInstance)
}

func TestEvaluator(t *testing.T) {
	inst := loadSmall(t)
	ev, err := NewEvaluator(inst)
	require.NoError(t, err)

	idle := NewIdleAssignment(inst)
	assert.Equal(t, 4, ev.MustTotalMissed(idle))

	a := idle.Clone()
	a[0][0] = 0
	a[1][0] = 1
	a[1][1] = 1
	assert.Equal(t, 1, ev.SlotMissed(a, 0))
	assert.Equal(t, 0, ev.SlotMissed(a, 1))
	assert.Equal(t, 1, ev.MustTotalMissed(a))

	// избыток навыка не компенсирует недостачу другого
	a[1][0] = 0
	assert.Equal(t, 1, ev.SlotMissed(a, 0))

	assert.Equal(t, [][]bool{{true, false}, {true, true}, {false, false}}, a.Works(inst))
	assert.False(t, a.Equal(idle))
	assert.True(t, a.Equal(a.Clone()))
}

func TestValidateAssignment(t *testing.T) {
	inst := loadSmall(t)
	ev, err := NewEvaluator(inst)
	require.NoError(t, err)

	a := NewIdleAssignment(inst)
	a[2][0] = 0
	_, err = ev.TotalMissed(a)
	require.Error(t, err)

	a = NewIdleAssignment(inst)
	a[0][1] = 7
	require.Error(t, ValidateAssignment(inst, a))

	require.Error(t, ValidateAssignment(inst, a[:2]))
	require.NoError(t, ValidateAssignment(inst, NewIdleAssignment(inst)))
}

func TestRandomInstance(t *testing.T) {
	a := MustRandomInstance(6, 4, 3, 0.4, 2, rand.New(rand.NewSource(11)))
	b := MustRandomInstance(6, 4, 3, 0.4, 2, rand.New(rand.NewSource(11)))
	assert.Equal(t, a, b)
	require.NoError(t, a.Validate())
	for _, row := range a.SlotDemands {
		for _, d := range row {
			assert.GreaterOrEqual(t, d, 0)
			assert.LessOrEqual(t, d, 2)
		}
	}

	none := MustRandomInstance(2, 2, 2, 0, 1, rand.New(rand.NewSource(1)))
	for e := 0; e < none.Employees; e++ {
		assert.Equal(t, []int{none.DummySkill()}, none.SkillSet(e))
	}

	_, err := RandomInstance(1, 1, 1, 1.5, 1, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	_, err = RandomInstance(1, 1, 1, 0.5, 1, nil)
	require.Error(t, err)
}

func TestRandomAssignment_UsesOwnSkills(t *testing.T) {
	inst := MustRandomInstance(8, 6, 4, 0.5, 2, rand.New(rand.NewSource(5)))
	a := RandomAssignment(inst, rand.New(rand.NewSource(6)))
	require.NoError(t, ValidateAssignment(inst, a))
}

func TestMoves(t *testing.T) {
	inst := loadSmall(t)
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 200; i++ {
		a := RandomAssignment(inst, rng)
		orig := a.Clone()

		for _, m := range []Move{ProposeReassign(inst, a, rng), ProposeSwap(inst, a, rng)} {
			m.Apply(a)
			require.NoError(t, ValidateAssignment(inst, a))
			if !m.Noop() {
				assert.False(t, a.Equal(orig))
			}
			m.Revert(a)
			require.True(t, a.Equal(orig))
		}
	}
}

func TestProposeReassign_OnlyDummy(t *testing.T) {
	inst := loadSmall(t)
	a := NewIdleAssignment(inst)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		m := ProposeReassign(inst, a, rng)
		if m.First == 2 {
			assert.True(t, m.Noop())
		} else {
			assert.False(t, m.Noop())
		}
	}
}
