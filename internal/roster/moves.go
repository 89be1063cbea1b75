package roster

import "math/rand"

// Move — изменение навыков в одном слоте: одна клетка или обмен двух.
// Second < 0 означает, что ход затрагивает только клетку First.
type Move struct {
	Slot          int
	First, Second int
	OldFirst      int
	NewFirst      int
	OldSecond     int
	NewSecond     int
}

// Noop: ход ничего не меняет.
func (m Move) Noop() bool {
	return m.OldFirst == m.NewFirst && (m.Second < 0 || m.OldSecond == m.NewSecond)
}

func (m Move) Apply(a Assignment) {
	a[m.First][m.Slot] = m.NewFirst
	if m.Second >= 0 {
		a[m.Second][m.Slot] = m.NewSecond
	}
}

func (m Move) Revert(a Assignment) {
	a[m.First][m.Slot] = m.OldFirst
	if m.Second >= 0 {
		a[m.Second][m.Slot] = m.OldSecond
	}
}

// ProposeReassign выбирает случайную клетку и другой навык из набора сотрудника.
// Если у сотрудника только фиктивный навык, ход пустой.
func ProposeReassign(inst *Instance, a Assignment, rng *rand.Rand) Move {
	e := rng.Intn(inst.Employees)
	s := rng.Intn(inst.Slots)
	m := Move{Slot: s, First: e, Second: -1, OldFirst: a[e][s], NewFirst: a[e][s]}
	skills := inst.SkillSet(e)
	if len(skills) < 2 {
		return m
	}
	k := skills[rng.Intn(len(skills)-1)]
	if k == a[e][s] {
		// текущий навык пропускаем, его место занимает последний
		k = skills[len(skills)-1]
	}
	m.NewFirst = k
	return m
}

// ProposeSwap обменивает навыки двух сотрудников одного слота, если каждый
// владеет навыком другого; иначе возвращает ProposeReassign.
func ProposeSwap(inst *Instance, a Assignment, rng *rand.Rand) Move {
	if inst.Employees < 2 {
		return ProposeReassign(inst, a, rng)
	}
	s := rng.Intn(inst.Slots)
	e1 := rng.Intn(inst.Employees)
	e2 := rng.Intn(inst.Employees - 1)
	if e2 >= e1 {
		e2++
	}
	k1, k2 := a[e1][s], a[e2][s]
	if k1 == k2 || !inst.CanUse(e1, k2) || !inst.CanUse(e2, k1) {
		return ProposeReassign(inst, a, rng)
	}
	return Move{
		Slot: s, First: e1, Second: e2,
		OldFirst: k1, NewFirst: k2,
		OldSecond: k2, NewSecond: k1,
	}
}

// CopyInto копирует src в dst той же формы.
func CopyInto(dst, src Assignment) {
	for e := range src {
		copy(dst[e], src[e])
	}
}
