package roster

import "fmt"

// Assignment[e][s] — навык, который сотрудник e использует в слоте s (DummySkill, если не работает).
type Assignment [][]int

// NewIdleAssignment возвращает расписание, где никто не работает.
func NewIdleAssignment(inst *Instance) Assignment {
	a := Assignment(makeMatrix(inst.Employees, inst.Slots))
	dummy := inst.DummySkill()
	for e := range a {
		for s := range a[e] {
			a[e][s] = dummy
		}
	}
	return a
}

func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}
	rows, cols := len(a), 0
	if rows > 0 {
		cols = len(a[0])
	}
	out := Assignment(makeMatrix(rows, cols))
	for e := range a {
		copy(out[e], a[e])
	}
	return out
}

func (a Assignment) Equal(b Assignment) bool {
	if len(a) != len(b) {
		return false
	}
	for e := range a {
		if len(a[e]) != len(b[e]) {
			return false
		}
		for s := range a[e] {
			if a[e][s] != b[e][s] {
				return false
			}
		}
	}
	return true
}

// Works восстанавливает матрицу works[e][s] из используемых навыков.
func (a Assignment) Works(inst *Instance) [][]bool {
	dummy := inst.DummySkill()
	out := make([][]bool, len(a))
	for e := range a {
		out[e] = make([]bool, len(a[e]))
		for s, k := range a[e] {
			out[e][s] = k != dummy
		}
	}
	return out
}

func ValidateAssignment(inst *Instance, a Assignment) error {
	if len(a) != inst.Employees {
		return fmt.Errorf("assignment must have %d rows (got %d)", inst.Employees, len(a))
	}
	dummy := inst.DummySkill()
	for e, row := range a {
		if len(row) != inst.Slots {
			return fmt.Errorf("assignment[%d] must have %d slots (got %d)", e, inst.Slots, len(row))
		}
		for s, k := range row {
			if k == dummy {
				continue
			}
			if k < 0 || k > dummy {
				return fmt.Errorf("assignment[%d][%d]=%d out of range [0,%d]", e, s, k, dummy)
			}
			if !inst.HasSkill(e, k) {
				return fmt.Errorf("employee %d does not have skill %d (slot %d)", e, k, s)
			}
		}
	}
	return nil
}
