package model

import (
	"fmt"

	"rostering/internal/cp"
)

// postObjective объявляет по слоту мягкую кардинальность над столбцом skill[*][s]
// с нарушением missed[s] и totalMissed = Σ missed[s].
// В жёстком режиме missed[s] == 0.
func (m *Model) postObjective() error {
	inst := m.inst
	st := m.store
	upper := 0
	for s := 0; s < inst.Slots; s++ {
		hi := 0
		if !m.hard {
			hi = max(inst.Employees, inst.SlotDemand(s))
		}
		v, err := st.NewIntVarRange(fmt.Sprintf("missed[%d]", s), 0, hi)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
		}
		m.missed[s] = v
		upper += hi

		col := make([]*cp.IntVar, inst.Employees)
		for e := range col {
			col[e] = m.skill[e][s]
		}
		// сверху число сотрудников с навыком не ограничено
		minCard := inst.MinCard(s)
		maxCard := make([]int, len(minCard))
		for k := range maxCard {
			maxCard[k] = max(inst.Employees, minCard[k])
		}
		c, err := cp.NewSoftCardinality(col, minCard, maxCard, v)
		if err != nil {
			return fmt.Errorf("slot %d: %w", s, err)
		}
		st.PostLazy(c)
	}

	total, err := st.NewIntVarRange("totalMissed", 0, upper)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
	}
	m.total = total
	sum, err := cp.NewSum(m.missed, total)
	if err != nil {
		return err
	}
	st.PostLazy(sum)
	return nil
}
