// Package model строит модель расписания поверх движка cp:
// переменные works/skill/missed, связывание и мягкую целевую функцию.
package model

import (
	"errors"
	"fmt"

	"rostering/internal/cp"
	"rostering/internal/roster"
)

// ErrInfeasibleModel — домен переменной пуст или распространение в корне неуспешно.
var ErrInfeasibleModel = errors.New("infeasible model")

type BuildOptions struct {
	// Hard делает спрос слотов жёстким ограничением (недостача фиксирована в 0).
	Hard bool
	// MaxSlotsPerEmployee ограничивает число рабочих слотов сотрудника; 0 = без ограничения.
	MaxSlotsPerEmployee int
}

// Model владеет хранилищем cp и всеми переменными решения одного запуска.
type Model struct {
	inst  *roster.Instance
	store *cp.Store
	hard  bool

	works  [][]*cp.IntVar // [e][s], 0/1
	skill  [][]*cp.IntVar // [e][s], навыки сотрудника ∪ {dummy}
	missed []*cp.IntVar   // [s]
	total  *cp.IntVar
}

// Build создаёт переменные, связывание works ⇔ skill и мягкую целевую функцию,
// после чего выполняет распространение в корне.
func Build(inst *roster.Instance, opts BuildOptions) (*Model, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxSlotsPerEmployee < 0 {
		return nil, fmt.Errorf("max slots per employee must be >= 0 (got %d)", opts.MaxSlotsPerEmployee)
	}
	st := cp.NewStore()
	m := &Model{
		inst:   inst,
		store:  st,
		hard:   opts.Hard,
		works:  make([][]*cp.IntVar, inst.Employees),
		skill:  make([][]*cp.IntVar, inst.Employees),
		missed: make([]*cp.IntVar, inst.Slots),
	}

	dummy := inst.DummySkill()
	for e := 0; e < inst.Employees; e++ {
		m.works[e] = make([]*cp.IntVar, inst.Slots)
		m.skill[e] = make([]*cp.IntVar, inst.Slots)
		skills := inst.SkillSet(e)
		for s := 0; s < inst.Slots; s++ {
			m.works[e][s] = st.NewBoolVar(fmt.Sprintf("works[%d][%d]", e, s))
			x, err := st.NewIntVar(fmt.Sprintf("skill[%d][%d]", e, s), skills)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
			}
			m.skill[e][s] = x
			st.PostLazy(cp.Channel(m.works[e][s], x, dummy))
		}
		if opts.MaxSlotsPerEmployee > 0 {
			load, err := st.NewIntVarRange(fmt.Sprintf("load[%d]", e), 0, min(opts.MaxSlotsPerEmployee, inst.Slots))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInfeasibleModel, err)
			}
			c, err := cp.NewSum(m.works[e], load)
			if err != nil {
				return nil, err
			}
			st.PostLazy(c)
		}
	}

	if err := m.postObjective(); err != nil {
		return nil, err
	}
	if err := st.Fixpoint(); err != nil {
		return nil, fmt.Errorf("%w: root propagation: %w", ErrInfeasibleModel, err)
	}
	return m, nil
}

func (m *Model) Instance() *roster.Instance { return m.inst }
func (m *Model) Store() *cp.Store { return m.store }
func (m *Model) Hard() bool { return m.hard }

func (m *Model) WorksVar(e, s int) *cp.IntVar { return m.works[e][s] }
func (m *Model) SkillVar(e, s int) *cp.IntVar { return m.skill[e][s] }
func (m *Model) MissedVar(s int) *cp.IntVar { return m.missed[s] }

// TotalMissed — целевая переменная (сумма недостач по слотам).
func (m *Model) TotalMissed() *cp.IntVar { return m.total }

// Snapshot снимает текущие значения skill. Корректен только в решении,
// когда все переменные зафиксированы.
func (m *Model) Snapshot() roster.Assignment {
	a := make(roster.Assignment, len(m.skill))
	for e, row := range m.skill {
		a[e] = make([]int, len(row))
		for s, x := range row {
			a[e][s] = x.Value()
		}
	}
	return a
}

// Works снимает текущие значения works.
func (m *Model) Works() [][]bool {
	out := make([][]bool, len(m.works))
	for e, row := range m.works {
		out[e] = make([]bool, len(row))
		for s, w := range row {
			out[e][s] = w.Value() == 1
		}
	}
	return out
}

// Objective возвращает текущее значение целевой функции (минимум домена вне решения).
func (m *Model) Objective() int { return m.total.Value() }

// Solved сообщает, зафиксированы ли все переменные skill и целевая функция.
func (m *Model) Solved() bool {
	for _, row := range m.skill {
		for _, x := range row {
			if !x.IsFixed() {
				return false
			}
		}
	}
	return m.total.IsFixed()
}
