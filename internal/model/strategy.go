package model

import "rostering/internal/cp"

// Branching — порядок ветвления: сначала все works, затем все skill,
// в обоих случаях first-fail. Переменные перечисляются по сотрудникам.
func (m *Model) Branching() cp.Branching {
	return cp.And(
		cp.FirstFail(m.store, flatten(m.works)...),
		cp.FirstFail(m.store, flatten(m.skill)...),
	)
}

// Search создаёт поиск по модели с её стратегией ветвления.
func (m *Model) Search() *cp.Search {
	return cp.NewSearch(m.store, m.Branching())
}

func flatten(vars [][]*cp.IntVar) []*cp.IntVar {
	n := 0
	for _, row := range vars {
		n += len(row)
	}
	out := make([]*cp.IntVar, 0, n)
	for _, row := range vars {
		out = append(out, row...)
	}
	return out
}
