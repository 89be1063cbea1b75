package lns

import "rostering/internal/roster"

// Incumbent хранит лучшее найденное расписание и его значение целевой функции.
// Снимок заменяется целиком; частичных обновлений нет.
type Incumbent struct {
	best      roster.Assignment
	objective int
	ok        bool
}

// Capture безусловно заменяет рекорд копией snapshot.
// Вызывающий отвечает за то, что решение улучшающее.
func (in *Incumbent) Capture(snapshot roster.Assignment, objective int) {
	in.best = snapshot.Clone()
	in.objective = objective
	in.ok = true
}

// Read возвращает копию рекорда; ok == false, пока ничего не захвачено.
func (in *Incumbent) Read() (roster.Assignment, int, bool) {
	if !in.ok {
		return nil, 0, false
	}
	return in.best.Clone(), in.objective, true
}

func (in *Incumbent) Empty() bool { return !in.ok }

// Improves сообщает, строго ли objective лучше рекорда (пустой рекорд улучшает любое значение).
func (in *Incumbent) Improves(objective int) bool {
	return !in.ok || objective < in.objective
}

// Objective возвращает значение рекорда; -1, если рекорда нет.
func (in *Incumbent) Objective() int {
	if !in.ok {
		return -1
	}
	return in.objective
}

// at возвращает значение рекорда в клетке без копирования (для закрепления в RELAX).
func (in *Incumbent) at(e, s int) int { return in.best[e][s] }
