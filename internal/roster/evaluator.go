package roster

import "fmt"

// Evaluator считает недостачу по слотам для полностью заданного расписания.
type Evaluator struct {
	inst   *Instance
	counts []int
}

func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, counts: make([]int, inst.Skills+1)}, nil
}

// SlotMissed возвращает недостачу слота s: сумма max(0, спрос[k] - покрыто[k]).
func (ev *Evaluator) SlotMissed(a Assignment, s int) int {
	for k := range ev.counts {
		ev.counts[k] = 0
	}
	for e := 0; e < ev.inst.Employees; e++ {
		ev.counts[a[e][s]]++
	}
	missed := 0
	for k, demand := range ev.inst.SlotDemands[s] {
		if d := demand - ev.counts[k]; d > 0 {
			missed += d
		}
	}
	return missed
}

func (ev *Evaluator) TotalMissed(a Assignment) (int, error) {
	if ev == nil || ev.inst == nil {
		return 0, fmt.Errorf("nil evaluator")
	}
	if err := ValidateAssignment(ev.inst, a); err != nil {
		return 0, err
	}
	total := 0
	for s := 0; s < ev.inst.Slots; s++ {
		total += ev.SlotMissed(a, s)
	}
	return total, nil
}

func (ev *Evaluator) MustTotalMissed(a Assignment) int {
	v, err := ev.TotalMissed(a)
	if err != nil {
		panic(err)
	}
	return v
}
