package roster

import (
	"fmt"
	"math/rand"
)

// RandomInstance генерирует экземпляр: каждый навык у сотрудника появляется с вероятностью skillProb,
// спрос по каждому навыку слота равномерен на [0, maxDemand].
func RandomInstance(slots, employees, skills int, skillProb float64, maxDemand int, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if slots <= 0 || employees <= 0 || skills <= 0 {
		return nil, fmt.Errorf("slots, employees and skills must be > 0 (got %d %d %d)", slots, employees, skills)
	}
	if skillProb < 0 || skillProb > 1 {
		return nil, fmt.Errorf("skillProb must be in [0,1] (got %f)", skillProb)
	}
	if maxDemand < 0 {
		return nil, fmt.Errorf("maxDemand must be >= 0 (got %d)", maxDemand)
	}

	inst := NewEmptyInstance(slots, employees, skills)
	for e := 0; e < employees; e++ {
		for k := 0; k < skills; k++ {
			if rng.Float64() < skillProb {
				inst.EmployeeSkills[e][k] = 1
			}
		}
	}
	for s := 0; s < slots; s++ {
		for k := 0; k < skills; k++ {
			inst.SlotDemands[s][k] = rng.Intn(maxDemand + 1)
		}
	}
	return inst, nil
}

// MustRandomInstance — вариант RandomInstance для тестов и бенчмарков.
func MustRandomInstance(slots, employees, skills int, skillProb float64, maxDemand int, rng *rand.Rand) *Instance {
	inst, err := RandomInstance(slots, employees, skills, skillProb, maxDemand, rng)
	if err != nil {
		panic(err)
	}
	return inst
}

// RandomAssignment — каждой клетке (сотрудник, слот) равновероятно
// назначается навык из SkillSet сотрудника (включая фиктивный).
func RandomAssignment(inst *Instance, rng *rand.Rand) Assignment {
	a := NewIdleAssignment(inst)
	for e := range a {
		skills := inst.SkillSet(e)
		for s := range a[e] {
			a[e][s] = skills[rng.Intn(len(skills))]
		}
	}
	return a
}
