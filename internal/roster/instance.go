package roster

import (
	"errors"
	"fmt"
)

// ErrMalformedInstance возвращается, если данные экземпляра не соответствуют ожидаемой структуре.
var ErrMalformedInstance = errors.New("malformed instance")

type Instance struct {
	Slots     int
	Employees int
	Skills    int
	// EmployeeSkills[e][k] == 1, если сотрудник e владеет навыком k.
	EmployeeSkills [][]int
	// SlotDemands[s][k] — минимальное число сотрудников с навыком k в слоте s.
	SlotDemands [][]int
}

func NewInstance(slots, employees, skills int, employeeSkills, slotDemands [][]int) (*Instance, error) {
	inst := &Instance{
		Slots:          slots,
		Employees:      employees,
		Skills:         skills,
		EmployeeSkills: employeeSkills,
		SlotDemands:    slotDemands,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// NewEmptyInstance создаёт экземпляр с нулевыми матрицами нужных размеров.
func NewEmptyInstance(slots, employees, skills int) *Instance {
	return &Instance{
		Slots:          slots,
		Employees:      employees,
		Skills:         skills,
		EmployeeSkills: makeMatrix(employees, skills),
		SlotDemands:    makeMatrix(slots, skills),
	}
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrMalformedInstance)
	}
	if inst.Slots <= 0 {
		return fmt.Errorf("%w: slots must be > 0 (got %d)", ErrMalformedInstance, inst.Slots)
	}
	if inst.Employees <= 0 {
		return fmt.Errorf("%w: employees must be > 0 (got %d)", ErrMalformedInstance, inst.Employees)
	}
	if inst.Skills <= 0 {
		return fmt.Errorf("%w: skills must be > 0 (got %d)", ErrMalformedInstance, inst.Skills)
	}
	if len(inst.EmployeeSkills) != inst.Employees {
		return fmt.Errorf("%w: employeeSkills must have %d rows (got %d)", ErrMalformedInstance, inst.Employees, len(inst.EmployeeSkills))
	}
	for e, row := range inst.EmployeeSkills {
		if len(row) != inst.Skills {
			return fmt.Errorf("%w: employeeSkills[%d] must have %d columns (got %d)", ErrMalformedInstance, e, inst.Skills, len(row))
		}
		for k, v := range row {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: employeeSkills[%d][%d] must be 0 or 1 (got %d)", ErrMalformedInstance, e, k, v)
			}
		}
	}
	if len(inst.SlotDemands) != inst.Slots {
		return fmt.Errorf("%w: slotDemands must have %d rows (got %d)", ErrMalformedInstance, inst.Slots, len(inst.SlotDemands))
	}
	for s, row := range inst.SlotDemands {
		if len(row) != inst.Skills {
			return fmt.Errorf("%w: slotDemands[%d] must have %d columns (got %d)", ErrMalformedInstance, s, inst.Skills, len(row))
		}
		for k, v := range row {
			if v < 0 {
				return fmt.Errorf("%w: slotDemands[%d][%d] must be >= 0 (got %d)", ErrMalformedInstance, s, k, v)
			}
		}
	}
	return nil
}

// DummySkill — значение "не работает / навык не используется".
func (inst *Instance) DummySkill() int {
	return inst.Skills
}

func (inst *Instance) HasSkill(employee, skill int) bool {
	return inst.EmployeeSkills[employee][skill] == 1
}

// CanUse сообщает, может ли сотрудник занять слот с навыком k (фиктивный доступен всем).
func (inst *Instance) CanUse(employee, k int) bool {
	return k == inst.DummySkill() || (k >= 0 && k < inst.Skills && inst.HasSkill(employee, k))
}

// SkillSet возвращает навыки сотрудника по возрастанию, с фиктивным навыком в конце.
func (inst *Instance) SkillSet(employee int) []int {
	out := make([]int, 0, inst.Skills+1)
	for k := 0; k < inst.Skills; k++ {
		if inst.HasSkill(employee, k) {
			out = append(out, k)
		}
	}
	return append(out, inst.DummySkill())
}

// MinCard возвращает минимальную кардинальность по каждому навыку слота, включая фиктивный (0).
func (inst *Instance) MinCard(slot int) []int {
	out := make([]int, inst.Skills+1)
	copy(out, inst.SlotDemands[slot])
	return out
}

// SlotDemand возвращает суммарный спрос слота по всем навыкам.
func (inst *Instance) SlotDemand(slot int) int {
	total := 0
	for _, d := range inst.SlotDemands[slot] {
		total += d
	}
	return total
}

func (inst *Instance) TotalDemand() int {
	total := 0
	for s := 0; s < inst.Slots; s++ {
		total += inst.SlotDemand(s)
	}
	return total
}

func makeMatrix(rows, cols int) [][]int {
	backing := make([]int, rows*cols)
	m := make([][]int, rows)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols]
	}
	return m
}
