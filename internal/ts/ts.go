package ts

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"rostering/internal/opt"
	"rostering/internal/roster"
)

// maxInt используется как бесконечность для стоимостей.
const maxInt = int(^uint(0) >> 1)

// Solver - структура реализации поиска с запретами.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve — основной цикл алгоритма
func (s *Solver) Solve(ctx context.Context, inst *roster.Instance) (opt.Result, error) {
	start := time.Now()

	// Валидация входных данных
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка целевой функции
	eval, err := roster.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerCell * inst.Employees * inst.Slots
	}

	// Инициализация начального решения
	curr := roster.RandomAssignment(inst, s.Rng)
	currCost := eval.MustTotalMissed(curr)
	evals := 1

	// Глобально лучшее решение
	best := curr.Clone()
	bestCost := currCost

	// Табу-список - кольцевой буфер с мапой
	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	neighbors := s.Cfg.NeighborsPerIter
	if neighbors < 1 {
		neighbors = 1
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Assignment:  best,
				Objective:   bestCost,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(start),
				Meta: map[string]any{
					"stopped": "context",
				},
			}, err
		}

		// Лучший допустимый ход
		var bestMove roster.Move
		bestMoveCost := maxInt
		found := false

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		var fallback roster.Move
		fallbackCost := maxInt
		haveFallback := false

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < neighbors; k++ {
			var m roster.Move
			switch s.Cfg.Neighborhood {
			case NeighborhoodSwap:
				m = roster.ProposeSwap(inst, curr, s.Rng)
			default:
				m = roster.ProposeReassign(inst, curr, s.Rng)
			}
			if m.Noop() {
				continue
			}

			before := eval.SlotMissed(curr, m.Slot)
			m.Apply(curr)
			cost := currCost + eval.SlotMissed(curr, m.Slot) - before
			m.Revert(curr)
			evals++

			// Обновление запасного хода
			if cost < fallbackCost {
				fallbackCost = cost
				fallback = m
				haveFallback = true
			}

			isTabu := tabu.IsTabu(m, iter)
			aspiration := cost < bestCost // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}

			if cost < bestMoveCost {
				bestMoveCost = cost
				bestMove = m
				found = true
			}
		}

		// Выбор хода: сначала допустимый лучший, затем запасной
		chosen, chosenCost := bestMove, bestMoveCost
		if !found {
			chosen, chosenCost = fallback, fallbackCost
		}

		// Все соседи пустые (например, ни у кого нет навыков), завершаем поиск
		if !found && !haveFallback {
			break
		}

		// Применение выбранного хода
		chosen.Apply(curr)
		currCost = chosenCost

		// Возврат клеток к прежним навыкам запрещается на tenure итераций
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(cellKey(chosen.First, chosen.Slot, chosen.OldFirst), iter+tenure)
		if chosen.Second >= 0 {
			tabu.Add(cellKey(chosen.Second, chosen.Slot, chosen.OldSecond), iter+tenure)
		}

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			bestCost = currCost
			roster.CopyInto(best, curr)
			if bestCost == 0 {
				iter++
				break
			}
		}
	}

	return opt.Result{
		Assignment:  best,
		Objective:   bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"tabu_tenure":        s.Cfg.TabuTenure,
			"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
			"neighbors_per_iter": s.Cfg.NeighborsPerIter,
			"neighborhood":       string(s.Cfg.Neighborhood),
		},
	}, nil
}

// tabuList — структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

// IsTabu: ход запрещён, если хотя бы одна из его клеток получает
// навык, от которого недавно ушла.
func (t *tabuList) IsTabu(m roster.Move, iter int) bool {
	if t.active(cellKey(m.First, m.Slot, m.NewFirst), iter) {
		return true
	}
	return m.Second >= 0 && t.active(cellKey(m.Second, m.Slot, m.NewSecond), iter)
}

func (t *tabuList) active(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

// Add добавляет новый табу-ключ с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Удаление старого элемента из кольцевого буфера
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// cellKey формирует ключ "клетка (employee, slot) с навыком skill".
// Старший бит выставлен, чтобы ключ никогда не совпадал с пустой ячейкой кольца.
func cellKey(employee, slot, skill int) uint64 {
	return 1<<63 |
		(uint64(uint32(employee)) << 42) |
		(uint64(uint32(slot)) << 21) |
		uint64(uint32(skill))
}
