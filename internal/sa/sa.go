package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"rostering/internal/opt"
	"rostering/internal/roster"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *roster.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка недостачи; ход меняет один слот, поэтому пересчитывается только он
	eval, err := roster.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerCell * inst.Employees * inst.Slots
	}

	curr := roster.RandomAssignment(inst, s.Rng)
	currCost := eval.MustTotalMissed(curr)
	bestCost := currCost
	best := curr.Clone()

	evals := 1
	T := s.Cfg.InitialTemp

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
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
					"T":       T,
				},
			}, err
		}

		var m roster.Move
		switch s.Cfg.Neighborhood {
		case NeighborhoodSwap:
			m = roster.ProposeSwap(inst, curr, s.Rng)
		default:
			m = roster.ProposeReassign(inst, curr, s.Rng)
		}
		if m.Noop() {
			T *= s.Cfg.Alpha
			continue
		}

		before := eval.SlotMissed(curr, m.Slot)
		m.Apply(curr)
		delta := eval.SlotMissed(curr, m.Slot) - before
		evals++

		accept := false
		if delta <= 0 {
			// Улучшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			currCost += delta
			// Обновление глобально лучшего решения
			if currCost < bestCost {
				bestCost = currCost
				roster.CopyInto(best, curr)
			}
		} else {
			m.Revert(curr)
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return opt.Result{
		Assignment:  best,
		Objective:   bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		Meta: map[string]any{
			"initial_temp": s.Cfg.InitialTemp,
			"final_temp":   s.Cfg.FinalTemp,
			"alpha":        s.Cfg.Alpha,
			"neighborhood": string(s.Cfg.Neighborhood),
		},
	}, nil
}
