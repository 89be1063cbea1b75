// Package lns — поиск с большими окрестностями вокруг рекорда:
// начальный поиск с ветвями и границами, затем циклы "закрепить большую часть
// рекорда случайно → перерешать остаток с бюджетом неудач".
package lns

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rostering/internal/cp"
	"rostering/internal/logger"
	"rostering/internal/metrics"
	"rostering/internal/model"
	"rostering/internal/opt"
	"rostering/internal/roster"
)

// ErrNoSolution — начальный поиск не нашёл ни одного решения (возможно только в жёстком режиме).
var ErrNoSolution = errors.New("решение не найдено")

// Solver - структура реализации LNS-контроллера.
type Solver struct {
	Cfg Config
	Rng *rand.Rand

	// Log и Metrics необязательны.
	Log     *zap.SugaredLogger
	Metrics *metrics.Recorder

	// OnSolution, если задан, вызывается на каждом решении обоих этапов,
	// включая не улучшающие рекорд: снимок skill, снимок works и цель.
	OnSolution func(snapshot roster.Assignment, works [][]bool, objective int)
}

// New возвращает новый LNS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Phase — состояние контроллера.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseRelax
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init_search"
	case PhaseRelax:
		return "relax"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Причины завершения (Meta["stopped"]).
const (
	StopIterations    = "iterations"
	StopTime          = "time"
	StopContext       = "context"
	StopOptimal       = "optimal"
	StopFirstSolution = "first_solution"
)

// Solve — основной цикл: INIT_SEARCH → RELAX × Iterations → DONE.
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

	m, err := model.Build(inst, model.BuildOptions{
		Hard:                s.Cfg.Hard,
		MaxSlotsPerEmployee: s.Cfg.MaxSlotsPerEmployee,
	})
	if err != nil {
		return opt.Result{}, err
	}

	log := s.Log
	if log == nil {
		log = logger.Nop()
	}
	runID := uuid.NewString()

	r := &run{
		cfg:     s.Cfg,
		rng:     s.Rng,
		log:     log.With("run_id", runID),
		metrics: s.Metrics,
		observe: s.OnSolution,
		runID:   runID,
		m:       m,
		search:  m.Search(),
		start:   start,
		rootLB:  m.TotalMissed().Min(),
	}
	if s.Cfg.TimeLimit > 0 {
		r.deadline = start.Add(s.Cfg.TimeLimit)
	}
	return r.exec(ctx)
}

// run — состояние одного запуска Solve.
type run struct {
	cfg     Config
	rng     *rand.Rand
	log     *zap.SugaredLogger
	metrics *metrics.Recorder
	observe func(roster.Assignment, [][]bool, int)
	runID   string

	m        *model.Model
	search   *cp.Search
	inc      Incumbent
	phase    Phase
	start    time.Time
	deadline time.Time
	rootLB   int

	iter          int
	nodes         int
	failures      int
	solutions     int
	improvements  int
	initObjective int
	initCompleted bool
	trace         []int
	relaxFailures []int
}

func (r *run) exec(ctx context.Context) (opt.Result, error) {
	r.log.Infow("старт",
		"slots", r.m.Instance().Slots,
		"employees", r.m.Instance().Employees,
		"skills", r.m.Instance().Skills,
		"root_lower_bound", r.rootLB,
	)

	// INIT_SEARCH
	r.phase = PhaseInit
	phaseStart := time.Now()
	st, err := r.search.Optimize(ctx, r.m.TotalMissed(), r.initOptions()...)
	r.account(st)
	r.metrics.Search(st.Nodes, st.Failures)
	r.metrics.Phase(PhaseInit.String(), time.Since(phaseStart).Seconds())
	if err != nil {
		return r.result(StopContext), err
	}
	if r.inc.Empty() {
		return r.result(""), fmt.Errorf("%w: %s", ErrNoSolution, st)
	}
	r.initObjective = r.inc.Objective()
	r.initCompleted = st.Completed
	r.log.Infow("начальный поиск завершён",
		"objective", r.initObjective,
		"completed", st.Completed,
		"nodes", st.Nodes,
		"failures", st.Failures,
	)

	if r.cfg.FirstSolutionOnly {
		return r.finish(StopFirstSolution), nil
	}

	// RELAX
	r.phase = PhaseRelax
	phaseStart = time.Now()
	stopped := StopIterations
	for r.iter = 0; r.iter < r.cfg.Iterations; r.iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			r.metrics.Phase(PhaseRelax.String(), time.Since(phaseStart).Seconds())
			return r.result(StopContext), err
		}
		if r.expired() {
			stopped = StopTime
			break
		}
		if r.inc.Objective() <= r.rootLB {
			stopped = StopOptimal
			break
		}

		st, err := r.relax(ctx)
		r.account(st)
		if err != nil {
			r.metrics.Phase(PhaseRelax.String(), time.Since(phaseStart).Seconds())
			return r.result(StopContext), err
		}
		r.trace = append(r.trace, r.inc.Objective())
		r.relaxFailures = append(r.relaxFailures, st.Failures)
		r.metrics.Iteration()
		r.metrics.SubSearch(st.Nodes, st.Failures)
		r.log.Debugw("итерация",
			"iteration", r.iter,
			"objective", r.inc.Objective(),
			"nodes", st.Nodes,
			"failures", st.Failures,
		)
	}
	r.metrics.Phase(PhaseRelax.String(), time.Since(phaseStart).Seconds())
	return r.finish(stopped), nil
}

func (r *run) initOptions() []cp.Option {
	opts := []cp.Option{cp.WithOnSolution(r.onSolution)}
	if r.cfg.FirstSolutionOnly {
		opts = append(opts, cp.WithSolutionLimit(1))
	}
	if r.cfg.InitFailureLimit > 0 {
		opts = append(opts, cp.WithFailureLimit(r.cfg.InitFailureLimit))
	}
	if r.cfg.InitTimeLimit > 0 {
		opts = append(opts, cp.WithTimeLimit(r.cfg.InitTimeLimit))
	}
	if !r.deadline.IsZero() {
		opts = append(opts, r.deadlineStop())
	}
	return opts
}

// relax выполняет одну итерацию: откат к корню, закрепление части рекорда
// без распространения, один проход до неподвижной точки и подпоиск
// с бюджетом неудач.
func (r *run) relax(ctx context.Context) (cp.Stats, error) {
	store := r.m.Store()
	store.PopTo(0)
	store.Push()
	defer store.PopTo(0)

	inst := r.m.Instance()
	for e := 0; e < inst.Employees; e++ {
		for s := 0; s < inst.Slots; s++ {
			if r.rng.Float64() < r.cfg.FixProbability {
				store.PostLazy(cp.Equal(r.m.SkillVar(e, s), r.inc.at(e, s)))
			}
		}
	}
	if err := store.Fixpoint(); err != nil {
		// рекорд является решением модели, закрепление его части противоречиво быть не может
		r.log.Warnw("закрепление рекорда противоречиво", "iteration", r.iter, "error", err)
		return cp.Stats{Failures: 1}, nil
	}

	opts := []cp.Option{
		cp.WithUpperBound(r.inc.Objective()),
		cp.WithFailureLimit(r.cfg.FailureLimit),
		cp.WithOnSolution(r.onSolution),
	}
	if !r.deadline.IsZero() {
		opts = append(opts, r.deadlineStop())
	}
	return r.search.Optimize(ctx, r.m.TotalMissed(), opts...)
}

// onSolution захватывает решение, только если оно строго лучше рекорда.
func (r *run) onSolution() {
	r.solutions++
	obj := r.m.Objective()
	if r.observe != nil {
		r.observe(r.m.Snapshot(), r.m.Works(), obj)
	}
	if !r.inc.Improves(obj) {
		return
	}
	first := r.inc.Empty()
	r.inc.Capture(r.m.Snapshot(), obj)
	if first {
		r.metrics.Best(obj)
		return
	}
	r.improvements++
	r.metrics.Improvement(obj)
	r.log.Infow("новый рекорд",
		"phase", r.phase.String(),
		"iteration", r.iter,
		"objective", obj,
	)
}

func (r *run) account(st cp.Stats) {
	r.nodes += st.Nodes
	r.failures += st.Failures
}

func (r *run) expired() bool {
	return !r.deadline.IsZero() && !time.Now().Before(r.deadline)
}

func (r *run) deadlineStop() cp.Option {
	return cp.WithStop(func(cp.Stats) bool { return r.expired() })
}

func (r *run) finish(stopped string) opt.Result {
	r.phase = PhaseDone
	res := r.result(stopped)
	r.log.Infow("готово",
		"objective", res.Objective,
		"init_objective", r.initObjective,
		"iterations", res.Iterations,
		"improvements", r.improvements,
		"stopped", stopped,
		"duration", res.Duration,
	)
	return res
}

func (r *run) result(stopped string) opt.Result {
	best, obj, _ := r.inc.Read()
	meta := map[string]any{
		"run_id":          r.runID,
		"phase":           r.phase.String(),
		"fix_probability": r.cfg.FixProbability,
		"failure_limit":   r.cfg.FailureLimit,
		"init_objective":  r.initObjective,
		"init_completed":  r.initCompleted,
		"root_bound":      r.rootLB,
		"improvements":    r.improvements,
		"trace":           r.trace,
		"relax_failures":  r.relaxFailures,
	}
	if stopped != "" {
		meta["stopped"] = stopped
	}
	return opt.Result{
		Assignment:  best,
		Objective:   obj,
		Evaluations: r.solutions,
		Iterations:  len(r.trace),
		Failures:    r.failures,
		Nodes:       r.nodes,
		Duration:    time.Since(r.start),
		Meta:        meta,
	}
}
