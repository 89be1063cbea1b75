package cp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errStopped — внутренний сигнал остановки по лимиту; наружу не выходит.
var errStopped = errors.New("search stopped")

// Stats — агрегированная статистика одного запуска поиска.
type Stats struct {
	Nodes     int
	Failures  int
	Solutions int
	// Completed == true, если пространство поиска исчерпано (не остановлено лимитом).
	Completed bool
	Elapsed   time.Duration
}

func (st Stats) String() string {
	return fmt.Sprintf("nodes=%d failures=%d solutions=%d completed=%t elapsed=%s",
		st.Nodes, st.Failures, st.Solutions, st.Completed, st.Elapsed)
}

// Search — поиск в глубину с ветвями и границами поверх Store.
type Search struct {
	store     *Store
	branching Branching
}

func NewSearch(store *Store, branching Branching) *Search {
	return &Search{store: store, branching: branching}
}

// Solve перечисляет решения без целевой функции (обычно с WithSolutionLimit).
func (s *Search) Solve(ctx context.Context, opts ...Option) (Stats, error) {
	return s.run(ctx, nil, opts)
}

// Optimize минимизирует obj. После каждого решения со значением best
// все последующие узлы требуют obj <= best-1.
//
// Остановка по лимиту не ошибка: Stats.Completed == false.
// Отмена ctx возвращает ctx.Err() вместе с накопленной статистикой.
// Store возвращается на уровень, на котором был вызван Optimize.
func (s *Search) Optimize(ctx context.Context, obj *IntVar, opts ...Option) (Stats, error) {
	if obj == nil {
		return Stats{}, fmt.Errorf("optimize: objective is nil")
	}
	return s.run(ctx, obj, opts)
}

type run struct {
	ctx    context.Context
	store  *Store
	branch Branching
	cfg    options
	obj    *IntVar
	// целевая функция ограничена сверху bound, если hasBound
	hasBound bool
	bound    int
	start    time.Time
	stats    Stats
}

func (s *Search) run(ctx context.Context, obj *IntVar, opts []Option) (Stats, error) {
	cfg := options{}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	r := &run{
		ctx:    ctx,
		store:  s.store,
		branch: s.branching,
		cfg:    cfg,
		obj:    obj,
		start:  time.Now(),
	}
	if cfg.upperBound != nil {
		r.hasBound, r.bound = true, *cfg.upperBound
	}

	base := s.store.Level()
	s.store.Push()
	err := r.tighten()
	if err == nil {
		err = s.store.Fixpoint()
	}
	if err == nil {
		err = r.dfs()
	} else if errors.Is(err, ErrInconsistent) {
		r.stats.Failures++
		err = nil
	}
	s.store.PopTo(base)

	r.stats.Elapsed = time.Since(r.start)
	switch {
	case err == nil:
		r.stats.Completed = true
		return r.stats, nil
	case errors.Is(err, errStopped):
		return r.stats, nil
	default:
		return r.stats, err
	}
}

func (r *run) dfs() error {
	if err := r.check(); err != nil {
		return err
	}
	branches := r.branch()
	if len(branches) == 0 {
		r.solution()
		return nil
	}
	for _, b := range branches {
		if err := r.check(); err != nil {
			return err
		}
		r.store.Push()
		r.stats.Nodes++
		err := r.tighten()
		if err == nil {
			err = b()
		}
		if err == nil {
			err = r.dfs()
		} else if errors.Is(err, ErrInconsistent) {
			r.stats.Failures++
			err = nil
		}
		r.store.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *run) solution() {
	r.stats.Solutions++
	if r.obj != nil {
		r.hasBound, r.bound = true, r.obj.Min()-1
	}
	if r.cfg.onSolution != nil {
		r.cfg.onSolution()
	}
}

// tighten применяет текущую верхнюю границу целевой функции.
func (r *run) tighten() error {
	if r.obj == nil || !r.hasBound {
		return nil
	}
	if r.bound < 0 {
		return fmt.Errorf("%w: objective bound below zero", ErrInconsistent)
	}
	return r.store.RemoveAbove(r.obj, r.bound)
}

func (r *run) check() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.stats.Elapsed = time.Since(r.start)
	if r.cfg.stop(r.stats) {
		return errStopped
	}
	return nil
}
