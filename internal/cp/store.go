package cp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDomain — переменная создаётся с пустым доменом.
	ErrEmptyDomain = errors.New("empty domain")
	// ErrInconsistent — распространение опустошило домен (тупик поиска).
	ErrInconsistent = errors.New("inconsistent")
)

// Constraint — ограничение, сужающее домены своих переменных через Store.
// Propagate может вызываться повторно и должен быть монотонным.
type Constraint interface {
	Vars() []*IntVar
	Propagate(s *Store) error
}

// IntVar — переменная решения. Домен меняется только через методы Store.
type IntVar struct {
	id       int
	name     string
	dom      Domain
	stamp    uint64
	watchers []int
}

func (x *IntVar) ID() int { return x.id }
func (x *IntVar) Name() string { return x.name }
func (x *IntVar) Size() int { return x.dom.Size() }
func (x *IntVar) Min() int { return x.dom.Min() }
func (x *IntVar) Max() int { return x.dom.Max() }
func (x *IntVar) Has(v int) bool { return x.dom.Has(v) }
func (x *IntVar) IsFixed() bool { return x.dom.IsFixed() }
func (x *IntVar) Values() []int { return x.dom.Values() }
func (x *IntVar) Domain() Domain { return x.dom.clone() }
func (x *IntVar) String() string { return x.name + x.dom.String() }

// Value возвращает значение зафиксированной переменной; для нефиксированной минимум домена.
func (x *IntVar) Value() int { return x.dom.Min() }

type trailEntry struct {
	x     *IntVar
	words []uint64
	size  int
	stamp uint64
}

type level struct {
	trail int
	cons  int
}

// Store владеет переменными и ограничениями. Изменения доменов после Push
// записываются в trail и откатываются Pop. Ограничения, добавленные после
// Push, снимаются тем же Pop.
//
// Store не потокобезопасен: у каждого поиска свой Store.
type Store struct {
	vars  []*IntVar
	cons  []Constraint
	queue []int
	inQ   []bool

	trail  []trailEntry
	levels []level
	epoch  uint64

	propagations int
}

func NewStore() *Store {
	return &Store{epoch: 1}
}

// NewIntVar создаёт переменную с доменом из перечисленных значений (значения >= 0).
func (s *Store) NewIntVar(name string, values []int) (*IntVar, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: variable %s", ErrEmptyDomain, name)
	}
	for _, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("variable %s: negative value %d", name, v)
		}
	}
	return s.addVar(name, newDomain(values)), nil
}

// NewIntVarRange создаёт переменную с доменом [lo, hi].
func (s *Store) NewIntVarRange(name string, lo, hi int) (*IntVar, error) {
	if lo < 0 {
		return nil, fmt.Errorf("variable %s: negative lower bound %d", name, lo)
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: variable %s [%d,%d]", ErrEmptyDomain, name, lo, hi)
	}
	return s.addVar(name, newRangeDomain(lo, hi)), nil
}

func (s *Store) NewBoolVar(name string) *IntVar {
	return s.addVar(name, newRangeDomain(0, 1))
}

func (s *Store) addVar(name string, d Domain) *IntVar {
	x := &IntVar{id: len(s.vars), name: name, dom: d}
	s.vars = append(s.vars, x)
	return x
}

func (s *Store) NumVars() int { return len(s.vars) }
func (s *Store) NumConstraints() int { return len(s.cons) }

// Propagations — число вызовов Propagate с момента создания Store.
func (s *Store) Propagations() int { return s.propagations }

// Post добавляет ограничение и сразу доводит распространение до неподвижной точки.
func (s *Store) Post(c Constraint) error {
	s.PostLazy(c)
	return s.Fixpoint()
}

// PostLazy добавляет ограничение в очередь без распространения.
// Распространение выполнит следующий Fixpoint (или Post).
func (s *Store) PostLazy(c Constraint) {
	idx := len(s.cons)
	s.cons = append(s.cons, c)
	s.inQ = append(s.inQ, false)
	for _, x := range c.Vars() {
		x.watchers = append(x.watchers, idx)
	}
	s.enqueue(idx)
}

// Fixpoint распространяет ограничения из очереди, пока домены меняются.
// При опустошении домена очередь сбрасывается и возвращается ErrInconsistent;
// состояние Store после этого нужно откатить через Pop.
func (s *Store) Fixpoint() error {
	for len(s.queue) > 0 {
		idx := s.queue[0]
		s.queue = s.queue[1:]
		s.inQ[idx] = false
		s.propagations++
		if err := s.cons[idx].Propagate(s); err != nil {
			s.clearQueue()
			return err
		}
	}
	return nil
}

func (s *Store) enqueue(idx int) {
	if s.inQ[idx] {
		return
	}
	s.inQ[idx] = true
	s.queue = append(s.queue, idx)
}

func (s *Store) clearQueue() {
	for _, idx := range s.queue {
		s.inQ[idx] = false
	}
	s.queue = s.queue[:0]
}

// Level возвращает текущую глубину trail (0 = корень).
func (s *Store) Level() int { return len(s.levels) }

// Push открывает новый уровень отката.
func (s *Store) Push() {
	s.levels = append(s.levels, level{trail: len(s.trail), cons: len(s.cons)})
	s.epoch++
}

// Pop откатывает домены и ограничения к состоянию последнего Push.
func (s *Store) Pop() {
	if len(s.levels) == 0 {
		return
	}
	s.clearQueue()
	lv := s.levels[len(s.levels)-1]
	s.levels = s.levels[:len(s.levels)-1]

	for i := len(s.trail) - 1; i >= lv.trail; i-- {
		e := s.trail[i]
		copy(e.x.dom.words, e.words)
		e.x.dom.size = e.size
		e.x.stamp = e.stamp
	}
	s.trail = s.trail[:lv.trail]

	for i := len(s.cons) - 1; i >= lv.cons; i-- {
		vars := s.cons[i].Vars()
		for j := len(vars) - 1; j >= 0; j-- {
			x := vars[j]
			x.watchers = x.watchers[:len(x.watchers)-1]
		}
	}
	s.cons = s.cons[:lv.cons]
	s.inQ = s.inQ[:lv.cons]
	s.epoch++
}

// PopTo откатывает Store до уровня lvl.
func (s *Store) PopTo(lvl int) {
	for len(s.levels) > lvl {
		s.Pop()
	}
}

func (s *Store) save(x *IntVar) {
	if len(s.levels) == 0 || x.stamp == s.epoch {
		return
	}
	words := make([]uint64, len(x.dom.words))
	copy(words, x.dom.words)
	s.trail = append(s.trail, trailEntry{x: x, words: words, size: x.dom.size, stamp: x.stamp})
	x.stamp = s.epoch
}

func (s *Store) changed(x *IntVar) error {
	if x.dom.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrInconsistent, x.name)
	}
	for _, idx := range x.watchers {
		s.enqueue(idx)
	}
	return nil
}

// Assign фиксирует x = v.
func (s *Store) Assign(x *IntVar, v int) error {
	if x.dom.IsFixed() && x.dom.Has(v) {
		return nil
	}
	s.save(x)
	x.dom.keepOnly(v)
	return s.changed(x)
}

// Remove удаляет v из домена x.
func (s *Store) Remove(x *IntVar, v int) error {
	if !x.dom.Has(v) {
		return nil
	}
	s.save(x)
	x.dom.remove(v)
	return s.changed(x)
}

// RemoveBelow оставляет в домене x только значения >= lo.
func (s *Store) RemoveBelow(x *IntVar, lo int) error {
	if x.dom.IsEmpty() || lo <= x.dom.Min() {
		return nil
	}
	s.save(x)
	x.dom.removeBelow(lo)
	return s.changed(x)
}

// RemoveAbove оставляет в домене x только значения <= hi.
func (s *Store) RemoveAbove(x *IntVar, hi int) error {
	if x.dom.IsEmpty() || hi >= x.dom.Max() {
		return nil
	}
	s.save(x)
	x.dom.removeAbove(hi)
	return s.changed(x)
}
