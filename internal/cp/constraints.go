package cp

import "fmt"

type equal struct {
	x *IntVar
	v int
}

// Equal — x == v.
func Equal(x *IntVar, v int) Constraint { return &equal{x: x, v: v} }

func (c *equal) Vars() []*IntVar { return nil }
func (c *equal) Propagate(s *Store) error { return s.Assign(c.x, c.v) }
func (c *equal) String() string { return fmt.Sprintf("%s == %d", c.x.name, c.v) }

type notEqual struct {
	x *IntVar
	v int
}

// NotEqual — x != v.
func NotEqual(x *IntVar, v int) Constraint { return &notEqual{x: x, v: v} }

func (c *notEqual) Vars() []*IntVar { return nil }
func (c *notEqual) Propagate(s *Store) error { return s.Remove(c.x, c.v) }
func (c *notEqual) String() string { return fmt.Sprintf("%s != %d", c.x.name, c.v) }

type lessOrEqual struct {
	x *IntVar
	v int
}

// LessOrEqual — x <= v.
func LessOrEqual(x *IntVar, v int) Constraint { return &lessOrEqual{x: x, v: v} }

func (c *lessOrEqual) Vars() []*IntVar { return nil }
func (c *lessOrEqual) Propagate(s *Store) error { return s.RemoveAbove(c.x, c.v) }
func (c *lessOrEqual) String() string { return fmt.Sprintf("%s <= %d", c.x.name, c.v) }

// channel связывает булеву b и x: b == 0 ⇔ x == sentinel.
type channel struct {
	b, x     *IntVar
	sentinel int
}

func Channel(b, x *IntVar, sentinel int) Constraint {
	return &channel{b: b, x: x, sentinel: sentinel}
}

func (c *channel) Vars() []*IntVar { return []*IntVar{c.b, c.x} }

func (c *channel) Propagate(s *Store) error {
	if c.b.IsFixed() {
		if c.b.Value() == 0 {
			return s.Assign(c.x, c.sentinel)
		}
		return s.Remove(c.x, c.sentinel)
	}
	if !c.x.Has(c.sentinel) {
		return s.Assign(c.b, 1)
	}
	if c.x.IsFixed() {
		return s.Assign(c.b, 0)
	}
	return nil
}

func (c *channel) String() string {
	return fmt.Sprintf("%s == 0 <=> %s == %d", c.b.name, c.x.name, c.sentinel)
}

// sum — total == Σ xs, согласованность по границам.
type sum struct {
	xs    []*IntVar
	total *IntVar
	vars  []*IntVar
}

func NewSum(xs []*IntVar, total *IntVar) (Constraint, error) {
	if total == nil {
		return nil, fmt.Errorf("sum: total is nil")
	}
	for i, x := range xs {
		if x == nil {
			return nil, fmt.Errorf("sum: xs[%d] is nil", i)
		}
	}
	vars := make([]*IntVar, 0, len(xs)+1)
	vars = append(vars, xs...)
	vars = append(vars, total)
	return &sum{xs: vars[:len(xs)], total: total, vars: vars}, nil
}

func (c *sum) Vars() []*IntVar { return c.vars }

func (c *sum) Propagate(s *Store) error {
	sumMin, sumMax := 0, 0
	for _, x := range c.xs {
		sumMin += x.Min()
		sumMax += x.Max()
	}
	if err := s.RemoveBelow(c.total, sumMin); err != nil {
		return err
	}
	if err := s.RemoveAbove(c.total, sumMax); err != nil {
		return err
	}
	tMin, tMax := c.total.Min(), c.total.Max()
	for _, x := range c.xs {
		xMin, xMax := x.Min(), x.Max()
		// x >= t.min - (остальные по максимуму), x <= t.max - (остальные по минимуму)
		if err := s.RemoveBelow(x, tMin-(sumMax-xMax)); err != nil {
			return err
		}
		if err := s.RemoveAbove(x, tMax-(sumMin-xMin)); err != nil {
			return err
		}
	}
	return nil
}

func (c *sum) String() string {
	return fmt.Sprintf("%s == sum(%d terms)", c.total.name, len(c.xs))
}
