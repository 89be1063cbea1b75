package cp

import "fmt"

// SoftCardinality — мягкая кардинальность: вместо запрета измеряет нарушение
//
//	viol == Σ_v max(0, minCard[v] - count[v]) + Σ_v max(0, count[v] - maxCard[v])
//
// где count[v] равно числу xs со значением v. Значения вне [0, len(minCard))
// не ограничены.
//
// Нижняя граница недостачи берётся из максимального b-паросочетания
// "переменная → единица спроса" (ёмкость значения v равна minCard[v]),
// верхняя из уже зафиксированных переменных. Когда граница viol.Max()
// достигнута, из доменов удаляются значения, выбор которых её превысит.
// После фиксации всех xs нарушение вычисляется точно.
type SoftCardinality struct {
	xs      []*IntVar
	viol    *IntVar
	vars    []*IntVar
	minCard []int
	maxCard []int

	// единицы спроса значения v занимают [unitOff[v], unitOff[v]+minCard[v])
	unitOff  []int
	units    int
	demand   int
	owner    []int
	matched  []int
	visited  []bool
	fixedCnt []int
	possCnt  []int

	// переопределение домена одной переменной при проверке значения
	probeVar int
	probeVal int
}

func NewSoftCardinality(xs []*IntVar, minCard, maxCard []int, viol *IntVar) (*SoftCardinality, error) {
	if viol == nil {
		return nil, fmt.Errorf("soft cardinality: violation variable is nil")
	}
	if len(minCard) != len(maxCard) {
		return nil, fmt.Errorf("soft cardinality: len(minCard)=%d != len(maxCard)=%d", len(minCard), len(maxCard))
	}
	for v := range minCard {
		if minCard[v] < 0 || maxCard[v] < 0 {
			return nil, fmt.Errorf("soft cardinality: negative bound at value %d", v)
		}
		if minCard[v] > maxCard[v] {
			return nil, fmt.Errorf("soft cardinality: minCard[%d]=%d > maxCard[%d]=%d", v, minCard[v], v, maxCard[v])
		}
	}
	for i, x := range xs {
		if x == nil {
			return nil, fmt.Errorf("soft cardinality: xs[%d] is nil", i)
		}
	}

	n := len(minCard)
	c := &SoftCardinality{
		viol:     viol,
		minCard:  append([]int(nil), minCard...),
		maxCard:  append([]int(nil), maxCard...),
		unitOff:  make([]int, n),
		visited:  make([]bool, n),
		fixedCnt: make([]int, n),
		possCnt:  make([]int, n),
		matched:  make([]int, len(xs)),
		probeVar: -1,
	}
	for v := 0; v < n; v++ {
		c.unitOff[v] = c.units
		c.units += minCard[v]
	}
	c.demand = c.units
	c.owner = make([]int, c.units)

	c.vars = make([]*IntVar, 0, len(xs)+1)
	c.vars = append(c.vars, xs...)
	c.vars = append(c.vars, viol)
	c.xs = c.vars[:len(xs)]
	return c, nil
}

func (c *SoftCardinality) Vars() []*IntVar { return c.vars }

func (c *SoftCardinality) String() string {
	return fmt.Sprintf("softCardinality(n=%d, values=%d) -> %s", len(c.xs), len(c.minCard), c.viol.name)
}

func (c *SoftCardinality) Propagate(s *Store) error {
	for v := range c.fixedCnt {
		c.fixedCnt[v] = 0
		c.possCnt[v] = 0
	}
	for _, x := range c.xs {
		if x.IsFixed() {
			if v := x.Value(); v < len(c.fixedCnt) {
				c.fixedCnt[v]++
			}
		}
		x.dom.each(func(v int) bool {
			if v >= len(c.possCnt) {
				return false
			}
			c.possCnt[v]++
			return true
		})
	}

	underUB, overLB, overUB := 0, 0, 0
	for v := range c.minCard {
		if d := c.minCard[v] - c.fixedCnt[v]; d > 0 {
			underUB += d
		}
		if d := c.fixedCnt[v] - c.maxCard[v]; d > 0 {
			overLB += d
		}
		if d := c.possCnt[v] - c.maxCard[v]; d > 0 {
			overUB += d
		}
	}

	c.probeVar = -1
	m := c.maxMatching()
	lb := c.demand - m + overLB

	if err := s.RemoveBelow(c.viol, lb); err != nil {
		return err
	}
	if err := s.RemoveAbove(c.viol, underUB+overUB); err != nil {
		return err
	}
	if c.viol.Max() > lb {
		return nil
	}
	return c.filter(s, lb)
}

// filter удаляет значения, выбор которых поднимает нижнюю границу выше viol.Max().
// Вызывается только когда граница натянута (viol.Max() == lb).
func (c *SoftCardinality) filter(s *Store, lb int) error {
	base := append([]int(nil), c.matched...)
	baseOwner := append([]int(nil), c.owner...)
	limit := c.viol.Max()

	for i, x := range c.xs {
		if x.IsFixed() {
			continue
		}
		var prune []int
		x.dom.each(func(v int) bool {
			if c.probeLB(i, v, base, baseOwner, lb) > limit {
				prune = append(prune, v)
			}
			return true
		})
		for _, v := range prune {
			if err := s.Remove(x, v); err != nil {
				return err
			}
		}
	}
	c.probeVar = -1
	return nil
}

// probeLB считает нижнюю границу нарушения при x_i = v.
func (c *SoftCardinality) probeLB(i, v int, base, baseOwner []int, lb int) int {
	copy(c.matched, base)
	copy(c.owner, baseOwner)
	m := 0
	for _, u := range c.matched {
		if u >= 0 {
			m++
		}
	}
	if u := c.matched[i]; u >= 0 {
		c.owner[u] = -1
		c.matched[i] = -1
		m--
	}
	c.probeVar, c.probeVal = i, v
	for j := range c.xs {
		if c.matched[j] >= 0 {
			continue
		}
		c.clearVisited()
		if c.augment(j) {
			m++
		}
	}

	over := 0
	if v < len(c.maxCard) && c.fixedCnt[v] >= c.maxCard[v] {
		over = 1
	}
	// lb уже содержит overLB и недостачу базового паросочетания
	baseM := 0
	for _, u := range base {
		if u >= 0 {
			baseM++
		}
	}
	return lb + (baseM - m) + over
}

// maxMatching строит максимальное b-паросочетание алгоритмом Куна.
func (c *SoftCardinality) maxMatching() int {
	for u := range c.owner {
		c.owner[u] = -1
	}
	for i := range c.matched {
		c.matched[i] = -1
	}
	m := 0
	for i := range c.xs {
		c.clearVisited()
		if c.augment(i) {
			m++
		}
	}
	return m
}

func (c *SoftCardinality) clearVisited() {
	for v := range c.visited {
		c.visited[v] = false
	}
}

func (c *SoftCardinality) augment(i int) bool {
	found := false
	c.eachValue(i, func(v int) bool {
		if v >= len(c.minCard) {
			return false
		}
		if c.minCard[v] == 0 || c.visited[v] {
			return true
		}
		c.visited[v] = true
		lo, hi := c.unitOff[v], c.unitOff[v]+c.minCard[v]
		for u := lo; u < hi; u++ {
			if c.owner[u] < 0 {
				c.take(i, u)
				found = true
				return false
			}
		}
		for u := lo; u < hi; u++ {
			if c.augment(c.owner[u]) {
				c.take(i, u)
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func (c *SoftCardinality) take(i, u int) {
	c.owner[u] = i
	c.matched[i] = u
}

func (c *SoftCardinality) eachValue(i int, f func(v int) bool) {
	if i == c.probeVar {
		f(c.probeVal)
		return
	}
	c.xs[i].dom.each(f)
}
