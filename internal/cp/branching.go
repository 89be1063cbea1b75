package cp

// Branch — одна альтернатива в точке выбора. Выполняется на новом уровне Store;
// ошибка ErrInconsistent означает неудачу ветви.
type Branch func() error

// Branching возвращает альтернативы следующей точки выбора; nil, если выбирать больше нечего.
type Branching func() []Branch

// FirstFail выбирает нефиксированную переменную с наименьшим доменом
// (при равенстве самую левую) и ветвится x == min(x), затем x != min(x).
func FirstFail(s *Store, vars ...*IntVar) Branching {
	return func() []Branch {
		var sel *IntVar
		for _, x := range vars {
			if x.IsFixed() {
				continue
			}
			if sel == nil || x.Size() < sel.Size() {
				sel = x
				if sel.Size() == 2 {
					break
				}
			}
		}
		if sel == nil {
			return nil
		}
		v := sel.Min()
		return []Branch{
			func() error { return s.Post(Equal(sel, v)) },
			func() error { return s.Post(NotEqual(sel, v)) },
		}
	}
}

// And применяет ветвления по очереди: следующее включается, когда предыдущее исчерпано.
func And(bs ...Branching) Branching {
	return func() []Branch {
		for _, b := range bs {
			if br := b(); len(br) > 0 {
				return br
			}
		}
		return nil
	}
}
