package cp

import "time"

// Option настраивает один запуск Search.
type Option func(*options)

type options struct {
	upperBound *int
	onSolution func()

	failureLimit  int
	nodeLimit     int
	solutionLimit int
	timeLimit     time.Duration
	stops         []func(Stats) bool
}

// stop сообщает, исчерпан ли какой-либо из лимитов (0 = без лимита).
func (o *options) stop(st Stats) bool {
	if o.failureLimit > 0 && st.Failures >= o.failureLimit {
		return true
	}
	if o.nodeLimit > 0 && st.Nodes >= o.nodeLimit {
		return true
	}
	if o.solutionLimit > 0 && st.Solutions >= o.solutionLimit {
		return true
	}
	if o.timeLimit > 0 && st.Elapsed >= o.timeLimit {
		return true
	}
	for _, f := range o.stops {
		if f(st) {
			return true
		}
	}
	return false
}

// WithStop добавляет произвольный предикат остановки.
func WithStop(f func(Stats) bool) Option {
	return func(o *options) {
		if f != nil {
			o.stops = append(o.stops, f)
		}
	}
}

// WithFailureLimit останавливает поиск после n неудач.
func WithFailureLimit(n int) Option {
	return func(o *options) { o.failureLimit = n }
}

func WithNodeLimit(n int) Option {
	return func(o *options) { o.nodeLimit = n }
}

// WithSolutionLimit останавливает поиск после n найденных решений.
func WithSolutionLimit(n int) Option {
	return func(o *options) { o.solutionLimit = n }
}

func WithTimeLimit(d time.Duration) Option {
	return func(o *options) { o.timeLimit = d }
}

// WithUpperBound требует obj <= ub с первого узла (для Optimize).
func WithUpperBound(ub int) Option {
	return func(o *options) { o.upperBound = &ub }
}

// WithOnSolution вызывает f в каждом листе-решении, пока домены ещё зафиксированы.
func WithOnSolution(f func()) Option {
	return func(o *options) { o.onSolution = f }
}
