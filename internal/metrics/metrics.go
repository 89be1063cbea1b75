// Package metrics — счётчики Prometheus для LNS-решателя.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder собирает метрики одного или нескольких запусков решателя.
// Нулевой указатель допустим: все методы становятся пустыми.
type Recorder struct {
	iterations    prometheus.Counter
	improvements  prometheus.Counter
	failures      prometheus.Counter
	nodes         prometheus.Counter
	subFailures   prometheus.Histogram
	bestObjective prometheus.Gauge
	phaseDuration *prometheus.HistogramVec
}

// New регистрирует метрики в reg. Повторная регистрация в том же reg приводит к панике promauto.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		iterations: f.NewCounter(prometheus.CounterOpts{
			Name: "roster_lns_iterations_total",
			Help: "Completed LNS relaxation iterations",
		}),
		improvements: f.NewCounter(prometheus.CounterOpts{
			Name: "roster_lns_improvements_total",
			Help: "Strict improvements of the incumbent",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "roster_search_failures_total",
			Help: "Search failures (backtracks) over the initial search and all relaxation sub-searches",
		}),
		nodes: f.NewCounter(prometheus.CounterOpts{
			Name: "roster_search_nodes_total",
			Help: "Search nodes over the initial search and all relaxation sub-searches",
		}),
		subFailures: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "roster_lns_subsearch_failures",
			Help:    "Failures per relaxation sub-search",
			Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000, 5000},
		}),
		bestObjective: f.NewGauge(prometheus.GaugeOpts{
			Name: "roster_best_objective",
			Help: "Objective (total missed demand) of the current incumbent",
		}),
		phaseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_phase_duration_seconds",
			Help:    "Duration of solver phases in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"phase"}),
	}
}

// Search учитывает узлы и неудачи любого поиска (начального или подпоиска RELAX).
func (r *Recorder) Search(nodes, failures int) {
	if r == nil {
		return
	}
	r.nodes.Add(float64(nodes))
	r.failures.Add(float64(failures))
}

// SubSearch учитывает статистику одного подпоиска RELAX, в том числе в гистограмме.
func (r *Recorder) SubSearch(nodes, failures int) {
	if r == nil {
		return
	}
	r.Search(nodes, failures)
	r.subFailures.Observe(float64(failures))
}

func (r *Recorder) Iteration() {
	if r == nil {
		return
	}
	r.iterations.Inc()
}

// Improvement фиксирует новое лучшее значение целевой функции.
func (r *Recorder) Improvement(objective int) {
	if r == nil {
		return
	}
	r.improvements.Inc()
	r.bestObjective.Set(float64(objective))
}

// Best выставляет текущее значение без учёта улучшения (первое решение).
func (r *Recorder) Best(objective int) {
	if r == nil {
		return
	}
	r.bestObjective.Set(float64(objective))
}

// Phase записывает длительность фазы ("init", "relax").
func (r *Recorder) Phase(phase string, seconds float64) {
	if r == nil {
		return
	}
	r.phaseDuration.WithLabelValues(phase).Observe(seconds)
}
