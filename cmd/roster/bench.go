package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rostering/internal/bench"
	"rostering/internal/lns"
	"rostering/internal/opt"
	"rostering/internal/sa"
	"rostering/internal/ts"
)

// Фабрики

func newLNSFactory(cfg lns.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := lns.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

type benchOptions struct {
	out          string
	sizes        string
	algos        string
	runs         int
	baseSeed     int64
	instanceSeed int64
	perRunTO     time.Duration
	parallel     int
	skillProb    float64
	maxDemand    int

	lns lns.Config
	sa  sa.Config
	ts  ts.Config
}

func newBenchCmd() *cobra.Command {
	o := &benchOptions{
		lns: lns.DefaultConfig(),
		sa:  sa.DefaultConfig(),
		ts:  ts.DefaultConfig(),
	}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Сравнить LNS с базовыми эвристиками на случайных экземплярах, результат в CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, o)
		},
	}

	// CLI флаги для настройки параметров алгоритмов и политики запуска
	f := cmd.Flags()
	f.StringVar(&o.out, "out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	f.StringVar(&o.sizes, "sizes", "10x8x3,30x20x10", "конфигурации: слоты x сотрудники x навыки (через запятую)")
	f.StringVar(&o.algos, "algos", "LNS,SA,TS", "список алгоритмов: LNS, SA, TS (через запятую)")
	f.IntVar(&o.runs, "runs", 10, "количество запусков каждого алгоритма (с разными сидами)")
	f.Int64Var(&o.baseSeed, "seed", 1000, "базовый сид для запусков алгоритмов")
	f.Int64Var(&o.instanceSeed, "instance_seed", 777, "базовый сид для генерации экземпляров (фиксирован для конфигурации)")
	f.DurationVar(&o.perRunTO, "per_run_timeout", 0, "таймаут одного запуска; 0 = без ограничения")
	f.IntVar(&o.parallel, "parallel", 1, "число одновременных независимых запусков")
	f.Float64Var(&o.skillProb, "skill_prob", 0.3, "вероятность владения навыком в генераторе")
	f.IntVar(&o.maxDemand, "max_demand", 5, "максимальный спрос по навыку в слоте")

	// --- LNS ---
	f.Float64Var(&o.lns.FixProbability, "lns_pfix", o.lns.FixProbability, "вероятность закрепить клетку за рекордом")
	f.IntVar(&o.lns.FailureLimit, "lns_failures", o.lns.FailureLimit, "бюджет неудач одного подпоиска")
	f.IntVar(&o.lns.Iterations, "lns_iter", o.lns.Iterations, "количество итераций RELAX")
	f.IntVar(&o.lns.InitFailureLimit, "lns_init_failures", o.lns.InitFailureLimit, "бюджет неудач начального поиска (0 = до исчерпания)")
	f.DurationVar(&o.lns.TimeLimit, "lns_time", o.lns.TimeLimit, "ограничение времени запуска LNS")
	f.IntVar(&o.lns.MaxSlotsPerEmployee, "lns_max_slots", o.lns.MaxSlotsPerEmployee, "предел рабочих слотов сотрудника (0 = без предела)")

	// --- Алгоритм имитации отжига ---
	f.IntVar(&o.sa.IterationsPerCell, "sa_iter_per_cell", o.sa.IterationsPerCell, "итераций на клетку (используется, если sa_iter == 0)")
	f.IntVar(&o.sa.Iterations, "sa_iter", o.sa.Iterations, "общее количество итераций (0 => sa_iter_per_cell × сотрудники × слоты)")
	f.Float64Var(&o.sa.InitialTemp, "sa_t0", o.sa.InitialTemp, "начальная температура")
	f.Float64Var(&o.sa.FinalTemp, "sa_tmin", o.sa.FinalTemp, "конечная температура")
	f.Float64Var(&o.sa.Alpha, "sa_alpha", o.sa.Alpha, "коэффициент охлаждения (alpha)")
	f.StringVar((*string)(&o.sa.Neighborhood), "sa_neigh", string(o.sa.Neighborhood), "тип окрестности: reassign | swap")

	// --- Табу-поиск ---
	f.IntVar(&o.ts.IterationsPerCell, "ts_iter_per_cell", o.ts.IterationsPerCell, "итераций на клетку (используется, если ts_iter == 0)")
	f.IntVar(&o.ts.Iterations, "ts_iter", o.ts.Iterations, "общее количество итераций (0 => ts_iter_per_cell × сотрудники × слоты)")
	f.IntVar(&o.ts.TabuTenure, "ts_tenure", o.ts.TabuTenure, "длина табу (в итерациях)")
	f.IntVar(&o.ts.TabuTenureRand, "ts_tenure_rand", o.ts.TabuTenureRand, "случайное добавление к сроку табу [0..rand]")
	f.IntVar(&o.ts.NeighborsPerIter, "ts_neighbors", o.ts.NeighborsPerIter, "количество рассматриваемых соседей на итерацию")
	f.StringVar((*string)(&o.ts.Neighborhood), "ts_neigh", string(o.ts.Neighborhood), "тип окрестности: reassign | swap")
	return cmd
}

func runBench(cmd *cobra.Command, o *benchOptions) error {
	out := cmd.OutOrStdout()

	cases, err := parseSizes(o.sizes, o.instanceSeed, o.skillProb, o.maxDemand)
	if err != nil {
		return err
	}
	if err := o.lns.Validate(); err != nil {
		return fmt.Errorf("конфигурация LNS: %w", err)
	}
	if err := o.sa.Validate(); err != nil {
		return fmt.Errorf("конфигурация алгоритма имитации отжига: %w", err)
	}
	if err := o.ts.Validate(); err != nil {
		return fmt.Errorf("конфигурация табу-поиска: %w", err)
	}
	if o.runs <= 0 {
		return fmt.Errorf("runs должно быть > 0 (получено %d)", o.runs)
	}

	available := map[string]bench.Algorithm{
		"LNS": {Name: "LNS", Factory: newLNSFactory(o.lns)},
		"SA":  {Name: "SA", Factory: newSAFactory(o.sa)},
		"TS":  {Name: "TS", Factory: newTSFactory(o.ts)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(o.algos) {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			return fmt.Errorf("алгоритм %q не предоставлен в программе; доступные: %v", a, keys(available))
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          o.runs,
		BaseSeed:      o.baseSeed,
		PerRunTimeout: o.perRunTO,
		Parallel:      o.parallel,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Fprintf(out, "Запущен алгоритм %s; экземпляр %s (общее кол-во запусков=%d)...\n", a.Name, c, runner.Runs)

			rec, err := runner.RunCase(cmd.Context(), c, a)
			if err != nil {
				return err
			}
			records = append(records, rec)

			fmt.Fprintf(out, "  Недостача: лучшее=%d среднее=%.2f стандартное отклонение=%.2f (спрос %d) | Время: среднее=%.2fms отклонение=%.2fms\n",
				rec.ObjectiveBest, rec.ObjectiveMean, rec.ObjectiveStd, rec.TotalDemand,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(o.out, records); err != nil {
		return fmt.Errorf("запись CSV: %w", err)
	}
	fmt.Fprintln(out, "Saved:", o.out)
	return nil
}

// helpers

func parseSizes(s string, baseInstanceSeed int64, skillProb float64, maxDemand int) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		dims := strings.Split(p, "x")
		if len(dims) != 3 {
			return nil, fmt.Errorf("размер %q невалидной схемы, пример: 30x20x10", p)
		}
		var v [3]int
		for j, d := range dims {
			n, err := strconv.Atoi(strings.TrimSpace(d))
			if err != nil {
				return nil, fmt.Errorf("размер %q: %w", p, err)
			}
			if n <= 0 {
				return nil, fmt.Errorf("размер %q: все размерности должны быть > 0", p)
			}
			v[j] = n
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(v[0])*100 + int64(v[1])

		cases = append(cases, bench.Case{
			Slots:        v[0],
			Employees:    v[1],
			Skills:       v[2],
			SkillProb:    skillProb,
			MaxDemand:    maxDemand,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
