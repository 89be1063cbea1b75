package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"rostering/internal/opt"
	"rostering/internal/roster"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case задаёт параметры генератора; экземпляр фиксирован сидом.
type Case struct {
	Slots        int
	Employees    int
	Skills       int
	SkillProb    float64
	MaxDemand    int
	InstanceSeed int64
}

func (c Case) String() string {
	return fmt.Sprintf("%dx%dx%d", c.Slots, c.Employees, c.Skills)
}

type Record struct {
	Algo      string
	Slots     int
	Employees int
	Skills    int
	Runs      int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ObjectiveBest int
	ObjectiveMean float64
	ObjectiveStd  float64

	// TotalDemand: недостача пустого расписания, верхняя граница цели.
	TotalDemand int
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Parallel: сколько независимых запусков выполняется одновременно; <= 1 означает последовательно.
	Parallel int
}

type runResult struct {
	objective int
	ms        float64
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	instRng := rand.New(rand.NewSource(c.InstanceSeed))
	inst, err := roster.RandomInstance(c.Slots, c.Employees, c.Skills, c.SkillProb, c.MaxDemand, instRng)
	if err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c, err)
	}

	results := make([]runResult, r.Runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Parallel))
	for i := 0; i < r.Runs; i++ {
		i := i
		g.Go(func() error {
			res, err := r.runOnce(gctx, inst, algo, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}

	objectives := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	for _, res := range results {
		objectives = append(objectives, res.objective)
		timesMs = append(timesMs, res.ms)
	}

	objStats := CalcIntStats(objectives)
	tStats := CalcFloatStats(timesMs)

	return Record{
		Algo:      algo.Name,
		Slots:     c.Slots,
		Employees: c.Employees,
		Skills:    c.Skills,
		Runs:      r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ObjectiveBest: objStats.Best,
		ObjectiveMean: objStats.Mean,
		ObjectiveStd:  objStats.Std,

		TotalDemand: inst.TotalDemand(),
	}, nil
}

// runOnce выполняет один запуск со своим сидом и собственным решателем.
func (r Runner) runOnce(ctx context.Context, inst *roster.Instance, algo Algorithm, i int) (runResult, error) {
	runSeed := r.BaseSeed + int64(i)

	op := algo.Factory(runSeed)
	if op == nil {
		return runResult{}, fmt.Errorf("run %d: factory returned nil optimizer", i)
	}

	runCtx := ctx
	cancel := func() {}
	if r.PerRunTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
	}
	start := time.Now()
	res, err := op.Solve(runCtx, inst)
	dur := time.Since(start)
	cancel()

	if err != nil && runCtx.Err() != nil {
		return runResult{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
	}
	if err != nil {
		return runResult{}, fmt.Errorf("run %d: solve error: %w", i, err)
	}

	// Проверка ответа независимой оценкой
	ev, err := roster.NewEvaluator(inst)
	if err != nil {
		return runResult{}, err
	}
	got, err := ev.TotalMissed(res.Assignment)
	if err != nil {
		return runResult{}, fmt.Errorf("run %d: invalid assignment: %w", i, err)
	}
	if got != res.Objective {
		return runResult{}, fmt.Errorf("run %d: reported objective %d, evaluated %d", i, res.Objective, got)
	}

	return runResult{
		objective: res.Objective,
		ms:        float64(dur.Microseconds()) / 1000.0,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "slots", "employees", "skills", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"objective_best", "objective_mean", "objective_std",
		"total_demand",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			itoa(r.Slots),
			itoa(r.Employees),
			itoa(r.Skills),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.ObjectiveBest),
			ftoa(r.ObjectiveMean),
			ftoa(r.ObjectiveStd),

			itoa(r.TotalDemand),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
