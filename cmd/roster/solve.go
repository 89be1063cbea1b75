package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"rostering/internal/config"
	"rostering/internal/lns"
	"rostering/internal/logger"
	"rostering/internal/metrics"
	"rostering/internal/opt"
	"rostering/internal/roster"
)

type solveOptions struct {
	configPath   string
	instancePath string
	seed         int64
	timeLimit    time.Duration
	iterations   int
	logLevel     string
	metricsFile  string
}

func newSolveCmd() *cobra.Command {
	o := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Решить экземпляр из файла или сгенерированный по конфигурации",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML-файл конфигурации запуска")
	f.StringVar(&o.instancePath, "instance", "", "файл экземпляра (иначе генерируется по секции instance.random)")
	f.Int64Var(&o.seed, "seed", 0, "сид генератора случайных чисел LNS")
	f.DurationVar(&o.timeLimit, "time-limit", 0, "ограничение времени всего запуска; 0 = без ограничения")
	f.IntVar(&o.iterations, "iterations", 0, "число итераций RELAX")
	f.StringVar(&o.logLevel, "log-level", "", "уровень логов: debug | info | warn | error (иначе LOG_LEVEL или конфигурация)")
	f.StringVar(&o.metricsFile, "metrics-file", "", "записать метрики Prometheus в текстовый файл")
	return cmd
}

func runSolve(cmd *cobra.Command, o *solveOptions) error {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("instance") {
		cfg.Instance.Path = o.instancePath
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("time-limit") {
		cfg.LNS.TimeLimit = o.timeLimit
	}
	if flags.Changed("iterations") {
		cfg.LNS.Iterations = o.iterations
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if os.Getenv("LOG_LEVEL") != "" {
		level = logger.LevelFromEnv()
	}
	if o.logLevel != "" {
		level = logger.ParseLevel(o.logLevel)
	}
	log := logger.New(level)
	defer func() { _ = log.Sync() }()

	inst, err := loadInstance(cfg.Instance)
	if err != nil {
		return err
	}

	solver, err := lns.New(cfg.LNSConfig(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	solver.Log = log
	solver.Metrics = metrics.New(reg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, solveErr := solver.Solve(ctx, inst)
	if solveErr != nil && !errors.Is(solveErr, context.Canceled) {
		return solveErr
	}
	if res.Assignment != nil {
		if err := printRoster(cmd.OutOrStdout(), inst, res); err != nil {
			return err
		}
	}

	if o.metricsFile != "" {
		if err := prometheus.WriteToTextfile(o.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return solveErr
}

func loadInstance(c config.InstanceConfig) (*roster.Instance, error) {
	if c.Path != "" {
		return roster.ParseFile(c.Path)
	}
	r := c.Random
	return roster.RandomInstance(r.Slots, r.Employees, r.Skills, r.SkillProb, r.MaxDemand,
		rand.New(rand.NewSource(r.Seed)))
}

// printRoster печатает по слотам, кто каким навыком работает, и недостачу.
func printRoster(w io.Writer, inst *roster.Instance, res opt.Result) error {
	ev, err := roster.NewEvaluator(inst)
	if err != nil {
		return err
	}
	dummy := inst.DummySkill()
	var b strings.Builder
	for s := 0; s < inst.Slots; s++ {
		fmt.Fprintf(&b, "slot %d:", s)
		for e := 0; e < inst.Employees; e++ {
			if k := res.Assignment[e][s]; k != dummy {
				fmt.Fprintf(&b, " e%d/k%d", e, k)
			}
		}
		fmt.Fprintf(&b, " | missed %d\n", ev.SlotMissed(res.Assignment, s))
	}
	fmt.Fprintf(&b, "total missed: %d (demand %d)\n", res.Objective, inst.TotalDemand())
	if stopped, ok := res.Meta["stopped"]; ok {
		fmt.Fprintf(&b, "stopped: %v\n", stopped)
	}
	_, err = io.WriteString(w, b.String())
	return err
}
