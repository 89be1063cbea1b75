package lns

import (
	"fmt"
	"time"
)

type Config struct {
	// FixProbability — вероятность закрепить пару (сотрудник, слот) за рекордом.
	FixProbability float64
	// FailureLimit — бюджет неудач одного подпоиска RELAX.
	FailureLimit int
	// Iterations — число циклов RELAX (0 = только начальный поиск).
	Iterations int

	// InitFailureLimit — бюджет неудач начального поиска; 0 = до исчерпания.
	InitFailureLimit int
	InitTimeLimit    time.Duration // 0 = без ограничения

	// TimeLimit ограничивает весь запуск; 0 = без ограничения.
	TimeLimit time.Duration

	// FirstSolutionOnly — остановиться на первом найденном решении, без RELAX.
	FirstSolutionOnly bool

	// Hard — жёсткий спрос вместо мягкой недостачи.
	Hard bool
	// MaxSlotsPerEmployee — предел рабочих слотов сотрудника; 0 = без предела.
	MaxSlotsPerEmployee int
}

func DefaultConfig() Config {
	return Config{
		FixProbability: 0.8,
		FailureLimit:   1000,
		Iterations:     1000,

		InitFailureLimit: 1000,
		InitTimeLimit:    0,

		TimeLimit: 0,
	}
}

func (c Config) Validate() error {
	if c.FixProbability < 0 || c.FixProbability > 1 {
		return fmt.Errorf(
			"FixProbability должно лежать в [0,1] (получено %f)",
			c.FixProbability,
		)
	}
	if c.FailureLimit <= 0 {
		return fmt.Errorf(
			"FailureLimit должно быть > 0 (получено %d)",
			c.FailureLimit,
		)
	}
	if c.Iterations < 0 {
		return fmt.Errorf(
			"Iterations должно быть >= 0 (получено %d)",
			c.Iterations,
		)
	}
	if c.InitFailureLimit < 0 {
		return fmt.Errorf(
			"InitFailureLimit должно быть >= 0 (получено %d)",
			c.InitFailureLimit,
		)
	}
	if c.MaxSlotsPerEmployee < 0 {
		return fmt.Errorf(
			"MaxSlotsPerEmployee должно быть >= 0 (получено %d)",
			c.MaxSlotsPerEmployee,
		)
	}
	if c.InitTimeLimit < 0 || c.TimeLimit < 0 {
		return fmt.Errorf(
			"ограничения по времени должны быть >= 0 (получено %s, %s)",
			c.InitTimeLimit,
			c.TimeLimit,
		)
	}
	return nil
}
