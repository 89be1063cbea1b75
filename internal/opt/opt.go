package opt

import (
	"context"
	"time"

	"rostering/internal/roster"
)

// Optimizer описывает общий контракт решателей, используемый в бенчмарке.
type Optimizer interface {
	Solve(ctx context.Context, inst *roster.Instance) (Result, error)
}

type Result struct {
	Assignment  roster.Assignment
	Objective   int // суммарная недостача для Assignment
	Evaluations int
	Iterations  int
	Failures    int
	Nodes       int
	Duration    time.Duration
	Meta        map[string]any
}
