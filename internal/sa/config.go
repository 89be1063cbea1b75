package sa

import "fmt"

// Тип окрестности
type Neighborhood string

const (
	// NeighborhoodReassign меняет навык одной клетки (сотрудник, слот).
	NeighborhoodReassign Neighborhood = "reassign"
	// NeighborhoodSwap обменивает навыки двух сотрудников в одном слоте.
	NeighborhoodSwap Neighborhood = "swap"
)

type Config struct {
	Iterations        int
	IterationsPerCell int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:        0,
		IterationsPerCell: 200,

		InitialTemp: 5.0,
		FinalTemp:   0.01,
		Alpha:       0.9995,

		Neighborhood: NeighborhoodReassign,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerCell <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerCell > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodReassign, NeighborhoodSwap:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
