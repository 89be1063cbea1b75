package ts

import "fmt"

// Neighborhood определяет тип окрестности.
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

	TabuTenure int

	TabuTenureRand int

	NeighborsPerIter int

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:        0,
		IterationsPerCell: 5,

		TabuTenure:     10,
		TabuTenureRand: 5,

		NeighborsPerIter: 60,
		Neighborhood:     NeighborhoodReassign,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerCell <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerCell > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
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
