package main

import (
	"math/rand"

	"github.com/spf13/cobra"

	"rostering/internal/roster"
)

type generateOptions struct {
	slots     int
	employees int
	skills    int
	skillProb float64
	maxDemand int
	seed      int64
	out       string
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Сгенерировать случайный экземпляр в текстовом формате",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst, err := roster.RandomInstance(o.slots, o.employees, o.skills, o.skillProb, o.maxDemand,
				rand.New(rand.NewSource(o.seed)))
			if err != nil {
				return err
			}
			if o.out == "" {
				return roster.Write(cmd.OutOrStdout(), inst)
			}
			return roster.WriteFile(o.out, inst)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.slots, "slots", 30, "количество слотов")
	f.IntVar(&o.employees, "employees", 20, "количество сотрудников")
	f.IntVar(&o.skills, "skills", 10, "количество навыков")
	f.Float64Var(&o.skillProb, "skill-prob", 0.3, "вероятность, что сотрудник владеет навыком")
	f.IntVar(&o.maxDemand, "max-demand", 5, "максимальный спрос по навыку в слоте")
	f.Int64Var(&o.seed, "seed", 777, "сид генератора")
	f.StringVarP(&o.out, "out", "o", "", "файл для записи (по умолчанию stdout)")
	return cmd
}
