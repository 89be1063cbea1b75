package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "roster",
		Short: "Составление расписания смен с мягким спросом по навыкам (LNS)",
		Long: `roster строит расписание, минимизируя суммарную недостачу спроса
по навыкам: начальный поиск с ветвями и границами, затем циклы LNS вокруг рекорда.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd(), newGenerateCmd(), newBenchCmd())
	return root
}
