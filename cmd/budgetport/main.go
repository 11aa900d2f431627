package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/budgetport/budgetport/internal/commands"
	"github.com/budgetport/budgetport/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		output.New(os.Stderr).Error(err.Error())
		stop()
		os.Exit(1)
	}
}
