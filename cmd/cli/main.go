package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/projectcostai/projectcostai/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "costai: %v\n", err)
		os.Exit(1)
	}
}
