package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/calc/cli"
	"github.com/ardnew/calc/log"
)

func main() {
	ctx := context.Background()

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)
	if err != nil {
		log.ErrorContext(ctx, "run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
