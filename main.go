package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/plume/cli"
	"github.com/ardnew/plume/cli/cmd"
	"github.com/ardnew/plume/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)

	switch {
	case err == nil:
	case errors.Is(err, cmd.ErrReported):
		// The diagnostic was already printed.
		os.Exit(1)
	default:
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
