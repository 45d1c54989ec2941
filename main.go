// Package main implements the main entry point for a CHIP-8 interpreter
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/pipeline"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			cli.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Trace, opts.Quiet)
	cli.PrintBanner(logger, opts, version, commit, date)

	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts, os.Stdout); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// Handle context cancellation (Ctrl+C) gracefully
			logger.Info("Emulation cancelled")
		case errors.Is(err, runner.ErrBreakpoint):
			logger.Info("Emulation stopped", log.Err(err))
		default:
			logger.Error("Emulation failed", log.Err(err))
			os.Exit(1)
		}
	}
}
