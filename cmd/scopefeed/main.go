// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package main is scopefeed, a signal generator for Scopeplot.
//
// It posts {"x": n, "y": random} to an ingestion endpoint at a fixed rate:
//
//	scopefeed --url http://localhost:8080/data --interval 200ms
//	scopefeed --count 500 --amplitude 10 --start-x 1000
//
// SIGINT or SIGTERM stops it cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/scopeplot/internal/feeder"
	"github.com/tomtom215/scopeplot/internal/logging"
)

// Set by the linker at release time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "scopefeed:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := feeder.DefaultConfig()
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:           "scopefeed",
		Short:         "Send a random test signal to a Scopeplot server.",
		Long:          `scopefeed posts points with increasing x and uniform random y to a Scopeplot ingestion endpoint until stopped.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !logging.ValidLevel(logLevel) {
				return fmt.Errorf("invalid --log-level %q", logLevel)
			}
			logCfg := logging.DefaultConfig()
			logCfg.Level = logLevel
			logCfg.Format = logFormat
			logging.Init(logCfg)

			f, err := feeder.New(cfg, nil)
			if err != nil {
				return err
			}
			if err := f.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.URL, "url", cfg.URL, "ingestion endpoint URL")
	flags.DurationVar(&cfg.Interval, "interval", cfg.Interval, "delay between points")
	flags.IntVar(&cfg.Count, "count", 0, "number of points to send (0 = until interrupted)")
	flags.Float64Var(&cfg.Amplitude, "amplitude", cfg.Amplitude, "y is uniform in [-amplitude, amplitude]")
	flags.Float64Var(&cfg.StartX, "start-x", 0, "first x value")
	flags.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	flags.Uint32Var(&cfg.BreakerThreshold, "breaker-failures", cfg.BreakerThreshold, "consecutive failures that open the circuit breaker")
	flags.DurationVar(&cfg.BreakerTimeout, "breaker-timeout", cfg.BreakerTimeout, "how long the breaker stays open before retrying")
	flags.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "console", "log format (json or console)")

	return cmd
}
