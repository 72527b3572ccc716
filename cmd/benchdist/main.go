// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command benchdist compares the distributions of benchmark
// measurements between a baseline and a benchmark run.
//
// For every benchmark and unit it computes the Kolmogorov-Smirnov and
// Wasserstein distances between the two samples, combines them into a
// similarity score from 0 to 100, and grades the score from A (the
// samples are alike) to F. It reads the Go benchmark format and
// semicolon-separated latency exports (files ending in ".csv").
//
// Usage:
//
//	benchdist compare [flags] old.txt new.txt
//	benchdist compare [flags] --baseline-run r1 --benchmark-run r2 export.csv
//	benchdist describe [flags] file...
//	benchdist convert [flags] file...
//	benchdist version
//
// Settings are read from a YAML file given by --config or
// $BENCHDIST_CONFIG, then from BENCHDIST_ environment variables such
// as BENCHDIST_KS_WEIGHT or BENCHDIST_RANKS_A.
//
// The exit status is 1 if a gate is set and a benchmark ranks worse
// than it, and 2 on any other error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/internal/config"
	"github.com/spf13/cobra"
)

// errGate is returned when a benchmark ranks worse than the gate.
var errGate = errors.New("gate failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "benchdist: %v\n", err)
	if errors.Is(err, errGate) {
		return 1
	}
	return 2
}

// app holds state shared by all subcommands.
type app struct {
	stdout, stderr io.Writer

	configPath string
	verbose    bool
	query      string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "benchdist",
		Short:         "Compare benchmark distributions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "read settings from YAML `file`")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")
	root.PersistentFlags().StringVar(&a.query, "filter", "", "keep only results matching `query`, such as '.name:Login .unit:ms'")

	root.AddCommand(
		newCompareCmd(a),
		newDescribeCmd(a),
		newConvertCmd(a),
		newVersionCmd(a),
	)
	return root
}

// init loads the configuration and sets up logging.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.log.Debug("configuration loaded", "path", a.configPath, "ks_method", cfg.KSMethod,
		"ks_weight", cfg.KSWeight, "wasserstein_weight", cfg.WassersteinWeight)
	return nil
}
