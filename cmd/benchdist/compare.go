// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfilter"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchunit"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/internal/report"
	"github.com/spf13/cobra"
)

type compareFlags struct {
	group        string
	sideKey      string
	baselineRun  string
	benchmarkRun string
	format       string
	textfile     string
	gate         string
	workers      int
}

func newCompareCmd(a *app) *cobra.Command {
	var f compareFlags
	cmd := &cobra.Command{
		Use:   "compare [flags] baseline-file [benchmark-file]",
		Short: "Compare a benchmark run against a baseline",
		Long: `Compare reads benchmark results and compares, for every benchmark and
unit, the distribution of the benchmark run against the baseline.

With two files, the first is the baseline and the second the benchmark
run. With one file, --baseline-run and --benchmark-run select the two
runs by the value of the --side-key file configuration key.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("gate") {
				a.cfg.Gate = f.gate
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = f.workers
			}
			return a.compare(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.group, "group", ".fullname", "group results by `key`")
	fl.StringVar(&f.sideKey, "side-key", benchfmt.RunKey, "file configuration `key` that selects the side of a result in a single file")
	fl.StringVar(&f.baselineRun, "baseline-run", "", "side-key `value` of the baseline")
	fl.StringVar(&f.benchmarkRun, "benchmark-run", "", "side-key `value` of the benchmark run")
	fl.StringVar(&f.format, "format", "text", "output `format`: text, json or yaml")
	fl.StringVar(&f.textfile, "textfile", "", "also write Prometheus metrics to `file`")
	fl.StringVar(&f.gate, "gate", "", "fail if any benchmark ranks worse than `rank`")
	fl.IntVar(&f.workers, "workers", 0, "compare at most `n` groups at once (0 means one per CPU)")
	return cmd
}

func (a *app) compare(cmd *cobra.Command, f compareFlags, args []string) error {
	switch f.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	gate, gated, err := a.cfg.GateRank()
	if err != nil {
		return err
	}
	engine, err := a.cfg.Engine()
	if err != nil {
		return err
	}
	cmp, err := benchstat.NewComparer(engine)
	if err != nil {
		return err
	}

	sideKey, baseline, benchmark := f.sideKey, f.baselineRun, f.benchmarkRun
	if len(args) == 2 {
		sideKey, baseline, benchmark = benchfmt.FileKey, args[0], args[1]
	} else if baseline == "" || benchmark == "" {
		return errors.New("with one input file, --baseline-run and --benchmark-run are required")
	}
	groupBy, err := benchfmt.NewExtractor(f.group)
	if err != nil {
		return fmt.Errorf("--group: %w", err)
	}
	sideBy, err := benchfmt.NewExtractor(sideKey)
	if err != nil {
		return fmt.Errorf("--side-key: %w", err)
	}
	coll, err := benchstat.NewCollection(groupBy, sideBy, baseline, benchmark)
	if err != nil {
		return err
	}

	err = a.readFiles(args, func(res *benchfmt.Result) {
		benchunit.Tidy(res)
		coll.Add(res)
	})
	if err != nil {
		return err
	}
	if n := coll.Skipped(); n > 0 {
		a.log.Debug("results matched neither side", "key", sideKey, "count", n)
	}
	if len(coll.Groups()) == 0 {
		return errors.New("no benchmark results")
	}

	limit := a.cfg.Workers
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	cmps, err := coll.Compare(cmd.Context(), cmp, limit)
	if err != nil {
		return err
	}
	rep := report.New(baseline, benchmark, cmps)
	a.log.Debug("compared", "report", rep.ID, "groups", len(rep.Rows))
	for _, row := range rep.Failed() {
		a.log.Warn("benchmark not compared", "benchmark", row.Name, "unit", row.Unit, "err", row.Err)
	}

	switch f.format {
	case "text":
		err = rep.WriteText(a.stdout, report.IsTerminal(a.stdout))
	case "json":
		err = rep.WriteJSON(a.stdout)
	case "yaml":
		err = rep.WriteYAML(a.stdout)
	}
	if err != nil {
		return err
	}
	if f.textfile != "" {
		if err := rep.WriteTextfile(f.textfile); err != nil {
			return err
		}
		a.log.Debug("metrics written", "path", f.textfile)
	}

	if !gated {
		return nil
	}
	bad := rep.Gate(gate)
	for _, row := range bad {
		a.log.Error("benchmark below gate", "benchmark", row.Name, "unit", row.Unit,
			"score", row.Score, "rank", row.Rank, "gate", gate)
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %d of %d benchmarks rank worse than %v", errGate, len(bad), len(rep.Rows), gate)
	}
	return nil
}

// readFiles reads every result in paths that matches the --filter
// query and passes it to fn. Malformed lines are logged and skipped.
func (a *app) readFiles(paths []string, fn func(*benchfmt.Result)) error {
	var filter *benchfilter.Filter
	if a.query != "" {
		var err error
		if filter, err = benchfilter.New(a.query); err != nil {
			return fmt.Errorf("--filter: %w", err)
		}
		a.log.Debug("filtering results", "query", filter.String())
	}

	files := benchfmt.Files{Paths: paths, AllowStdin: true}
	for files.Scan() {
		res, err := files.Result()
		if err != nil {
			a.log.Warn("skipping result", "err", err)
			continue
		}
		if filter != nil && !filter.Apply(res) {
			continue
		}
		fn(res)
	}
	return files.Err()
}
