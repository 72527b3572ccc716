// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchunit"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "describe [flags] file...",
		Short: "Print the percentile grid of every benchmark",
		Long: `Describe builds the distribution of every benchmark and unit in the
input files, using the configured trimming and standardization, and
prints its size, median and percentile grid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.describe(group, args)
		},
	}
	cmd.Flags().StringVar(&group, "group", ".fullname", "group results by `key`")
	return cmd
}

type sample struct {
	name, unit string
	values     []float64
}

func (a *app) describe(group string, paths []string) error {
	engine, err := a.cfg.Engine()
	if err != nil {
		return err
	}
	cmp, err := benchstat.NewComparer(engine)
	if err != nil {
		return err
	}
	groupBy, err := benchfmt.NewExtractor(group)
	if err != nil {
		return fmt.Errorf("--group: %w", err)
	}

	var samples []*sample
	index := make(map[[2]string]*sample)
	err = a.readFiles(paths, func(res *benchfmt.Result) {
		benchunit.Tidy(res)
		name := groupBy(res)
		for _, val := range res.Values {
			key := [2]string{name, val.Unit}
			s := index[key]
			if s == nil {
				s = &sample{name: name, unit: val.Unit}
				index[key] = s
				samples = append(samples, s)
			}
			s.values = append(s.values, val.Value)
		}
	})
	if err != nil {
		return err
	}

	grid := engine.Distribution.Grid
	if grid == nil {
		grid = benchstat.DefaultGrid()
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	hdr := []string{"benchmark", "unit", "n", "center"}
	for _, q := range grid {
		hdr = append(hdr, "p"+strconv.FormatFloat(q*100, 'g', 4, 64))
	}
	fmt.Fprintln(tw, strings.Join(hdr, "\t"))
	for _, s := range samples {
		dist, err := cmp.Distribution(s.values)
		if err != nil {
			a.log.Warn("skipping benchmark", "benchmark", s.name, "unit", s.unit, "err", err)
			continue
		}
		sc := benchunit.CommonScale(dist.Percentiles, benchunit.UnitClassOf(s.unit))
		cols := []string{s.name, sc.Prefix + s.unit, strconv.Itoa(dist.N()), number(sc, dist.Center)}
		for _, v := range dist.Percentiles {
			cols = append(cols, number(sc, v))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

// number formats v in scale sc without the prefix.
func number(sc benchunit.Scaler, v float64) string {
	return strconv.FormatFloat(v/sc.Factor, 'f', sc.Prec, 64)
}
