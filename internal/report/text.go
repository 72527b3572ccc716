// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchunit"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorGood = lipgloss.Color("#2CD7C7")
	colorWarn = lipgloss.Color("#F4D03F")
	colorBad  = lipgloss.Color("#E74C3C")

	rankStyles = [...]lipgloss.Style{
		benchstat.RankA: lipgloss.NewStyle().Bold(true).Foreground(colorGood),
		benchstat.RankB: lipgloss.NewStyle().Foreground(colorGood),
		benchstat.RankC: lipgloss.NewStyle().Foreground(colorWarn),
		benchstat.RankD: lipgloss.NewStyle().Foreground(colorWarn),
		benchstat.RankE: lipgloss.NewStyle().Foreground(colorBad),
		benchstat.RankF: lipgloss.NewStyle().Bold(true).Foreground(colorBad),
	}
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var header = []string{"benchmark", "unit", "n", "ks", "p", "wasserstein", "delta", "score", "rank"}

// WriteText writes r as an aligned table followed by the groups that
// could not be compared. If color is set, ranks are colored.
func (r *Report) WriteText(w io.Writer, color bool) error {
	fmt.Fprintf(w, "baseline: %s\nbenchmark: %s\n\n", r.Baseline, r.Benchmark)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Repeat("---\t", len(header)-1)+"---")
	for _, row := range r.Rows {
		if row.Err != "" {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\t-\t-\t-\n", row.Name, row.Unit)
			continue
		}
		rank := row.Rank.String()
		if color {
			rank = rankStyles[row.Rank].Render(rank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.3f\t%s\t%s\t%s\t%.1f\t%s\n",
			row.Name, row.Unit, row.N1, row.N2, row.KS, formatP(row.P),
			distance(row),
			signed(row.Delta, row.Unit),
			row.Score, rank)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failed := r.Failed()
	if len(failed) > 0 {
		fmt.Fprintln(w)
		for _, row := range failed {
			fmt.Fprintf(w, "%s: %s\n", row.Name, row.Err)
		}
	}
	return nil
}

func formatP(p float64) string {
	if p < 0.001 {
		return "<0.001"
	}
	return strconv.FormatFloat(p, 'f', 3, 64)
}

func distance(row Row) string {
	if row.Standardized {
		return strconv.FormatFloat(row.Wasserstein, 'f', 3, 64) + "sd"
	}
	return benchunit.ScaleUnit(row.Wasserstein, row.Unit)
}

func signed(delta float64, unit string) string {
	switch {
	case delta > 0:
		return "+" + benchunit.ScaleUnit(delta, unit)
	case delta < 0:
		return "-" + benchunit.ScaleUnit(-delta, unit)
	}
	return "~"
}
