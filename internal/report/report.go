// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders group comparisons as tables, JSON, YAML and
// Prometheus textfiles.
package report

import (
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/google/uuid"
)

// Report is the outcome of comparing a benchmark run against a baseline.
type Report struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Baseline  string    `json:"baseline" yaml:"baseline"`
	Benchmark string    `json:"benchmark" yaml:"benchmark"`
	Rows      []Row     `json:"rows" yaml:"rows"`
}

// Row is the comparison of one benchmark and unit.
type Row struct {
	Name        string         `json:"name" yaml:"name"`
	Unit        string         `json:"unit" yaml:"unit"`
	N1          int            `json:"n1" yaml:"n1"`
	N2          int            `json:"n2" yaml:"n2"`
	KS          float64        `json:"ks" yaml:"ks"`
	Wasserstein float64        `json:"wasserstein" yaml:"wasserstein"`
	Scale       float64        `json:"scale" yaml:"scale"`
	Delta       float64        `json:"delta" yaml:"delta"`
	P           float64        `json:"p" yaml:"p"`
	Score       float64        `json:"score" yaml:"score"`
	Rank        benchstat.Rank `json:"rank" yaml:"rank"`

	// Standardized is set if Wasserstein and Scale are in standard
	// deviations of each sample rather than in Unit.
	Standardized bool `json:"standardized,omitempty" yaml:"standardized,omitempty"`

	// Err is set if the group could not be compared. The other
	// fields except Name and Unit are then zero.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// New builds a report from the comparisons of a Collection. baseline
// and benchmark label the two sides.
func New(baseline, benchmark string, cmps []benchstat.GroupComparison) *Report {
	r := &Report{
		ID:        uuid.New(),
		Baseline:  baseline,
		Benchmark: benchmark,
		Rows:      make([]Row, 0, len(cmps)),
	}
	for _, gc := range cmps {
		row := Row{Name: gc.Group.Name, Unit: gc.Group.Unit}
		if gc.Err != nil {
			row.Err = gc.Err.Error()
			r.Rows = append(r.Rows, row)
			continue
		}
		row.N1, row.N2 = gc.N1, gc.N2
		row.KS, row.Wasserstein = gc.KS, gc.Wasserstein
		row.Scale, row.Delta, row.P = gc.Scale, gc.Delta, gc.P
		row.Score, row.Rank = gc.Score, gc.Rank
		row.Standardized = gc.Standardized
		r.Rows = append(r.Rows, row)
	}
	return r
}

// Gate returns the compared rows whose rank is worse than worst.
func (r *Report) Gate(worst benchstat.Rank) []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Err == "" && row.Rank.Worse(worst) {
			out = append(out, row)
		}
	}
	return out
}

// Failed returns the rows that could not be compared.
func (r *Report) Failed() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Err != "" {
			out = append(out, row)
		}
	}
	return out
}
