// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes r as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return enc.Close()
}

// WriteTextfile atomically writes the compared rows of r to path in
// the Prometheus text format, for collection by node_exporter's
// textfile collector.
func (r *Report) WriteTextfile(path string) error {
	labels := []string{"benchmark", "unit"}
	ks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "benchdist_ks_distance",
		Help: "Kolmogorov-Smirnov distance between baseline and benchmark.",
	}, labels)
	ws := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "benchdist_wasserstein_distance",
		Help: "Wasserstein distance between baseline and benchmark, in the benchmark unit, or in standard deviations if standardized.",
	}, labels)
	score := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "benchdist_score",
		Help: "Similarity score from 0 to 100.",
	}, labels)
	rank := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "benchdist_rank",
		Help: "Rank of the score, 0 (A) to 5 (F).",
	}, labels)

	reg := prometheus.NewRegistry()
	reg.MustRegister(ks, ws, score, rank)
	for _, row := range r.Rows {
		if row.Err != "" {
			continue
		}
		ks.WithLabelValues(row.Name, row.Unit).Set(row.KS)
		ws.WithLabelValues(row.Name, row.Unit).Set(row.Wasserstein)
		score.WithLabelValues(row.Name, row.Unit).Set(row.Score)
		rank.WithLabelValues(row.Name, row.Unit).Set(float64(row.Rank))
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write textfile: %w", err)
	}
	return nil
}
