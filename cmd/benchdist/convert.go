// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchunit"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var tidy bool
	cmd := &cobra.Command{
		Use:   "convert [flags] file...",
		Short: "Rewrite inputs in the Go benchmark format",
		Long: `Convert reads latency exports and Go benchmark files and writes every
result to stdout in the Go benchmark format. The run ID of a latency
export becomes the "run" file configuration key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := benchfmt.NewWriter(a.stdout)
			var werr error
			err := a.readFiles(args, func(res *benchfmt.Result) {
				if werr != nil {
					return
				}
				if tidy {
					benchunit.Tidy(res)
				}
				werr = w.Write(res)
			})
			if werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&tidy, "tidy", false, "normalize units to seconds and bytes")
	return cmd
}
