// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
)

func readResults(t *testing.T, input string) []*benchfmt.Result {
	t.Helper()
	rd := benchfmt.NewReader(strings.NewReader(input), "test")
	var out []*benchfmt.Result
	for rd.Scan() {
		res, err := rd.Result()
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, res.Clone())
	}
	if err := rd.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func newTestCollection(t *testing.T, input string) *Collection {
	t.Helper()
	groupBy, err := benchfmt.NewExtractor(".fullname")
	if err != nil {
		t.Fatal(err)
	}
	sideBy, err := benchfmt.NewExtractor(benchfmt.RunKey)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCollection(groupBy, sideBy, "old", "new")
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range readResults(t, input) {
		c.Add(res)
	}
	return c
}

const collectionInput = `run: old
BenchmarkLogin 1 100 ms 2 B/op
BenchmarkLogin 1 101 ms 2 B/op
BenchmarkSearch 1 50 ms
run: other
BenchmarkLogin 1 999 ms
run: new
BenchmarkLogin 1 100 ms 4 B/op
BenchmarkLogin 1 102 ms 4 B/op
BenchmarkCheckout 1 70 ms
`

func TestCollectionGroups(t *testing.T) {
	c := newTestCollection(t, collectionInput)
	var got []string
	for _, g := range c.Groups() {
		got = append(got, fmt.Sprintf("%s %s %v %v", g.Name, g.Unit, g.Baseline, g.Benchmark))
	}
	want := []string{
		"Login ms [100 101] [100 102]",
		"Login B/op [2 2] [4 4]",
		"Search ms [50] []",
		"Checkout ms [] [70]",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got groups:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if c.Skipped() != 1 {
		t.Errorf("got %d skipped, want 1", c.Skipped())
	}
}

func TestCollectionCompare(t *testing.T) {
	c := newTestCollection(t, collectionInput)
	cmp := mustComparer(t, DefaultConfig())
	for _, limit := range []int{0, 1, 3} {
		res, err := c.Compare(context.Background(), cmp, limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(res) != 4 {
			t.Fatalf("limit %d: got %d comparisons, want 4", limit, len(res))
		}
		for i, gc := range res {
			if gc.Group != c.Groups()[i] {
				t.Errorf("limit %d: comparison %d is for group %s, want %s", limit, i, gc.Group.Name, c.Groups()[i].Name)
			}
		}
		if res[0].Err != nil || res[0].KS != 0.5 || res[0].N1 != 2 {
			t.Errorf("limit %d: Login ms: got %+v", limit, res[0])
		}
		if res[1].Err != nil || res[1].KS != 1 || res[1].Rank != RankF {
			t.Errorf("limit %d: Login B/op: got %+v", limit, res[1])
		}
		for _, i := range []int{2, 3} {
			if !errors.Is(res[i].Err, ErrMissingSide) {
				t.Errorf("limit %d: %s: got error %v, want missing side", limit, res[i].Group.Name, res[i].Err)
			}
		}
	}
}

func TestCollectionCompareCanceled(t *testing.T) {
	c := newTestCollection(t, collectionInput)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Compare(ctx, mustComparer(t, DefaultConfig()), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNewCollectionSameSides(t *testing.T) {
	ext, _ := benchfmt.NewExtractor(".name")
	if _, err := NewCollection(ext, ext, "a", "a"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want configuration error", err)
	}
}
