// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"errors"
	"strings"
	"testing"
)

func parseAllCSV(t *testing.T, data string) ([]*Result, error) {
	t.Helper()
	rd := NewCSVReader(strings.NewReader(data), "test.csv")
	var out []*Result
	for rd.Scan() {
		res, err := rd.Result()
		if err == nil {
			out = append(out, res.Clone())
		} else {
			out = append(out, errResult(err.Error()))
		}
	}
	return out, rd.Err()
}

func TestCSVReader(t *testing.T) {
	test := func(t *testing.T, input string, want ...*Result) {
		t.Helper()
		got, err := parseAllCSV(t, input)
		if err != nil {
			t.Fatal("parsing failed: ", err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d results, want %d", len(got), len(want))
		}
		for i := range got {
			if g, w := string(got[i].FullName), string(want[i].FullName); g != w {
				t.Errorf("[%d] got name %q, want %q", i, g, w)
			}
			if g, w := got[i].GetFileConfig(RunKey), want[i].GetFileConfig(RunKey); g != w {
				t.Errorf("[%d] got run %q, want %q", i, g, w)
			}
			if len(want[i].Values) == 0 {
				continue
			}
			if len(got[i].Values) != 1 || got[i].Values[0] != want[i].Values[0] {
				t.Errorf("[%d] got values %v, want %v", i, got[i].Values, want[i].Values)
			}
		}
	}
	row := func(action, run string, v float64) *Result {
		return r([]Config{{RunKey, run}}, action, 1, []Value{{v, CSVUnit}})
	}

	t.Run("comma decimals", func(t *testing.T) {
		test(t, `response_time;runid;timestamp;action
12,5;run-1;1613570400;login
7;run-1;1613570401;logout
0,25;run-2;1613570402;login
`,
			row("login", "run-1", 12.5),
			row("logout", "run-1", 7),
			row("login", "run-2", 0.25))
	})
	t.Run("reordered header", func(t *testing.T) {
		test(t, `Action; RunID ;Response_Time
search;r1;3.75
`,
			row("search", "r1", 3.75))
	})
	t.Run("no run column", func(t *testing.T) {
		test(t, "response_time;action\n1;a\n",
			r(nil, "a", 1, []Value{{1, CSVUnit}}))
	})
	t.Run("bad rows", func(t *testing.T) {
		test(t, `response_time;runid;timestamp;action
abc;r;0;login
;r;0;login
5;r;0;
5;r;0;ok
`,
			errResult("test.csv:2: parsing response_time: invalid syntax"),
			errResult("test.csv:3: missing response_time"),
			errResult("test.csv:4: missing action"),
			row("ok", "r", 5))
	})
}

func TestCSVReaderHeader(t *testing.T) {
	for _, input := range []string{
		"runid;timestamp;action\nr;0;a\n",
		"response_time;runid\n1;r\n",
	} {
		_, err := parseAllCSV(t, input)
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%q: got error %v, want *SyntaxError", input, err)
		} else if serr.Line != 1 {
			t.Errorf("%q: got error on line %d, want 1", input, serr.Line)
		}
	}
}
