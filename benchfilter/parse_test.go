// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfilter

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	check := func(query string, want string) {
		t.Helper()
		q, err := Parse(query)
		if err != nil {
			t.Errorf("%s: unexpected error %s", query, err)
		} else if got := q.String(); got != want {
			t.Errorf("%s: got %s, want %s", query, got, want)
		}
	}
	checkErr := func(query, msg string, off int) {
		t.Helper()
		_, err := Parse(query)
		se, _ := err.(*SyntaxError)
		if se == nil || !strings.HasPrefix(se.Msg, msg) || se.Off != off {
			t.Errorf("%s: want error %q at %d; got %v", query, msg, off, err)
		}
	}
	check(`*`, `*`)
	check(`a:b`, `a:b`)
	check(`a:foo-bar*`, `a:foo-bar*`)
	checkErr(`a`, "expected key:value", 0)
	checkErr(`a :`, "expected value", 3)
	checkErr(`a:`, "expected value", 2)
	checkErr(``, "nothing to match", 0)
	checkErr(`()`, "nothing to match", 1)
	checkErr(`AND`, "nothing to match", 0)
	checkErr(`:a`, `unexpected ":"`, 0)
	checkErr(`a:b:c`, `unexpected ":"`, 3)
	check(`"a":"b c"`, `a:"b c"`)
	check(`a:"x\"y"`, `a:"x\"y"`)
	check(`a:"-b"`, `a:"-b"`)
	checkErr(`a "b`, "missing end quote", 2)
	checkErr(`a:[`, "bad pattern", 2)
	check(`(a:b)`, `a:b`)
	checkErr(`(a:b`, `missing ")"`, 4)
	checkErr(`(a:b))`, `unexpected ")"`, 5)
	check(`a:b c:d e:f`, `(a:b AND c:d AND e:f)`)
	check(`-a:b`, `-a:b`)
	check(`-*`, `-*`)
	checkErr(`-`, "expected key:value", 1)
	check(`a:b AND c:d`, `(a:b AND c:d)`)
	check(`-a:b AND c:d`, `(-a:b AND c:d)`)
	check(`-(a:b AND c:d)`, `-(a:b AND c:d)`)
	check(`a:b AND * AND c:d`, `(a:b AND * AND c:d)`)
	check(`a:b OR c:d`, `(a:b OR c:d)`)
	check(`a:b AND c:d OR e:f AND g:h`, `((a:b AND c:d) OR (e:f AND g:h))`)
	check(`a:b AND (c:d OR e:f) AND g:h`, `(a:b AND (c:d OR e:f) AND g:h)`)
	check(`a:(b c d)`, `(a:b OR a:c OR a:d)`)
	checkErr(`a:(b AND c)`, "expected value", 5)
	checkErr(`a:()`, "nothing to match", 3)
}

func TestSyntaxErrorCaret(t *testing.T) {
	_, err := Parse(`.name:Lögin (x:y`)
	if err == nil {
		t.Fatal("want error")
	}
	want := "syntax error: missing \")\"\n\t.name:Lögin (x:y\n\t                ^"
	if err.Error() != want {
		t.Errorf("got:\n%s\nwant:\n%s", err, want)
	}
}
