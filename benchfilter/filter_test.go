// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfilter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
)

func TestFilter(t *testing.T) {
	res := (&benchfmt.Result{
		FileConfig: []benchfmt.Config{{Key: "f1", Value: "v1"}, {Key: "f2", Value: "v2"}},
		FullName:   []byte("Name/n1=v3"),
		Values: []benchfmt.Value{
			{Value: 100, Unit: "ns/op"},
			{Value: 100, Unit: "B/op"},
		},
	}).Clone()

	// check applies query to a copy of res and compares the units
	// that remain with want.
	check := func(t *testing.T, query string, want string) {
		t.Helper()
		f, err := New(query)
		if err != nil {
			t.Fatal(err)
		}
		r := res.Clone()
		ok := f.Apply(r)
		var units []string
		for _, v := range r.Values {
			units = append(units, v.Unit)
		}
		if got := strings.Join(units, " "); got != want {
			t.Errorf("%s: got units %q, want %q", query, got, want)
		}
		if ok != (want != "") {
			t.Errorf("%s: Apply returned %v", query, ok)
		}
	}
	const all = "ns/op B/op"

	t.Run("basic", func(t *testing.T) {
		// File keys
		check(t, "f1:v1", all)
		check(t, "f1:v2", "")
		check(t, `f3:""`, all)
		// Name keys
		check(t, "/n1:v3", all)
		// Special keys
		check(t, ".name:Name", all)
		check(t, ".fullname:Name/n1=v3", all)
		// Patterns match the whole value.
		check(t, ".name:Na", "")
		check(t, ".name:Na.*", all)
		check(t, "f1:v[0-9]", all)
	})

	t.Run("units", func(t *testing.T) {
		check(t, ".unit:ns/op", "ns/op")
		check(t, ".unit:B/op", "B/op")
		check(t, ".unit:foo", "")
		check(t, "-.unit:ns/op", "B/op")
	})

	t.Run("boolean", func(t *testing.T) {
		check(t, "*", all)
		check(t, "-*", "")
		check(t, "f1:v1 OR f1:v2", all)
		check(t, "f1:v1 AND f1:v2", "")
		check(t, "f1:v1 f1:v2", "")
		check(t, "f1:v1 f2:v2", all)
		check(t, "-f1:v1", "")
		check(t, "--f1:v1", all)
		check(t, ".unit:(ns/op B/op)", all)
		check(t, "f1:v2 OR .unit:B/op", "B/op")
	})

	t.Run("manyUnits", func(t *testing.T) {
		r := res.Clone()
		r.Values = make([]benchfmt.Value, 100)
		for i := range r.Values {
			r.Values[i] = benchfmt.Value{Value: float64(i), Unit: fmt.Sprintf("u%d", i)}
		}
		f, err := New("f1:v1 AND --(f1:v2 OR .unit:(u0 u99))")
		if err != nil {
			t.Fatal(err)
		}
		if !f.Apply(r) {
			t.Fatal("no values matched")
		}
		if len(r.Values) != 2 || r.Values[0].Unit != "u0" || r.Values[1].Value != 99 {
			t.Errorf("got %v, want u0 and u99", r.Values)
		}
	})
}

func TestFilterBadKey(t *testing.T) {
	_, err := New(`a:b "":c`)
	se, ok := err.(*SyntaxError)
	if !ok || se.Off != 4 {
		t.Errorf("got %v, want syntax error at 4", err)
	}
}
