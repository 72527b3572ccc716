// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfilter selects benchmark results and measurements with
// a boolean key:value query.
//
// A query is a sequence of key:pattern matches combined with AND, OR,
// "-" (not) and parentheses. Adjacent matches are ANDed and "*"
// matches everything. A pattern is a regular expression that must
// match the whole value, so a literal string matches exactly.
// key:(x y) matches if the key matches any of x or y.
//
// Keys are those accepted by benchfmt.NewExtractor, plus ".unit",
// which selects individual measurements by unit. For example,
//
//	.name:Login run:(r1 r2) .unit:ms
//
// keeps the "ms" measurements of the Login benchmark in runs r1 and
// r2.
package benchfilter

import (
	"fmt"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchfmt"
)

// UnitKey is the query key that matches measurement units.
const UnitKey = ".unit"

// A Filter keeps the benchmark measurements that match a query.
type Filter struct {
	query      Query
	extractors map[string]benchfmt.Extractor
}

// New parses query and returns a Filter for it.
func New(query string) (*Filter, error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	f := &Filter{query: q, extractors: make(map[string]benchfmt.Extractor)}
	if err := f.bind(query, q); err != nil {
		return nil, err
	}
	return f, nil
}

// bind creates an extractor for every key in q.
func (f *Filter) bind(src string, q Query) error {
	switch q := q.(type) {
	case *BoolOp:
		for _, sub := range q.Exprs {
			if err := f.bind(src, sub); err != nil {
				return err
			}
		}
	case *KeyMatch:
		if q.Key == UnitKey || f.extractors[q.Key] != nil {
			return nil
		}
		ext, err := benchfmt.NewExtractor(q.Key)
		if err != nil {
			return &SyntaxError{src, q.Off, fmt.Sprintf("key %q: %v", q.Key, err)}
		}
		f.extractors[q.Key] = ext
	}
	return nil
}

// String returns the normalized form of f's query.
func (f *Filter) String() string {
	return f.query.String()
}

// Apply removes the values of res that do not match f and reports
// whether any values remain.
func (f *Filter) Apply(res *benchfmt.Result) bool {
	keys := make(map[string]string, len(f.extractors))
	for key, ext := range f.extractors {
		keys[key] = ext(res)
	}
	j := 0
	for _, val := range res.Values {
		if eval(f.query, keys, val.Unit) {
			res.Values[j] = val
			j++
		}
	}
	res.Values = res.Values[:j]
	return j > 0
}

func eval(q Query, keys map[string]string, unit string) bool {
	switch q := q.(type) {
	case *KeyMatch:
		if q.Key == UnitKey {
			return q.Matches(unit)
		}
		return q.Matches(keys[q.Key])
	case *BoolOp:
		switch q.Op {
		case OpNot:
			return !eval(q.Exprs[0], keys, unit)
		case OpAnd:
			for _, sub := range q.Exprs {
				if !eval(sub, keys, unit) {
					return false
				}
			}
			return true
		case OpOr:
			for _, sub := range q.Exprs {
				if eval(sub, keys, unit) {
					return true
				}
			}
			return false
		}
	}
	panic(fmt.Sprintf("unknown query node %T", q))
}
