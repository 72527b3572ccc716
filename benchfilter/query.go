// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfilter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// A Query is a node of a parsed filter query: either a *KeyMatch or
// a *BoolOp.
type Query interface {
	String() string
	isQuery()
}

// A KeyMatch tests one key of a result against a pattern.
type KeyMatch struct {
	Key     string
	Pattern string
	Off     int // byte offset of Key in the query

	re *regexp.Regexp
}

func (*KeyMatch) isQuery() {}

// Matches reports whether value matches the whole of m's pattern.
func (m *KeyMatch) Matches(value string) bool {
	return m.re.MatchString(value)
}

func (m *KeyMatch) String() string {
	return quote(m.Key) + ":" + quote(m.Pattern)
}

// Op is a boolean operator.
type Op int

const (
	OpAnd Op = 1 + iota
	OpOr
	OpNot
)

// A BoolOp combines sub-queries. An OpNot has exactly one operand.
// An OpAnd with no operands matches everything and an OpOr with no
// operands matches nothing.
type BoolOp struct {
	Op    Op
	Exprs []Query
}

func (*BoolOp) isQuery() {}

func (q *BoolOp) String() string {
	switch {
	case q.Op == OpNot:
		return "-" + q.Exprs[0].String()
	case q.Op == OpAnd && len(q.Exprs) == 0:
		return "*"
	}
	sep := " AND "
	if q.Op == OpOr {
		sep = " OR "
	}
	parts := make([]string, len(q.Exprs))
	for i, e := range q.Exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func quote(s string) string {
	if s == "" || s == "AND" || s == "OR" || s[0] == '-' || s[0] == '*' {
		return strconv.Quote(s)
	}
	for _, r := range s {
		if unicode.IsSpace(r) || isOp(r) || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
