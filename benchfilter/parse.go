// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfilter

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Parse parses a query string. The grammar is:
//
//	expr   = and {"OR" and} .
//	and    = phrase {"AND" phrase} .
//	phrase = match {match} .
//	match  = "(" expr ")"
//	       | "-" match
//	       | "*"
//	       | word ":" (word | "(" {word} ")") .
//	word   = [^ ():]+ | quoted string .
//
// The value of a key:value match is a regular expression that must
// match the whole value.
func Parse(query string) (Query, error) {
	toks, err := lex(query)
	if err != nil {
		return nil, err
	}
	p := &parser{query: query, toks: toks}
	q, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return q, nil
}

// A SyntaxError reports a malformed query.
type SyntaxError struct {
	Query string
	Off   int // byte offset of the error in Query
	Msg   string
}

func (e *SyntaxError) Error() string {
	col := utf8.RuneCountInString(e.Query[:e.Off])
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, col, "")
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokWord
	tokLParen
	tokRParen
	tokColon
	tokNot
	tokStar
	tokAnd
	tokOr
)

type token struct {
	kind tokKind
	off  int
	text string
}

func isOp(r rune) bool {
	return r == '(' || r == ')' || r == ':'
}

var opKinds = map[byte]tokKind{'(': tokLParen, ')': tokRParen, ':': tokColon, '-': tokNot, '*': tokStar}

// lex splits query into tokens. "-" and "*" are operators only at the
// start of a word, so "a:foo-bar" is a single match.
func lex(query string) ([]token, error) {
	var toks []token
	for off := 0; off < len(query); {
		r, size := utf8.DecodeRuneInString(query[off:])
		switch {
		case unicode.IsSpace(r):
			off += size

		case isOp(r) || r == '-' || r == '*':
			toks = append(toks, token{opKinds[query[off]], off, query[off : off+1]})
			off++

		case r == '"':
			end := off + 1
			for end < len(query) && query[end] != '"' {
				if query[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(query) {
				return nil, &SyntaxError{query, off, "missing end quote"}
			}
			word, err := strconv.Unquote(query[off : end+1])
			if err != nil {
				return nil, &SyntaxError{query, off, "bad quoted string"}
			}
			toks = append(toks, token{tokWord, off, word})
			off = end + 1

		default:
			end := off
			for end < len(query) {
				r, size := utf8.DecodeRuneInString(query[end:])
				if unicode.IsSpace(r) || isOp(r) {
					break
				}
				end += size
			}
			word := query[off:end]
			kind := tokWord
			switch word {
			case "AND":
				kind = tokAnd
			case "OR":
				kind = tokOr
			}
			toks = append(toks, token{kind, off, word})
			off = end
		}
	}
	return append(toks, token{tokEOF, len(query), ""}), nil
}

type parser struct {
	query string
	toks  []token
	pos   int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{p.query, t.off, fmt.Sprintf(format, args...)}
}

func join(op Op, terms []Query) Query {
	if len(terms) == 1 {
		return terms[0]
	}
	return &BoolOp{op, terms}
}

// list parses one or more sub-expressions separated by sep.
func (p *parser) list(sub func() (Query, error), sep tokKind) ([]Query, error) {
	var terms []Query
	for {
		q, err := sub()
		if err != nil {
			return nil, err
		}
		terms = append(terms, q)
		if p.peek().kind != sep {
			return terms, nil
		}
		p.next()
	}
}

func (p *parser) expr() (Query, error) {
	terms, err := p.list(p.and, tokOr)
	if err != nil {
		return nil, err
	}
	return join(OpOr, terms), nil
}

func (p *parser) and() (Query, error) {
	terms, err := p.list(p.phrase, tokAnd)
	if err != nil {
		return nil, err
	}
	return join(OpAnd, terms), nil
}

func (p *parser) phrase() (Query, error) {
	var terms []Query
	for {
		switch t := p.peek(); t.kind {
		case tokLParen, tokNot, tokStar, tokWord:
			q, err := p.match()
			if err != nil {
				return nil, err
			}
			terms = append(terms, q)
			continue
		case tokColon:
			return nil, p.errorf(t, "unexpected %q", t.text)
		}
		break
	}
	if len(terms) == 0 {
		return nil, p.errorf(p.peek(), "nothing to match")
	}
	return join(OpAnd, terms), nil
}

func (p *parser) match() (Query, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		q, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf(p.peek(), `missing ")"`)
		}
		p.next()
		return q, nil

	case tokNot:
		q, err := p.match()
		if err != nil {
			return nil, err
		}
		return &BoolOp{OpNot, []Query{q}}, nil

	case tokStar:
		return &BoolOp{Op: OpAnd}, nil
	}

	// A key:value match.
	if t.kind != tokWord || p.peek().kind != tokColon {
		return nil, p.errorf(t, "expected key:value")
	}
	p.next()
	v := p.next()
	switch v.kind {
	case tokWord:
		return p.keyMatch(t, v)
	case tokLParen:
		var terms []Query
		for p.peek().kind == tokWord {
			q, err := p.keyMatch(t, p.next())
			if err != nil {
				return nil, err
			}
			terms = append(terms, q)
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf(p.peek(), "expected value")
		}
		if len(terms) == 0 {
			return nil, p.errorf(p.peek(), "nothing to match")
		}
		p.next()
		return join(OpOr, terms), nil
	}
	return nil, p.errorf(v, "expected value")
}

func (p *parser) keyMatch(key, val token) (Query, error) {
	re, err := regexp.Compile("^(?:" + val.text + ")$")
	if err != nil {
		return nil, p.errorf(val, "bad pattern: %v", err)
	}
	return &KeyMatch{Key: key.text, Pattern: val.text, Off: key.off, re: re}, nil
}
