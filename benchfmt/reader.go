// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A Reader reads the Go benchmark format.
//
// Every "Benchmark" line becomes one Result. Lines of the form
// "key: value" set file configuration for the results that follow,
// such as the run a load test belongs to. All other lines are
// ignored, so the output of "go test -bench" can be read directly.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Results it returns; a caller should Clone anything it needs to
// keep.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error // current I/O error

	result    Result
	resultErr error
}

// SyntaxError represents a syntax error on a particular line of a
// results file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noResult = errors.New("Scan has not been called")

// NewReader constructs a reader to parse the Go benchmark format from
// r. fileName is used in error messages.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. This
// also resets all of the file-level configuration values.
//
// fileConfig is an alternating sequence of keys and values that are
// set as file configuration before the input is read.
func (r *Reader) Reset(ior io.Reader, fileName string, fileConfig ...string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.resultErr = noResult
	r.result.reset(fileConfig)
}

var benchmarkPrefix = []byte("Benchmark")

// Scan advances the reader to the next result and returns true if a
// result was read. The caller should use the Result method to get the
// result. If an I/O error occurs, or this reaches the end of the
// file, it returns false and the caller should use the Err method to
// check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.lineNum++
		line := r.s.Bytes()
		if bytes.HasPrefix(line, benchmarkPrefix) {
			// A malformed benchmark line is still a result,
			// just one that reports an error.
			r.resultErr = r.parseBenchmarkLine(line[len(benchmarkPrefix):])
			return true
		}
		if key, val, ok := parseKeyValueLine(line); ok {
			r.result.SetFileConfig(string(key), string(val))
		}
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
	}
	return false
}

// parseKeyValueLine parses line as a "key: value" configuration
// line. The key starts with a lower case letter and has no spaces or
// upper case letters. A non-empty value is separated from the colon
// by spaces or tabs. An empty value deletes the key.
func parseKeyValueLine(line []byte) (key, val []byte, ok bool) {
	colon := bytes.IndexByte(line, ':')
	if colon <= 0 {
		return nil, nil, false
	}
	key = line[:colon]
	if first, _ := utf8.DecodeRune(key); !unicode.IsLower(first) {
		return nil, nil, false
	}
	if bytes.IndexFunc(key, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsUpper(r) }) >= 0 {
		return nil, nil, false
	}
	val = line[colon+1:]
	if len(val) == 0 {
		return key, val, true
	}
	trimmed := bytes.TrimLeft(val, " \t")
	if len(trimmed) == len(val) {
		// "key:value" is not a configuration line.
		return nil, nil, false
	}
	return key, trimmed, true
}

// parseBenchmarkLine parses the fields of a benchmark line after the
// "Benchmark" prefix into r.result:
//
//	<name> <iterations> <value> <unit> [<value> <unit>...]
func (r *Reader) parseBenchmarkLine(line []byte) error {
	fields := bytes.Fields(line)
	var name []byte
	if len(fields) > 0 {
		name = fields[0]
	}
	r.result.setFullName(name)
	r.result.Values = r.result.Values[:0]

	if len(fields) < 2 {
		return r.syntaxError("missing iteration count")
	}
	iters, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return r.syntaxError("parsing iteration count: " + numError(err))
	}
	r.result.Iters = iters

	pairs := fields[2:]
	if len(pairs) == 0 {
		return r.syntaxError("missing measurements")
	}
	for i := 0; i < len(pairs); i += 2 {
		val, err := strconv.ParseFloat(string(pairs[i]), 64)
		if err != nil {
			return r.syntaxError("parsing measurement: " + numError(err))
		}
		if i+1 == len(pairs) {
			return r.syntaxError("missing units")
		}
		r.result.Values = append(r.result.Values, Value{val, string(pairs[i+1])})
	}
	return nil
}

func (r *Reader) syntaxError(msg string) error {
	return &SyntaxError{r.fileName, r.lineNum, msg}
}

// numError strips the function and input from a strconv error.
func numError(err error) string {
	var nerr *strconv.NumError
	if errors.As(err, &nerr) {
		return nerr.Err.Error()
	}
	return err.Error()
}

// Result returns the last result read, or an error if the result was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Result object, as it will be
// overwritten by the next call to Scan.
func (r *Reader) Result() (*Result, error) {
	if r.resultErr != nil {
		return nil, r.resultErr
	}
	return &r.result, nil
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}
