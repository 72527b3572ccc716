// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names of a latency export.
const (
	ColumnResponseTime = "response_time"
	ColumnRunID        = "runid"
	ColumnTimestamp    = "timestamp"
	ColumnAction       = "action"
)

// RunKey is the file configuration key a CSVReader stores each row's
// run ID under.
const RunKey = "run"

// CSVUnit is the unit of response times in a latency export.
const CSVUnit = "ms"

// A CSVReader reads semicolon-separated latency exports of the form
//
//	response_time;runid;timestamp;action
//	12,5;run-1;1613570400;login
//
// The first row is a header naming the columns, which may appear in
// any order. Response times may use a comma or a period as the
// decimal separator. Each row becomes a Result whose FullName is the
// action, whose single Value is the response time in CSVUnit, and
// whose RunKey file configuration is the run ID.
//
// Like Reader, a CSVReader retains ownership of the Results it
// returns.
type CSVReader struct {
	c        *csv.Reader
	fileName string
	err      error

	// col maps each known column to its index in a row, or -1.
	col struct{ time, run, action int }

	result    Result
	resultErr error
}

// NewCSVReader constructs a reader for a latency export read from r.
// fileName is used in error messages.
func NewCSVReader(r io.Reader, fileName string) *CSVReader {
	reader := new(CSVReader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. As with
// Reader.Reset, fileConfig is an alternating sequence of keys and
// values to set as file configuration.
func (r *CSVReader) Reset(ior io.Reader, fileName string, fileConfig ...string) {
	r.c = csv.NewReader(ior)
	r.c.Comma = ';'
	r.c.FieldsPerRecord = -1
	r.c.LazyQuotes = true
	r.c.TrimLeadingSpace = true
	r.c.ReuseRecord = true
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.err = nil
	r.resultErr = noResult
	r.col.time, r.col.run, r.col.action = -1, -1, -1

	r.result.reset(fileConfig)
}

// Scan advances the reader to the next row and returns true if one
// was read. It returns false at the end of the input or on an I/O
// error or malformed header, which Err reports.
func (r *CSVReader) Scan() bool {
	if r.err != nil {
		return false
	}
	for {
		rec, err := r.c.Read()
		if err == io.EOF {
			return false
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			if r.col.time < 0 {
				r.err = &SyntaxError{r.fileName, perr.Line, "reading header: " + perr.Err.Error()}
				return false
			}
			r.resultErr = &SyntaxError{r.fileName, perr.Line, perr.Err.Error()}
			return true
		} else if err != nil {
			r.err = fmt.Errorf("%s: %w", r.fileName, err)
			return false
		}

		if r.col.time < 0 {
			if err := r.parseHeader(rec); err != nil {
				r.err = err
				return false
			}
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			// Blank line.
			continue
		}
		r.resultErr = r.parseRow(rec)
		return true
	}
}

func (r *CSVReader) parseHeader(rec []string) error {
	r.col.run, r.col.action = -1, -1
	time := -1
	for i, name := range rec {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnResponseTime:
			time = i
		case ColumnRunID:
			r.col.run = i
		case ColumnAction:
			r.col.action = i
		}
	}
	line, _ := r.c.FieldPos(0)
	if time < 0 {
		return &SyntaxError{r.fileName, line, "header has no " + ColumnResponseTime + " column"}
	}
	if r.col.action < 0 {
		return &SyntaxError{r.fileName, line, "header has no " + ColumnAction + " column"}
	}
	r.col.time = time
	return nil
}

func (r *CSVReader) parseRow(rec []string) error {
	line, _ := r.c.FieldPos(0)
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	action, ok := field(r.col.action)
	if !ok || action == "" {
		return &SyntaxError{r.fileName, line, "missing " + ColumnAction}
	}
	raw, ok := field(r.col.time)
	if !ok || raw == "" {
		return &SyntaxError{r.fileName, line, "missing " + ColumnResponseTime}
	}
	val, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return &SyntaxError{r.fileName, line, "parsing " + ColumnResponseTime + ": " + numError(err)}
	}
	run, _ := field(r.col.run)

	r.result.SetFileConfig(RunKey, run)
	r.result.setFullName(append(r.result.FullName[:0], action...))
	r.result.Iters = 1
	r.result.Values = append(r.result.Values[:0], Value{val, CSVUnit})
	return nil
}

// Result returns the last row read as a Result, or an error if the
// row was malformed. Parse errors are non-fatal, so the caller can
// continue to call Scan.
//
// The caller should not retain the Result object, as it will be
// overwritten by the next call to Scan.
func (r *CSVReader) Result() (*Result, error) {
	if r.resultErr != nil {
		return nil, r.resultErr
	}
	return &r.result, nil
}

// Err returns the first I/O or header error encountered by the
// CSVReader.
func (r *CSVReader) Err() error {
	return r.err
}
