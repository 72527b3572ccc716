// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// A Writer writes the Go benchmark format.
//
// Keys that cannot be written as file configuration lines, such as
// FileKey, are omitted. Whitespace in benchmark names is replaced
// with underscores so the output can be read back.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	first      bool
	fileConfig map[string]string
	order      []string
}

// NewWriter returns a writer that writes Go benchmark results to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true, fileConfig: make(map[string]string)}
}

// Write writes benchmark result res to w. If res's file configuration
// differs from the current file configuration in w, it first emits
// the appropriate file configuration lines.
func (w *Writer) Write(res *Result) error {
	// If any file config changed, write out the changes.
	if w.configChanged(res) {
		w.writeFileConfig(res)
	}

	// Print the benchmark line.
	fmt.Fprintf(&w.buf, "Benchmark%s %d", benchName(res.FullName), res.Iters)
	for _, val := range res.Values {
		fmt.Fprintf(&w.buf, " %v %s", val.Value, val.Unit)
	}
	w.buf.WriteByte('\n')

	w.first = false

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

// writable reports whether cfg can be written as a file
// configuration line.
func writable(cfg Config) bool {
	if cfg.Value == "" || cfg.Key == "" {
		return false
	}
	_, _, ok := parseKeyValueLine([]byte(cfg.Key + ": x"))
	return ok
}

func (w *Writer) configChanged(res *Result) bool {
	n := 0
	for _, cfg := range res.FileConfig {
		if !writable(cfg) {
			continue
		}
		n++
		if val, ok := w.fileConfig[cfg.Key]; !ok || val != cfg.Value {
			return true
		}
	}
	return n != len(w.fileConfig)
}

func (w *Writer) writeFileConfig(res *Result) {
	if !w.first {
		// Configuration blocks after results get an extra blank.
		w.buf.WriteByte('\n')
		w.first = true
	}

	// Walk keys we know to find changes and deletions.
	for i := 0; i < len(w.order); i++ {
		key := w.order[i]
		idx, ok := res.FileConfigIndex(key)
		if !ok || res.FileConfig[idx].Value == "" {
			// Key was deleted.
			fmt.Fprintf(&w.buf, "%s:\n", key)
			delete(w.fileConfig, key)
			copy(w.order[i:], w.order[i+1:])
			w.order = w.order[:len(w.order)-1]
			i--
			continue
		}
		cfg := res.FileConfig[idx]
		if w.fileConfig[key] == cfg.Value {
			continue
		}
		fmt.Fprintf(&w.buf, "%s: %s\n", key, cfg.Value)
		w.fileConfig[key] = cfg.Value
	}

	// Find new keys.
	for _, cfg := range res.FileConfig {
		if _, ok := w.fileConfig[cfg.Key]; ok || !writable(cfg) {
			continue
		}
		fmt.Fprintf(&w.buf, "%s: %s\n", cfg.Key, cfg.Value)
		w.fileConfig[cfg.Key] = cfg.Value
		w.order = append(w.order, cfg.Key)
	}

	w.buf.WriteByte('\n')
}

// benchName returns name with every run of whitespace replaced by a
// single underscore.
func benchName(name []byte) string {
	if bytes.IndexFunc(name, unicode.IsSpace) < 0 {
		return string(name)
	}
	return strings.Join(strings.Fields(string(name)), "_")
}
